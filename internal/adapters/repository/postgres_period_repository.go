package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

type PostgresPeriodRepository struct {
	db *sqlx.DB
}

func NewPostgresPeriodRepository(db *sqlx.DB) *PostgresPeriodRepository {
	return &PostgresPeriodRepository{db: db}
}

func (r *PostgresPeriodRepository) Create(ctx context.Context, period *domain.SpecialPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}

	query := `
		INSERT INTO special_periods (id, user_id, start_date, end_date, period_type, description)
		VALUES (:id, :user_id, :start_date, :end_date, :period_type, :description)`

	_, err := r.db.NamedExecContext(ctx, query, period)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

// ListByUserID returns periods in insertion order; membership queries pick
// the first match, so ordering here is part of the contract.
func (r *PostgresPeriodRepository) ListByUserID(ctx context.Context, userID string) ([]domain.SpecialPeriod, error) {
	periods := []domain.SpecialPeriod{}

	query := `
		SELECT id, user_id, start_date, end_date, period_type, COALESCE(description, '') AS description
		FROM special_periods
		WHERE user_id = $1
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &periods, query, userID); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *PostgresPeriodRepository) GetByID(ctx context.Context, id string) (*domain.SpecialPeriod, error) {
	var period domain.SpecialPeriod

	query := `
		SELECT id, user_id, start_date, end_date, period_type, COALESCE(description, '') AS description
		FROM special_periods
		WHERE id = $1`

	err := r.db.GetContext(ctx, &period, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	return &period, nil
}

func (r *PostgresPeriodRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM special_periods WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPeriodNotFound
	}
	return nil
}
