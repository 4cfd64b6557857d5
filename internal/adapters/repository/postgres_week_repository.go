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

type PostgresWeekRepository struct {
	db *sqlx.DB
}

func NewPostgresWeekRepository(db *sqlx.DB) *PostgresWeekRepository {
	return &PostgresWeekRepository{db: db}
}

// Upsert relies on the (user_id, week_start_date) unique constraint so the
// one-record-per-week invariant is enforced by the database itself. The
// canonical id is written back into the record.
func (r *PostgresWeekRepository) Upsert(ctx context.Context, week *domain.WeekRecord) error {
	if week.ID == "" {
		week.ID = uuid.NewString()
	}

	query := `
		INSERT INTO week_progress (id, user_id, week_start_date, is_completed, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, week_start_date)
		DO UPDATE SET is_completed = EXCLUDED.is_completed, note = EXCLUDED.note
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		week.ID, week.UserID, week.WeekStartDate, week.IsCompleted, week.Note,
	).Scan(&week.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresWeekRepository) ListByUserID(ctx context.Context, userID string) ([]domain.WeekRecord, error) {
	weeks := []domain.WeekRecord{}

	query := `
		SELECT id, user_id, week_start_date, is_completed, COALESCE(note, '') AS note
		FROM week_progress
		WHERE user_id = $1
		ORDER BY week_start_date`

	if err := r.db.SelectContext(ctx, &weeks, query, userID); err != nil {
		return nil, err
	}
	return weeks, nil
}

func (r *PostgresWeekRepository) GetByUserAndWeek(ctx context.Context, userID string, weekStart domain.Date) (*domain.WeekRecord, error) {
	var week domain.WeekRecord

	query := `
		SELECT id, user_id, week_start_date, is_completed, COALESCE(note, '') AS note
		FROM week_progress
		WHERE user_id = $1 AND week_start_date = $2`

	err := r.db.GetContext(ctx, &week, query, userID, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWeekNotFound
		}
		return nil, err
	}
	return &week, nil
}
