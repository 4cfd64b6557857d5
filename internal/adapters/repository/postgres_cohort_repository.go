package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

var _ domain.CohortRepository = (*PostgresCohortRepository)(nil)

// PostgresCohortRepository builds the all-users matrix view with a single
// join instead of one query per user.
type PostgresCohortRepository struct {
	db *sqlx.DB
}

func NewPostgresCohortRepository(db *sqlx.DB) *PostgresCohortRepository {
	return &PostgresCohortRepository{db: db}
}

type cohortRow struct {
	UserID        string         `db:"user_id"`
	Emoji         string         `db:"emoji"`
	WeekStartDate domain.Date    `db:"week_start_date"`
	Note          sql.NullString `db:"note"`
}

func (r *PostgresCohortRepository) AllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	rows := []cohortRow{}

	query := `
		SELECT u.id AS user_id, u.emoji, w.week_start_date, w.note
		FROM users u
		LEFT JOIN week_progress w
		  ON w.user_id = u.id AND w.is_completed = TRUE
		ORDER BY u.created_at, w.week_start_date`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	progress := []domain.UserProgress{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.UserID]
		if !ok {
			i = len(progress)
			index[row.UserID] = i
			progress = append(progress, domain.UserProgress{
				UserID:      row.UserID,
				Emoji:       row.Emoji,
				Completions: []domain.Completion{},
			})
		}
		if row.WeekStartDate.IsZero() {
			continue
		}
		progress[i].Completions = append(progress[i].Completions, domain.Completion{
			Date: row.WeekStartDate,
			Note: row.Note.String,
		})
	}
	return progress, nil
}
