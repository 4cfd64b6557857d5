package domain

import (
	"context"
)

type WeekRepository interface {
	// Upsert inserts the record or, when one already exists for the same
	// (user_id, week_start_date) key, replaces its fields in place.
	Upsert(ctx context.Context, week *WeekRecord) error

	// ListByUserID retrieves all week records for a user.
	ListByUserID(ctx context.Context, userID string) ([]WeekRecord, error)

	// GetByUserAndWeek retrieves the record keyed by a normalized week start.
	GetByUserAndWeek(ctx context.Context, userID string, weekStart Date) (*WeekRecord, error)
}

type PeriodRepository interface {
	// Create persists a new special period.
	Create(ctx context.Context, period *SpecialPeriod) error

	// ListByUserID retrieves a user's periods in insertion order.
	ListByUserID(ctx context.Context, userID string) ([]SpecialPeriod, error)

	// GetByID retrieves a period by its unique identifier.
	GetByID(ctx context.Context, id string) (*SpecialPeriod, error)

	// Delete permanently removes a period.
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmoji(ctx context.Context, emoji string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
}

// CohortRepository serves the denormalized all-users matrix view. Kept as
// its own port so a cache decorator can sit in front of the SQL join.
type CohortRepository interface {
	AllProgress(ctx context.Context) ([]UserProgress, error)
}

// CohortInvalidator is implemented by cached CohortRepository decorators.
// Services call it after mutations that change the matrix.
type CohortInvalidator interface {
	Invalidate(ctx context.Context)
}
