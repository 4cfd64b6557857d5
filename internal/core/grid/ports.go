package grid

import (
	"context"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// Remote is the grid API the sync engine consumes. Implementations map
// transport failures onto the domain error taxonomy (ErrRemoteUnavailable,
// ErrNotAuthenticated, ErrValidationRejected).
type Remote interface {
	FetchConfig(ctx context.Context) (*domain.GlobalConfig, error)
	FetchWeeks(ctx context.Context, userID string) ([]domain.WeekRecord, error)

	// FetchStats retrieves the server-computed stats variant. The engine
	// computes its own; this exists for cross-checking against the remote.
	FetchStats(ctx context.Context, userID string) (*domain.Stats, error)

	FetchSpecialPeriods(ctx context.Context, userID string) ([]domain.SpecialPeriod, error)
	FetchAllProgress(ctx context.Context) ([]domain.UserProgress, error)

	UpsertWeek(ctx context.Context, input UpsertWeekInput) (*domain.WeekRecord, error)
	CreateSpecialPeriod(ctx context.Context, input CreatePeriodInput) (*domain.SpecialPeriod, error)
	DeleteSpecialPeriod(ctx context.Context, id string) error
}

type UpsertWeekInput struct {
	WeekStartDate domain.Date `json:"week_start_date"`
	IsCompleted   bool        `json:"is_completed"`
	Note          string      `json:"note,omitempty"`
}

type CreatePeriodInput struct {
	UserID      string      `json:"user_id,omitempty"`
	StartDate   domain.Date `json:"start_date"`
	EndDate     domain.Date `json:"end_date"`
	PeriodType  string      `json:"period_type,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Session resolves the active user. Implementations must tolerate having
// no session at all, reporting ok=false.
type Session interface {
	CurrentUserID() (id string, ok bool)
}
