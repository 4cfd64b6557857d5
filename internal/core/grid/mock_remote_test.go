package grid_test

import (
	"context"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

// mockRemote is a scriptable grid.Remote. Fetches serve the stored
// snapshots, mutations return server-canonical records, and any method can
// be failed through its error field.
type mockRemote struct {
	mu sync.Mutex

	config   *domain.GlobalConfig
	weeks    []domain.WeekRecord
	periods  []domain.SpecialPeriod
	progress []domain.UserProgress
	stats    *domain.Stats

	configErr  error
	weeksErr   error
	periodsErr error
	cohortErr  error
	statsErr   error
	mutateErr  error

	upsertCalls  int
	createCalls  int
	deleteCalls  int
	deletedIDs   []string
	lastUpserted grid.UpsertWeekInput
}

func newMockRemote() *mockRemote {
	return &mockRemote{
		config: &domain.GlobalConfig{
			StartDate: mustDate("2024-01-01"),
			Deadline:  mustDate("2024-01-29"),
		},
	}
}

func mustDate(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (m *mockRemote) FetchConfig(ctx context.Context) (*domain.GlobalConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.configErr != nil {
		return nil, m.configErr
	}
	cfg := *m.config
	return &cfg, nil
}

func (m *mockRemote) FetchWeeks(ctx context.Context, userID string) ([]domain.WeekRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.weeksErr != nil {
		return nil, m.weeksErr
	}
	out := make([]domain.WeekRecord, len(m.weeks))
	copy(out, m.weeks)
	return out, nil
}

func (m *mockRemote) FetchStats(ctx context.Context, userID string) (*domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	stats := *m.stats
	return &stats, nil
}

func (m *mockRemote) FetchSpecialPeriods(ctx context.Context, userID string) ([]domain.SpecialPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.periodsErr != nil {
		return nil, m.periodsErr
	}
	out := make([]domain.SpecialPeriod, len(m.periods))
	copy(out, m.periods)
	return out, nil
}

func (m *mockRemote) FetchAllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cohortErr != nil {
		return nil, m.cohortErr
	}
	out := make([]domain.UserProgress, len(m.progress))
	copy(out, m.progress)
	return out, nil
}

func (m *mockRemote) UpsertWeek(ctx context.Context, input grid.UpsertWeekInput) (*domain.WeekRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	m.lastUpserted = input
	if m.mutateErr != nil {
		return nil, m.mutateErr
	}
	return &domain.WeekRecord{
		ID:            "srv-" + input.WeekStartDate.String(),
		WeekStartDate: input.WeekStartDate,
		IsCompleted:   input.IsCompleted,
		Note:          input.Note,
	}, nil
}

func (m *mockRemote) CreateSpecialPeriod(ctx context.Context, input grid.CreatePeriodInput) (*domain.SpecialPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.mutateErr != nil {
		return nil, m.mutateErr
	}
	return &domain.SpecialPeriod{
		ID:          "srv-period",
		UserID:      input.UserID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		PeriodType:  input.PeriodType,
		Description: input.Description,
	}, nil
}

func (m *mockRemote) DeleteSpecialPeriod(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

// stubSession resolves a fixed user, or nobody when id is empty.
type stubSession struct {
	id string
}

func (s stubSession) CurrentUserID() (string, bool) {
	return s.id, s.id != ""
}
