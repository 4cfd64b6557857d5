package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// In-memory implementations of the repository ports, used by tests and by
// the API server when no database is configured.

type InMemoryWeekRepository struct {
	// keyed by user id; slices keep week_start order on insert
	store map[string][]domain.WeekRecord

	mu sync.RWMutex
}

func NewInMemoryWeekRepository() *InMemoryWeekRepository {
	return &InMemoryWeekRepository{
		store: make(map[string][]domain.WeekRecord),
	}
}

func (r *InMemoryWeekRepository) Upsert(ctx context.Context, week *domain.WeekRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	weeks := r.store[week.UserID]
	for i := range weeks {
		if weeks[i].WeekStartDate.Equal(week.WeekStartDate) {
			week.ID = weeks[i].ID
			weeks[i] = *week
			return nil
		}
	}
	r.store[week.UserID] = append(weeks, *week)
	return nil
}

func (r *InMemoryWeekRepository) ListByUserID(ctx context.Context, userID string) ([]domain.WeekRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	weeks := make([]domain.WeekRecord, len(r.store[userID]))
	copy(weeks, r.store[userID])

	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStartDate.Before(weeks[j].WeekStartDate)
	})
	return weeks, nil
}

func (r *InMemoryWeekRepository) GetByUserAndWeek(ctx context.Context, userID string, weekStart domain.Date) (*domain.WeekRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range r.store[userID] {
		if w.WeekStartDate.Equal(weekStart) {
			rec := w
			return &rec, nil
		}
	}
	return nil, domain.ErrWeekNotFound
}

type InMemoryPeriodRepository struct {
	periods []domain.SpecialPeriod

	mu sync.RWMutex
}

func NewInMemoryPeriodRepository() *InMemoryPeriodRepository {
	return &InMemoryPeriodRepository{}
}

func (r *InMemoryPeriodRepository) Create(ctx context.Context, period *domain.SpecialPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.periods = append(r.periods, *period)
	return nil
}

func (r *InMemoryPeriodRepository) ListByUserID(ctx context.Context, userID string) ([]domain.SpecialPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.SpecialPeriod
	for _, p := range r.periods {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryPeriodRepository) GetByID(ctx context.Context, id string) (*domain.SpecialPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.periods {
		if p.ID == id {
			period := p
			return &period, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

func (r *InMemoryPeriodRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.periods {
		if r.periods[i].ID == id {
			r.periods = append(r.periods[:i], r.periods[i+1:]...)
			return nil
		}
	}
	return domain.ErrPeriodNotFound
}

type InMemoryUserRepository struct {
	store map[string]*domain.User
	order []string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		// The default glyph is shared; only chosen glyphs are unique.
		if existing.Emoji == user.Emoji && user.Emoji != domain.DefaultEmoji {
			return domain.ErrEmojiAlreadyTaken
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	r.order = append(r.order, user.ID)
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range r.store {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByEmoji(ctx context.Context, emoji string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Emoji == emoji {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		if user, ok := r.store[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}

	for _, existing := range r.store {
		if existing.ID != user.ID && existing.Emoji == user.Emoji && user.Emoji != domain.DefaultEmoji {
			return domain.ErrEmojiAlreadyTaken
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

var _ domain.CohortRepository = (*InMemoryCohortRepository)(nil)

// InMemoryCohortRepository derives the matrix view from the user and week
// repositories on every call.
type InMemoryCohortRepository struct {
	users *InMemoryUserRepository
	weeks *InMemoryWeekRepository
}

func NewInMemoryCohortRepository(users *InMemoryUserRepository, weeks *InMemoryWeekRepository) *InMemoryCohortRepository {
	return &InMemoryCohortRepository{users: users, weeks: weeks}
}

func (r *InMemoryCohortRepository) AllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}

	progress := make([]domain.UserProgress, 0, len(users))
	for _, user := range users {
		weeks, err := r.weeks.ListByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}

		entry := domain.UserProgress{
			UserID:      user.ID,
			Emoji:       user.Emoji,
			Completions: []domain.Completion{},
		}
		for _, w := range weeks {
			if w.IsCompleted {
				entry.Completions = append(entry.Completions, domain.Completion{
					Date: w.WeekStartDate,
					Note: w.Note,
				})
			}
		}
		progress = append(progress, entry)
	}
	return progress, nil
}
