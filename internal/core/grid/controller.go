package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// Controller is the unified read/write surface of the sync engine. It owns
// one instance of each cache, sends every mutation to the remote before
// touching local state, and recomputes Stats after every event that could
// change them. One controller per session; the presentation layer never
// mutates the caches directly.
type Controller struct {
	remote  Remote
	session Session

	Config   *ConfigCache
	Progress *ProgressCache
	Periods  *PeriodCache

	mu    sync.RWMutex
	stats domain.Stats
}

func NewController(remote Remote, session Session) *Controller {
	return &Controller{
		remote:   remote,
		session:  session,
		Config:   NewConfigCache(remote),
		Progress: NewProgressCache(remote),
		Periods:  NewPeriodCache(remote),
	}
}

// LoadResult carries the per-field outcome of a LoadAll. Individual fetch
// failures are non-fatal: the sibling fetches still populate their caches.
type LoadResult struct {
	UserID string

	ConfigErr  error
	WeeksErr   error
	PeriodsErr error
	CohortErr  error
}

// Partial reports whether any fetch failed.
func (r LoadResult) Partial() bool {
	return r.ConfigErr != nil || r.WeeksErr != nil || r.PeriodsErr != nil || r.CohortErr != nil
}

// LoadAll refreshes every cache from the remote. The user id falls back to
// the session; with no resolvable user only the config is fetched and the
// other caches keep their initial empty state. Fetches run concurrently,
// each writing to a disjoint cache.
func (c *Controller) LoadAll(ctx context.Context, userID string) LoadResult {
	if userID == "" {
		if id, ok := c.session.CurrentUserID(); ok {
			userID = id
		}
	}

	res := LoadResult{UserID: userID}

	if userID == "" {
		res.ConfigErr = c.Config.Refresh(ctx)
		c.recompute()
		return res
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		res.ConfigErr = c.Config.Refresh(ctx)
	}()
	go func() {
		defer wg.Done()
		res.WeeksErr = c.Progress.RefreshWeeks(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		res.PeriodsErr = c.Periods.Refresh(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		res.CohortErr = c.Progress.RefreshCohort(ctx)
	}()
	wg.Wait()

	c.recompute()
	return res
}

// SetWeekStatus sends the mutation to the remote first and applies the
// canonical record locally only once the server accepted it, then patches
// the cohort matrix and recomputes stats. On failure local state is
// untouched. Retrying with the same arguments is safe.
func (c *Controller) SetWeekStatus(ctx context.Context, weekStart domain.Date, completed bool, note string) (*domain.WeekRecord, error) {
	userID, ok := c.session.CurrentUserID()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	weekStart = weekStart.WeekStart()

	rec, err := c.remote.UpsertWeek(ctx, UpsertWeekInput{
		WeekStartDate: weekStart,
		IsCompleted:   completed,
		Note:          note,
	})
	if err != nil {
		return nil, fmt.Errorf("set week status: %w", err)
	}

	stored := c.Progress.UpsertWeek(*rec)
	c.Progress.PatchCohortEntry(userID, stored.WeekStartDate, stored.IsCompleted, stored.Note)
	c.recompute()

	return &stored, nil
}

// ToggleWeek flips the completion state of a week, creating the record on
// the first toggle. The existing note is carried along.
func (c *Controller) ToggleWeek(ctx context.Context, weekStart domain.Date) (*domain.WeekRecord, error) {
	completed := true
	note := ""
	if existing := c.Progress.GetByDate(weekStart); existing != nil {
		completed = !existing.IsCompleted
		note = existing.Note
	}
	return c.SetWeekStatus(ctx, weekStart, completed, note)
}

// UpdateWeekNote edits the note while keeping the completion state.
func (c *Controller) UpdateWeekNote(ctx context.Context, weekStart domain.Date, note string) (*domain.WeekRecord, error) {
	completed := false
	if existing := c.Progress.GetByDate(weekStart); existing != nil {
		completed = existing.IsCompleted
	}
	return c.SetWeekStatus(ctx, weekStart, completed, note)
}

func (c *Controller) AddSpecialPeriod(ctx context.Context, input CreatePeriodInput) (*domain.SpecialPeriod, error) {
	if input.UserID == "" {
		id, ok := c.session.CurrentUserID()
		if !ok {
			return nil, domain.ErrNotAuthenticated
		}
		input.UserID = id
	}

	period, err := c.Periods.Add(ctx, input)
	if err != nil {
		return nil, err
	}

	c.recompute()
	return period, nil
}

func (c *Controller) RemoveSpecialPeriod(ctx context.Context, id string) error {
	if err := c.Periods.Remove(ctx, id); err != nil {
		return err
	}

	c.recompute()
	return nil
}

// Stats returns the last derived counters. Recomputed internally, never
// mutated by callers.
func (c *Controller) Stats() domain.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// ServerStats fetches the server-computed variant for the active user,
// bypassing the local aggregator.
func (c *Controller) ServerStats(ctx context.Context) (*domain.Stats, error) {
	userID, ok := c.session.CurrentUserID()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return c.remote.FetchStats(ctx, userID)
}

func (c *Controller) recompute() {
	stats := ComputeStats(c.Config.Get(), c.Progress.Weeks(), c.Periods.Periods())

	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}
