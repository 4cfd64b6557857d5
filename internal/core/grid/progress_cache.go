package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// ProgressCache holds the active user's week records and the cohort-wide
// progress matrix. The two views are reconciled after every confirmed
// mutation: UpsertWeek updates the week list, PatchCohortEntry mirrors the
// same fact into the matrix.
type ProgressCache struct {
	remote Remote

	mu     sync.RWMutex
	weeks  []domain.WeekRecord
	cohort []domain.UserProgress
}

func NewProgressCache(remote Remote) *ProgressCache {
	return &ProgressCache{remote: remote}
}

// UpsertWeek replaces the record keyed by the same normalized week start,
// or appends when none exists. Purely local, never fails.
func (c *ProgressCache) UpsertWeek(rec domain.WeekRecord) domain.WeekRecord {
	rec.WeekStartDate = rec.WeekStartDate.WeekStart()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.weeks {
		if c.weeks[i].WeekStartDate.Equal(rec.WeekStartDate) {
			if rec.ID == "" {
				rec.ID = c.weeks[i].ID
			}
			c.weeks[i] = rec
			return rec
		}
	}
	c.weeks = append(c.weeks, rec)
	return rec
}

// PatchCohortEntry mirrors a confirmed week mutation into the cohort
// matrix. A missing user is a silent no-op: the gap is closed by the next
// wholesale cohort refresh.
func (c *ProgressCache) PatchCohortEntry(userID string, weekStart domain.Date, completed bool, note string) {
	weekStart = weekStart.WeekStart()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.cohort {
		if c.cohort[i].UserID != userID {
			continue
		}

		p := &c.cohort[i]
		for j := range p.Completions {
			if p.Completions[j].Date.Equal(weekStart) {
				if completed {
					p.Completions[j].Note = note
				} else {
					p.Completions = append(p.Completions[:j], p.Completions[j+1:]...)
				}
				return
			}
		}
		if completed {
			p.Completions = append(p.Completions, domain.Completion{Date: weekStart, Note: note})
		}
		return
	}
}

// GetByDate returns a copy of the record for the given week start, or nil.
func (c *ProgressCache) GetByDate(weekStart domain.Date) *domain.WeekRecord {
	weekStart = weekStart.WeekStart()

	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.weeks {
		if c.weeks[i].WeekStartDate.Equal(weekStart) {
			rec := c.weeks[i]
			return &rec
		}
	}
	return nil
}

// GetCohortByDate computes the per-week slice of the matrix on demand, one
// entry per cohort member. Never cached separately.
func (c *ProgressCache) GetCohortByDate(weekStart domain.Date) []domain.CohortCompletion {
	weekStart = weekStart.WeekStart()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CohortCompletion, 0, len(c.cohort))
	for i := range c.cohort {
		p := &c.cohort[i]
		entry := domain.CohortCompletion{UserID: p.UserID, Emoji: p.Emoji}
		for j := range p.Completions {
			if p.Completions[j].Date.Equal(weekStart) {
				entry.IsCompleted = true
				entry.Note = p.Completions[j].Note
				break
			}
		}
		out = append(out, entry)
	}
	return out
}

func (c *ProgressCache) Weeks() []domain.WeekRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.WeekRecord, len(c.weeks))
	copy(out, c.weeks)
	return out
}

func (c *ProgressCache) Cohort() []domain.UserProgress {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.UserProgress, len(c.cohort))
	copy(out, c.cohort)
	return out
}

// RefreshWeeks replaces the week list wholesale from the remote. The
// previous list survives a failed fetch.
func (c *ProgressCache) RefreshWeeks(ctx context.Context, userID string) error {
	weeks, err := c.remote.FetchWeeks(ctx, userID)
	if err != nil {
		return fmt.Errorf("progress cache: refresh weeks: %w", err)
	}
	for i := range weeks {
		weeks[i].WeekStartDate = weeks[i].WeekStartDate.WeekStart()
	}

	c.mu.Lock()
	c.weeks = weeks
	c.mu.Unlock()
	return nil
}

// RefreshCohort replaces the matrix wholesale from the remote.
func (c *ProgressCache) RefreshCohort(ctx context.Context) error {
	cohort, err := c.remote.FetchAllProgress(ctx)
	if err != nil {
		return fmt.Errorf("progress cache: refresh cohort: %w", err)
	}

	c.mu.Lock()
	c.cohort = cohort
	c.mu.Unlock()
	return nil
}
