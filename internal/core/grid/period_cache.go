package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// PeriodCache holds the active user's special periods. Mutations are
// pessimistic: the remote call goes first, the local set changes only on
// confirmed success, so a failed write can never skew the effective-week
// count.
type PeriodCache struct {
	remote Remote

	mu      sync.RWMutex
	periods []domain.SpecialPeriod
}

func NewPeriodCache(remote Remote) *PeriodCache {
	return &PeriodCache{remote: remote}
}

func (c *PeriodCache) Refresh(ctx context.Context, userID string) error {
	periods, err := c.remote.FetchSpecialPeriods(ctx, userID)
	if err != nil {
		return fmt.Errorf("period cache: refresh: %w", err)
	}

	c.mu.Lock()
	c.periods = periods
	c.mu.Unlock()
	return nil
}

// MembershipOf returns the first stored period containing the date, in
// insertion order, or nil when the date lies outside every interval.
func (c *PeriodCache) MembershipOf(day domain.Date) *domain.SpecialPeriod {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.periods {
		if c.periods[i].Contains(day) {
			p := c.periods[i]
			return &p
		}
	}
	return nil
}

func (c *PeriodCache) Periods() []domain.SpecialPeriod {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.SpecialPeriod, len(c.periods))
	copy(out, c.periods)
	return out
}

// Add creates the period remotely and appends the canonical record on
// confirmed success.
func (c *PeriodCache) Add(ctx context.Context, input CreatePeriodInput) (*domain.SpecialPeriod, error) {
	period, err := c.remote.CreateSpecialPeriod(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("period cache: add: %w", err)
	}

	c.mu.Lock()
	c.periods = append(c.periods, *period)
	c.mu.Unlock()
	return period, nil
}

// Remove deletes the period remotely and drops it locally on confirmed
// success. Removing an id the cache never held is not an error.
func (c *PeriodCache) Remove(ctx context.Context, id string) error {
	if err := c.remote.DeleteSpecialPeriod(ctx, id); err != nil {
		return fmt.Errorf("period cache: remove: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.periods {
		if c.periods[i].ID == id {
			c.periods = append(c.periods[:i], c.periods[i+1:]...)
			break
		}
	}
	return nil
}
