package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// ConfigCache holds the goal range fetched from the grid service. Replaced
// wholesale on every successful refresh; a failed refresh keeps the stale
// value available.
type ConfigCache struct {
	remote Remote

	mu     sync.RWMutex
	config *domain.GlobalConfig
}

func NewConfigCache(remote Remote) *ConfigCache {
	return &ConfigCache{remote: remote}
}

func (c *ConfigCache) Refresh(ctx context.Context) error {
	cfg, err := c.remote.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("config cache: refresh: %w", err)
	}

	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
	return nil
}

// Get returns the held config, or nil when nothing has been loaded yet.
func (c *ConfigCache) Get() *domain.GlobalConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil {
		return nil
	}
	cfg := *c.config
	return &cfg
}
