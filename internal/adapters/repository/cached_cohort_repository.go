package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

var (
	_ domain.CohortRepository  = (*CachedCohortRepository)(nil)
	_ domain.CohortInvalidator = (*CachedCohortRepository)(nil)
)

const (
	cohortCacheKey = "grid:all-progress"
	cohortCacheTTL = 5 * time.Minute
)

// CachedCohortRepository puts a Redis read-through cache in front of the
// cohort join. The matrix is read on every grid load by every user, so it
// is the hottest query in the system. Redis being down only costs the
// cache: reads fall through to the inner repository.
type CachedCohortRepository struct {
	next  domain.CohortRepository
	cache *redis.Client
}

func NewCachedCohortRepository(next domain.CohortRepository, cache *redis.Client) *CachedCohortRepository {
	return &CachedCohortRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedCohortRepository) AllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	val, err := r.cache.Get(ctx, cohortCacheKey).Result()
	if err == nil {
		var progress []domain.UserProgress
		if err := json.Unmarshal([]byte(val), &progress); err == nil {
			return progress, nil
		}

		log.Printf("[CACHE] Corrupted cohort data, cleaning up key")
		r.cache.Del(ctx, cohortCacheKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	progress, err := r.next.AllProgress(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(progress); err == nil {
		if setErr := r.cache.Set(ctx, cohortCacheKey, data, cohortCacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return progress, nil
}

// Invalidate drops the cached matrix. Called after any week mutation so
// the next read rebuilds from the source of truth.
func (r *CachedCohortRepository) Invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, cohortCacheKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate cohort progress: %v", err)
	}
}
