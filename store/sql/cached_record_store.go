package sqlstore

import (
	"context"
	"fmt"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-disputes/core"
)

const statusMetricsCacheKeyPrefix = "go-disputes::status_metrics::v1"

// CachedRecordStore caches the Metrics aggregate in front of a base
// RecordStore. The key is scoped to the UTC date so stale counts age out
// at the day boundary on their own; inserts invalidate eagerly.
type CachedRecordStore struct {
	base  core.RecordStore
	cache repositorycache.CacheService
}

func NewCachedRecordStore(base core.RecordStore, cacheService repositorycache.CacheService) (*CachedRecordStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base record store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: metrics cache service is required")
	}
	return &CachedRecordStore{base: base, cache: cacheService}, nil
}

// StatusMetricsCacheKey returns the deterministic cache key for the
// status counts of the UTC day containing now:
// go-disputes::status_metrics::v1::<YYYY-MM-DD>
func StatusMetricsCacheKey(now time.Time) string {
	return statusMetricsCacheKeyPrefix + "::" + now.UTC().Format("2006-01-02")
}

func (s *CachedRecordStore) Ping(ctx context.Context) error {
	if s == nil || s.base == nil {
		return fmt.Errorf("sqlstore: cached record store is not configured")
	}
	return s.base.Ping(ctx)
}

func (s *CachedRecordStore) InsertProcessed(ctx context.Context, record core.ProcessedWebhookRecord) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached record store is not configured")
	}
	if err := s.base.InsertProcessed(ctx, record); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedRecordStore) InsertError(ctx context.Context, record core.ErrorRecord) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached record store is not configured")
	}
	if err := s.base.InsertError(ctx, record); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedRecordStore) Metrics(ctx context.Context, now time.Time) (core.StatusMetrics, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.StatusMetrics{}, fmt.Errorf("sqlstore: cached record store is not configured")
	}
	cacheKey := StatusMetricsCacheKey(now)
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.StatusMetrics, error) {
		return s.base.Metrics(ctx, now)
	})
}

func (s *CachedRecordStore) invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, StatusMetricsCacheKey(time.Now()))
}
