package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

// Cache keys of the public listings. Every key lives under CachePrefix so one
// purge clears them all.
const (
	CachePrefix              = "site:"
	CacheKeyPrograms         = CachePrefix + "programs"
	CacheKeyEvents           = CachePrefix + "events"
	CacheKeyAnnouncements    = CachePrefix + "announcements"
	CacheKeySettingsPrefix   = CachePrefix + "settings:"
	CacheKeyRegistration     = CachePrefix + "registration"
	CacheKeyProgramDetailFmt = CachePrefix + "program:%s"
)

// ListingStore persists listing snapshots.
type ListingStore interface {
	Load(ctx context.Context, key string, dest interface{}) error
	Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Purge(ctx context.Context, prefix string) (int, error)
}

// CacheService fronts the listing store with metrics and a kill switch. Reads
// and writes of the public site go through remember; admin writes end in
// Purge via the RevalidationService.
type CacheService struct {
	store   ListingStore
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service. ttl defaults to one minute.
func NewCacheService(store ListingStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled reports whether listings are cached at all.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// Lookup fills dest from the snapshot under key and reports a hit. Store
// failures are logged and count as a miss.
func (s *CacheService) Lookup(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.store.Load(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

// Keep snapshots value under key for the configured ttl.
func (s *CacheService) Keep(ctx context.Context, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	start := time.Now()
	err := s.store.Store(ctx, key, value, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("listing cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Purge drops every public listing snapshot.
func (s *CacheService) Purge(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	removed, err := s.store.Purge(ctx, CachePrefix)
	if err != nil {
		s.logger.Warn("listing cache purge failed", zap.Int("removed", removed), zap.Error(err))
		return err
	}
	s.logger.Debug("listing cache purged", zap.Int("removed", removed))
	return nil
}

// remember returns the snapshot under key or loads, keeps and returns a fresh
// value. The bool reports a cache hit. A failing cache never fails the read.
func remember[T any](ctx context.Context, cache *CacheService, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if cache.Lookup(ctx, key, &cached) {
		return cached, true, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, false, err
	}
	cache.Keep(ctx, key, value)
	return value, false, nil
}
