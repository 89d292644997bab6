package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eboard-api/internal/models"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

const statsCacheKey = "stats:notices"

type statsStore interface {
	Stats(ctx context.Context, today models.Date) (models.NoticeStats, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// StatsService serves the dashboard counters, optionally through the cache.
type StatsService struct {
	store  statsStore
	cache  statsCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(store statsStore, cache statsCache, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{store: store, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

// Get returns the counters for the server-local current day.
func (s *StatsService) Get(ctx context.Context) (*models.NoticeStats, error) {
	var stats models.NoticeStats
	if s.cache != nil {
		// A cache failure falls through to the store.
		if hit, _ := s.cache.Get(ctx, statsCacheKey, &stats); hit {
			return &stats, nil
		}
	}

	stats, err := s.store.Stats(ctx, models.NewDate(s.now()))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to compute notice stats")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, statsCacheKey, stats, s.ttl)
	}
	return &stats, nil
}

// Invalidate drops the cached counters after a mutation.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, statsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
