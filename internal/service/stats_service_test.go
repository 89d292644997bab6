package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eboard-api/internal/models"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

type statsStoreStub struct {
	stats models.NoticeStats
	err   error
	days  []models.Date
}

func (s *statsStoreStub) Stats(ctx context.Context, today models.Date) (models.NoticeStats, error) {
	s.days = append(s.days, today)
	return s.stats, s.err
}

type memoryCacheRepo struct {
	values  map[string]models.NoticeStats
	deleted []string
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*models.NoticeStats)) = v
	return nil
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.(models.NoticeStats)
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func TestStatsServiceComputesForToday(t *testing.T) {
	store := &statsStoreStub{stats: models.NoticeStats{TotalActive: 2, TotalUrgent: 1, TotalToday: 0, TotalArchived: 1}}
	svc := NewStatsService(store, nil, time.Minute, nil)
	svc.now = func() time.Time { return time.Date(2025, 8, 13, 18, 0, 0, 0, time.Local) }

	stats, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.NoticeStats{TotalActive: 2, TotalUrgent: 1, TotalToday: 0, TotalArchived: 1}, *stats)
	require.Len(t, store.days, 1)
	assert.Equal(t, "2025-08-13", store.days[0].String())
}

func TestStatsServiceStoreFailure(t *testing.T) {
	svc := NewStatsService(&statsStoreStub{err: errors.New("boom")}, nil, time.Minute, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}

func TestStatsServiceCachesUntilInvalidated(t *testing.T) {
	store := &statsStoreStub{stats: models.NoticeStats{TotalActive: 4}}
	repo := &memoryCacheRepo{values: map[string]models.NoticeStats{}}
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	svc := NewStatsService(store, cache, time.Minute, nil)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)
	store.stats = models.NoticeStats{TotalActive: 5}

	cached, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), cached.TotalActive)
	assert.Len(t, store.days, 1)

	svc.Invalidate(context.Background())
	assert.Equal(t, []string{statsCacheKey}, repo.deleted)

	fresh, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), fresh.TotalActive)
}

func TestStatsServiceDisabledCacheAlwaysHitsStore(t *testing.T) {
	store := &statsStoreStub{}
	repo := &memoryCacheRepo{values: map[string]models.NoticeStats{}}
	svc := NewStatsService(store, NewCacheService(repo, nil, time.Minute, nil, false), time.Minute, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Get(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, store.days, 3)
	assert.Empty(t, repo.values)
}
