package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eboard-api/internal/models"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientMisses(t *testing.T) {
	repo := NewCacheRepository(nil, "eboard:")
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "stats", models.NoticeStats{TotalActive: 1}, time.Minute))

	var stats models.NoticeStats
	err := repo.Get(ctx, "stats", &stats)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Delete(ctx, "stats"))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryPrefixesKeys(t *testing.T) {
	repo := NewCacheRepository(nil, "eboard:")
	assert.Equal(t, "eboard:stats:notices", repo.key("stats:notices"))
}
