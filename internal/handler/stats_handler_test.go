package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eboard-api/internal/models"
	"github.com/noah-isme/eboard-api/internal/service"
	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

type statsServiceMock struct {
	stats *models.NoticeStats
	err   error
}

func (m statsServiceMock) Get(ctx context.Context) (*models.NoticeStats, error) {
	return m.stats, m.err
}

func TestStatsHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatsHandler(statsServiceMock{stats: &models.NoticeStats{TotalActive: 2, TotalUrgent: 1, TotalToday: 0, TotalArchived: 1}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalActive":2,"totalUrgent":1,"totalToday":0,"totalArchived":1}`, w.Body.String())
}

func TestStatsHandlerFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatsHandler(statsServiceMock{err: appErrors.Internal(errors.New("timeout"), "failed to compute notice stats")})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("refused") }),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"database":"up","redis":"down"}}`, w.Body.String())
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordSweep(3, 0, nil)
	handler := NewMetricsHandler(metrics, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	handler.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "eboard_archive_sweep_archived_total 3"))
}
