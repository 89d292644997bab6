package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of the named series whose labels include
// every pair in labels. Counters and gauges only.
func gathered(t *testing.T, m *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, metric := range family.GetMetric() {
			have := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				have[pair.GetName()] = pair.GetValue()
			}
			for k, v := range labels {
				if have[k] != v {
					continue series
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	t.Fatalf("series %s%v not gathered", name, labels)
	return 0
}

func TestMetricsServiceRecordsMutationsAndSweeps(t *testing.T) {
	m := NewMetricsService()

	m.RecordNoticeMutation("update", 1)
	m.RecordNoticeMutation("update", 0)
	m.RecordNoticeMutation("update", 0)
	m.RecordSweep(3, 10*time.Millisecond, nil)
	m.RecordSweep(0, time.Millisecond, errors.New("db down"))

	assert.Equal(t, 1.0, gathered(t, m, "eboard_notice_mutations_total", map[string]string{"operation": "update", "result": "changed"}))
	assert.Equal(t, 2.0, gathered(t, m, "eboard_notice_mutations_total", map[string]string{"operation": "update", "result": "noop"}))
	assert.Equal(t, 1.0, gathered(t, m, "eboard_archive_sweep_runs_total", map[string]string{"outcome": "success"}))
	assert.Equal(t, 1.0, gathered(t, m, "eboard_archive_sweep_runs_total", map[string]string{"outcome": "failure"}))
	assert.Equal(t, 3.0, gathered(t, m, "eboard_archive_sweep_archived_total", nil))
	assert.Greater(t, gathered(t, m, "eboard_archive_sweep_last_success_timestamp_seconds", nil), 0.0)
}

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, 0.75, gathered(t, m, "eboard_cache_hit_ratio", nil))
	assert.Equal(t, 1.0, gathered(t, m, "eboard_cache_misses_total", nil))
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/api/notices", 200, time.Millisecond)
		m.RecordNoticeMutation("delete", 1)
		m.RecordSweep(1, time.Millisecond, nil)
		m.ObserveDBQuery("notices.list", time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
