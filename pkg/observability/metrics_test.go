package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	require.NotNil(t, metrics)
	assert.NotNil(t, metrics.StrategyAttemptsTotal)
	assert.NotNil(t, metrics.StrategyDuration)
	assert.NotNil(t, metrics.ResolutionsTotal)
	assert.NotNil(t, metrics.ResolutionDuration)
	assert.NotNil(t, metrics.WatchPassesTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)

	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestMetrics_Record(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.RecordStrategyAttempt("relative path", "loaded", 5*time.Millisecond)
	metrics.RecordStrategyAttempt("relative path", "loaded", 5*time.Millisecond)
	metrics.RecordStrategyAttempt("src/index", "skipped", 0)
	metrics.RecordResolution("found", 10*time.Millisecond)
	metrics.RecordWatchPass("fsnotify")
	metrics.RecordHTTPRequest("GET", "/v1/strategies", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.StrategyAttemptsTotal.WithLabelValues("relative path", "loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StrategyAttemptsTotal.WithLabelValues("src/index", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ResolutionsTotal.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WatchPassesTotal.WithLabelValues("fsnotify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/v1/strategies", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.RecordStrategyAttempt("direct import", "failed", time.Millisecond)
		metrics.RecordResolution("not_found", time.Millisecond)
		metrics.RecordWatchPass("cron")
		metrics.RecordHTTPRequest("GET", "/", 404, time.Millisecond)
		metrics.WithOTel(nil)
	})
	assert.NotNil(t, metrics.Handler())
}

func TestMetrics_Handler(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	metrics.RecordResolution("found", time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `pluginloader_resolutions_total{outcome="found"} 1`)
}
