package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// Loader metrics
	StrategyAttemptsTotal *prometheus.CounterVec
	StrategyDuration      *prometheus.HistogramVec
	ResolutionsTotal      *prometheus.CounterVec
	ResolutionDuration    prometheus.Histogram

	// Watcher metrics
	WatchPassesTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
	otel     *OTelMetrics
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		StrategyAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pluginloader_strategy_attempts_total",
				Help: "Total number of resolution strategy attempts",
			},
			[]string{"strategy", "outcome"},
		),
		StrategyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pluginloader_strategy_duration_seconds",
				Help:    "Time spent in a single resolution strategy",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"strategy"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pluginloader_resolutions_total",
				Help: "Total number of plugin resolutions",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pluginloader_resolution_duration_seconds",
				Help:    "Time spent resolving one identifier",
				Buckets: prometheus.DefBuckets,
			},
		),
		WatchPassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pluginloader_watch_passes_total",
				Help: "Total number of watcher re-resolution passes",
			},
			[]string{"trigger"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pluginloader_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pluginloader_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.StrategyAttemptsTotal,
		m.StrategyDuration,
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.WatchPassesTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// WithOTel mirrors loader metrics into OpenTelemetry instruments
func (m *Metrics) WithOTel(o *OTelMetrics) *Metrics {
	if m != nil {
		m.otel = o
	}
	return m
}

// RecordStrategyAttempt records one strategy's outcome
func (m *Metrics) RecordStrategyAttempt(strategy, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StrategyAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
	m.StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.otel.recordStrategyAttempt(strategy, outcome)
}

// RecordResolution records the outcome of one identifier's resolution
func (m *Metrics) RecordResolution(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.ResolutionDuration.Observe(duration.Seconds())
	m.otel.recordResolution(outcome, duration)
}

// RecordWatchPass records one watcher pass and what triggered it
func (m *Metrics) RecordWatchPass(trigger string) {
	if m == nil {
		return
	}
	m.WatchPassesTotal.WithLabelValues(trigger).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for the metrics registry
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
