// Package observability provides logrus logging setup, Prometheus metrics, and OpenTelemetry tracing.
//
// # Logging
//
//	logger := observability.NewLogger(logrus.DebugLevel, observability.FormatJSON, os.Stderr)
//	ctx = observability.WithLogger(ctx, logger)
//	observability.FromContext(ctx).Info("resolving")
//
// # Prometheus Metrics
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.RecordStrategyAttempt("relative path", "loaded", d)
//	http.Handle("/metrics", metrics.Handler())
//
// A nil *Metrics records nothing, so callers never need to check.
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, cfg, logger)
//	defer providers.Shutdown(ctx)
//
// # Shutdown
//
//	shutdown := observability.NewShutdownManager(logger, srv, 30*time.Second)
//	shutdown.Register("opentelemetry", providers.Shutdown)
//	err := shutdown.WaitForShutdown(ctx)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/plugins: Records loader metrics and spans
package observability
