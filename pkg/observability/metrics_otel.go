package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds OpenTelemetry metric instruments
type OTelMetrics struct {
	strategyAttempts   metric.Int64Counter
	resolutions        metric.Int64Counter
	resolutionDuration metric.Float64Histogram
}

// NewOTelMetrics creates instruments on the given meter
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	m := &OTelMetrics{}
	var err error

	m.strategyAttempts, err = meter.Int64Counter(
		"pluginloader.strategy.attempts",
		metric.WithDescription("Resolution strategy attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.resolutions, err = meter.Int64Counter(
		"pluginloader.resolutions",
		metric.WithDescription("Plugin resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	m.resolutionDuration, err = meter.Float64Histogram(
		"pluginloader.resolution.duration",
		metric.WithDescription("Time spent resolving one identifier"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (o *OTelMetrics) recordStrategyAttempt(strategy, outcome string) {
	if o == nil {
		return
	}
	o.strategyAttempts.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("outcome", outcome),
	))
}

func (o *OTelMetrics) recordResolution(outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	o.resolutions.Add(context.Background(), 1, attrs)
	o.resolutionDuration.Record(context.Background(), duration.Seconds(), attrs)
}
