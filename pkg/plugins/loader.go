package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/platinummonkey/pluginloader/pkg/plugins"

// Loader resolves plugin identifiers by running strategies in order
type Loader struct {
	env        Environment
	importer   Importer
	strategies []Strategy
	log        *logrus.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
}

// Option configures a Loader
type Option func(*Loader)

// WithEnvironment sets the filesystem layout used for path derivation
func WithEnvironment(env Environment) Option {
	return func(l *Loader) { l.env = env }
}

// WithImporter replaces the default importer
func WithImporter(importer Importer) Option {
	return func(l *Loader) { l.importer = importer }
}

// WithStrategies replaces the default strategy order
func WithStrategies(strategies []Strategy) Option {
	return func(l *Loader) {
		l.strategies = make([]Strategy, len(strategies))
		copy(l.strategies, strategies)
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithMetrics records attempts and resolutions in m
func WithMetrics(m *observability.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithTracer sets the tracer used for resolution spans
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Loader) { l.tracer = tracer }
}

// NewLoader creates a new plugin loader
func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}

	l.env = l.env.withDefaults()
	if l.importer == nil {
		l.importer = NewDefaultImporter()
	}
	if l.strategies == nil {
		l.strategies = DefaultStrategies()
	}
	if l.log == nil {
		l.log = logrus.New()
	}
	if l.tracer == nil {
		l.tracer = otel.Tracer(tracerName)
	}

	return l
}

// Environment returns the loader's filesystem layout
func (l *Loader) Environment() Environment {
	return l.env
}

// Strategies returns a copy of the loader's strategy order
func (l *Loader) Strategies() []Strategy {
	out := make([]Strategy, len(l.strategies))
	copy(out, l.strategies)
	return out
}

// LoadPlugin returns the full module of the first strategy whose result
// passes the shape check, or nil when none does.
func (l *Loader) LoadPlugin(ctx context.Context, identifier string) Module {
	return l.Resolve(ctx, identifier).Module
}

// Resolve runs every strategy in order until one yields a plugin-shaped
// module. It never panics and never returns an error: failures end up in
// the result's attempts and LastErr.
func (l *Loader) Resolve(ctx context.Context, identifier string) *LoadResult {
	start := time.Now()
	result := &LoadResult{Identifier: identifier}

	ctx, span := l.tracer.Start(ctx, "plugins.Resolve",
		trace.WithAttributes(attribute.String("plugin.identifier", identifier)))
	defer span.End()

	req := NewRequest(l.env, identifier, l.log)
	log := l.log.WithField("identifier", identifier)
	if runID := observability.GetRunID(ctx); runID != "" {
		log = log.WithField("run_id", runID)
	}

	for _, strategy := range l.strategies {
		attempt, module := l.attempt(ctx, strategy, req)

		var plugin any
		if attempt.Outcome == OutcomeLoaded {
			var ok bool
			if plugin, ok = safeExtract(module, identifier); !ok {
				attempt.Outcome = OutcomeRejected
				attempt.Err = fmt.Errorf("%w: %s", ErrInvalidShape, attempt.Path)
			}
		}

		result.Attempts = append(result.Attempts, attempt)
		l.metrics.RecordStrategyAttempt(strategy.Name, string(attempt.Outcome), attempt.Duration)

		switch attempt.Outcome {
		case OutcomeSkipped:
			continue
		case OutcomeFailed:
			result.LastErr = attempt.Err
			log.WithFields(logrus.Fields{
				"strategy": strategy.Name,
				"path":     attempt.Path,
			}).Debugf("Strategy failed: %v", attempt.Err)
			continue
		case OutcomeRejected:
			result.LastErr = attempt.Err
			log.WithFields(logrus.Fields{
				"strategy": strategy.Name,
				"path":     attempt.Path,
			}).Debug("Module loaded but exports no plugin, trying next strategy")
			continue
		}

		result.Module = module
		result.Plugin = plugin
		result.Strategy = strategy.Name
		result.Path = attempt.Path
		result.Duration = time.Since(start)

		span.SetAttributes(attribute.String("plugin.strategy", strategy.Name))
		l.metrics.RecordResolution("found", result.Duration)
		log.WithField("strategy", strategy.Name).Infof("Loaded plugin %s using strategy %q", identifier, strategy.Name)
		return result
	}

	result.Duration = time.Since(start)
	span.SetStatus(codes.Error, "plugin not found")
	l.metrics.RecordResolution("not_found", result.Duration)

	lastErr := "none"
	if result.LastErr != nil {
		lastErr = result.LastErr.Error()
	}
	log.Warnf("Failed to load plugin %s: no strategy produced a valid plugin (last error: %s)", identifier, lastErr)

	return result
}

// attempt runs one strategy. Import errors and panics both become an
// OutcomeFailed attempt.
func (l *Loader) attempt(ctx context.Context, strategy Strategy, req *Request) (attempt Attempt, module Module) {
	start := time.Now()
	attempt.Strategy = strategy.Name

	ctx, span := l.tracer.Start(ctx, "plugins.Strategy",
		trace.WithAttributes(attribute.String("plugin.strategy", strategy.Name)))
	defer func() {
		if r := recover(); r != nil {
			attempt.Outcome = OutcomeFailed
			attempt.Err = fmt.Errorf("panic during %s: %v", strategy.Name, r)
			module = nil
		}
		attempt.Duration = time.Since(start)
		if attempt.Err != nil {
			span.RecordError(attempt.Err)
		}
		span.SetAttributes(attribute.String("plugin.outcome", string(attempt.Outcome)))
		span.End()
	}()

	specifier, ok := strategy.Resolve(req)
	attempt.Path = specifier
	span.SetAttributes(attribute.String("plugin.path", specifier))
	if !ok {
		attempt.Outcome = OutcomeSkipped
		l.log.WithFields(logrus.Fields{
			"identifier": req.Identifier,
			"strategy":   strategy.Name,
			"path":       specifier,
		}).Debug("Strategy guard not satisfied, skipping")
		return attempt, nil
	}

	l.log.WithFields(logrus.Fields{
		"identifier": req.Identifier,
		"strategy":   strategy.Name,
		"path":       specifier,
	}).Debug("Attempting plugin import")

	module, err := l.importer.Import(ctx, specifier)
	if err != nil {
		attempt.Outcome = OutcomeFailed
		attempt.Err = err
		return attempt, nil
	}
	if module == nil {
		attempt.Outcome = OutcomeFailed
		attempt.Err = fmt.Errorf("%w: %s returned no module", ErrNotFound, specifier)
		return attempt, nil
	}

	attempt.Outcome = OutcomeLoaded
	return attempt, module
}

// safeExtract treats a panicking Name method as a rejection
func safeExtract(module Module, identifier string) (plugin any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			plugin, ok = nil, false
		}
	}()
	return ExtractPlugin(module, identifier)
}
