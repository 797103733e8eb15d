package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/pluginloader/pkg/httputil"
	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// maxRequestBytes bounds batch request bodies
const maxRequestBytes = 1 << 20

// Loader is the part of plugins.Loader the server needs
type Loader interface {
	Resolve(ctx context.Context, identifier string) *plugins.LoadResult
	Strategies() []plugins.Strategy
	Environment() plugins.Environment
}

// Options configures a Server
type Options struct {
	Logger  *logrus.Logger
	Metrics *observability.Metrics
	Batch   plugins.BatchOptions
	Version string
	// Plugins is the identifier set served by GET /v1/plugins
	Plugins []string
}

// Server represents the diagnostics API server
type Server struct {
	loader  Loader
	router  *mux.Router
	handler http.Handler
	logger  *logrus.Logger
	metrics *observability.Metrics
	health  *observability.HealthChecker
	batch   plugins.BatchOptions
	plugins []string
}

// NewServer creates a new API server
func NewServer(loader Loader, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	batch := opts.Batch
	if batch.Log == nil {
		batch.Log = logger
	}

	env := loader.Environment()
	s := &Server{
		loader:  loader,
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: opts.Metrics,
		health: observability.NewHealthChecker(opts.Version, map[string]string{
			"workdir":        env.WorkDir,
			"dependency_dir": env.DependencyRoot(),
		}),
		batch:   batch,
		plugins: append([]string(nil), opts.Plugins...),
	}

	s.setupRoutes()
	s.router.NotFoundHandler = httputil.NotFoundHandler()
	s.router.MethodNotAllowedHandler = httputil.MethodNotAllowedHandler()

	s.router.Use(httputil.MetricsMiddleware(s.metrics))
	s.handler = httputil.Chain(
		httputil.RecoveryMiddleware(logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.MaxBytesMiddleware(maxRequestBytes),
		httputil.ContentTypeMiddleware,
	)(s.router)
	s.handler = otelhttp.NewHandler(s.handler, "pluginloader",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/v1/strategies", s.listStrategies).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/plugins", s.listPlugins).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/plugins:batch", s.batchResolve).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/plugins/{identifier:.+}", s.getPlugin).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.health.Liveness).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", s.health.Readiness).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router exposes the underlying router for additional routes
func (s *Server) Router() *mux.Router {
	return s.router
}
