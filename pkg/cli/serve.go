package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/platinummonkey/pluginloader/pkg/api"
	"github.com/platinummonkey/pluginloader/pkg/observability"
)

const meterName = "github.com/platinummonkey/pluginloader"

// newServeCommand creates the serve command
func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolution reports over HTTP",
		Long: `Start the diagnostics server. Reports are resolved per request; nothing is
cached. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			return runServe(cmd, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := a.logger

	providers, err := observability.InitOTel(ctx, a.cfg.OTel(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics := a.newMetrics()
	if providers != nil {
		otelMetrics, err := observability.NewOTelMetrics(otel.Meter(meterName))
		if err != nil {
			logger.WithError(err).Warn("OpenTelemetry loader metrics unavailable")
		} else {
			metrics.WithOTel(otelMetrics)
		}
	}

	server := api.NewServer(a.newLoader(metrics), api.Options{
		Logger:  logger,
		Metrics: metrics,
		Batch:   a.batchOptions(),
		Version: a.version,
		Plugins: a.cfg.Loader.Plugins,
	})

	httpServer := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      server,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, a.cfg.Server.ShutdownTimeout)
	shutdown.Register("opentelemetry", providers.Shutdown)

	errCh := make(chan error, 1)
	go func() {
		defer observability.RecoverPanic(logger, "http server")
		logger.Infof("Starting pluginloader diagnostics server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	done := make(chan error, 1)
	go func() { done <- shutdown.WaitForShutdown(ctx) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case err := <-done:
		return err
	}
}
