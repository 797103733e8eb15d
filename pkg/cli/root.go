package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/pluginloader/pkg/config"
	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// ErrMissingPlugins is returned by resolve when an identifier has no
// loadable plugin and --allow-missing is not set.
var ErrMissingPlugins = errors.New("one or more plugins could not be loaded")

// globalOptions holds the persistent flags
type globalOptions struct {
	configPath    string
	logLevel      string
	logFormat     string
	workDir       string
	dependencyDir string
}

// app is the state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	version string
	opts    globalOptions
	cfg     *config.Config
	logger  *logrus.Logger
}

// NewRootCommand creates the pluginctl root command
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "pluginctl",
		Short: "Resolve and inspect dynamically loaded plugins",
		Long: `pluginctl resolves plugin identifiers the way the plugin loader does at runtime:
direct import, the local dependency directory, src/index, the global module
directory, the package manifest entry, dist/index.js and finally a sibling
path. Every strategy attempted is reported.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Path to a TOML config file")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.opts.logFormat, "log-format", "", "Log format (text, json)")
	flags.StringVar(&a.opts.workDir, "workdir", "", "Working directory to resolve from")
	flags.StringVar(&a.opts.dependencyDir, "dependency-dir", "", "Local dependency directory, relative to the working directory")

	root.AddCommand(newResolveCommand(a))
	root.AddCommand(newStrategiesCommand(a))
	root.AddCommand(newServeCommand(a))
	root.AddCommand(newWatchCommand(a))

	return root
}

// init loads configuration and applies flag overrides
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Observability.LogLevel = a.opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Observability.LogFormat = a.opts.logFormat
	}
	if flags.Changed("workdir") {
		cfg.Loader.WorkDir = a.opts.workDir
	}
	if flags.Changed("dependency-dir") {
		cfg.Loader.DependencyDir = a.opts.dependencyDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(
		observability.ParseLogLevel(cfg.Observability.LogLevel),
		observability.ParseLogFormat(cfg.Observability.LogFormat),
		cmd.ErrOrStderr(),
	)
	return nil
}

// newMetrics returns registered metrics, or nil when metrics are disabled
func (a *app) newMetrics() *observability.Metrics {
	if !a.cfg.Observability.MetricsEnabled {
		return nil
	}
	return observability.NewMetrics(prometheus.NewRegistry())
}

// newLoader builds a loader from the loaded configuration
func (a *app) newLoader(metrics *observability.Metrics) *plugins.Loader {
	return plugins.NewLoader(
		plugins.WithEnvironment(a.cfg.Environment()),
		plugins.WithLogger(a.logger),
		plugins.WithMetrics(metrics),
	)
}

// batchOptions returns the configured batch options logging through a.logger
func (a *app) batchOptions() plugins.BatchOptions {
	opts := a.cfg.BatchOptions()
	opts.Log = a.logger
	return opts
}

// identifiers returns args, or the configured plugin set when args is empty
func (a *app) identifiers(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(a.cfg.Loader.Plugins) > 0 {
		return a.cfg.Loader.Plugins, nil
	}
	return nil, fmt.Errorf("no plugin identifiers given and none configured")
}
