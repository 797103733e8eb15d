package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/platinummonkey/pluginloader/pkg/plugins"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Loader        LoaderConfig
	Batch         BatchConfig
	Server        ServerConfig
	Watch         WatchConfig
	Observability ObservabilityConfig
}

// LoaderConfig holds the filesystem layout the loader resolves against
type LoaderConfig struct {
	WorkDir       string
	DependencyDir string
	ExecPath      string
	// Plugins is the identifier set used by serve and watch when none are
	// given on the command line.
	Plugins []string
}

// BatchConfig bounds batch resolution
type BatchConfig struct {
	Concurrency int
	Timeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// WatchConfig holds watcher configuration
type WatchConfig struct {
	Debounce time.Duration
	// Schedule is an optional cron expression for periodic re-resolution
	Schedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			DependencyDir: plugins.DefaultDependencyDir,
		},
		Batch: BatchConfig{
			Concurrency: 4,
			Timeout:     30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			LogFormat:          string(observability.FormatText),
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "pluginloader",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

// LoadConfig builds configuration from defaults, an optional TOML file, and
// environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg with PLUGINLOADER_* variables that are set
func applyEnv(cfg *Config) {
	cfg.Loader.WorkDir = getEnv("PLUGINLOADER_WORKDIR", cfg.Loader.WorkDir)
	cfg.Loader.DependencyDir = getEnv("PLUGINLOADER_DEPENDENCY_DIR", cfg.Loader.DependencyDir)
	cfg.Loader.ExecPath = getEnv("PLUGINLOADER_EXEC_PATH", cfg.Loader.ExecPath)
	if list := getEnv("PLUGINLOADER_PLUGINS", ""); list != "" {
		cfg.Loader.Plugins = splitList(list)
	}

	cfg.Batch.Concurrency = getEnvInt("PLUGINLOADER_BATCH_CONCURRENCY", cfg.Batch.Concurrency)
	cfg.Batch.Timeout = getEnvDuration("PLUGINLOADER_BATCH_TIMEOUT", cfg.Batch.Timeout)

	cfg.Server.Addr = getEnv("PLUGINLOADER_ADDR", cfg.Server.Addr)
	cfg.Server.ReadTimeout = getEnvDuration("PLUGINLOADER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("PLUGINLOADER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("PLUGINLOADER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("PLUGINLOADER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Watch.Debounce = getEnvDuration("PLUGINLOADER_WATCH_DEBOUNCE", cfg.Watch.Debounce)
	cfg.Watch.Schedule = getEnv("PLUGINLOADER_WATCH_SCHEDULE", cfg.Watch.Schedule)

	cfg.Observability.LogLevel = getEnv("PLUGINLOADER_LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.LogFormat = getEnv("PLUGINLOADER_LOG_FORMAT", cfg.Observability.LogFormat)
	cfg.Observability.MetricsEnabled = getEnvBool("PLUGINLOADER_METRICS_ENABLED", cfg.Observability.MetricsEnabled)
	cfg.Observability.OTelEnabled = getEnvBool("PLUGINLOADER_OTEL_ENABLED", cfg.Observability.OTelEnabled)
	cfg.Observability.OTelEndpoint = getEnv("PLUGINLOADER_OTEL_ENDPOINT", cfg.Observability.OTelEndpoint)
	cfg.Observability.OTelServiceName = getEnv("PLUGINLOADER_OTEL_SERVICE_NAME", cfg.Observability.OTelServiceName)
	cfg.Observability.OTelServiceVersion = getEnv("PLUGINLOADER_OTEL_SERVICE_VERSION", cfg.Observability.OTelServiceVersion)
	cfg.Observability.OTelInsecure = getEnvBool("PLUGINLOADER_OTEL_INSECURE", cfg.Observability.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Loader.DependencyDir) == "" {
		return fmt.Errorf("dependency directory is required")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	if c.Batch.Timeout < 0 {
		return fmt.Errorf("batch timeout must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}
	if c.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			return fmt.Errorf("invalid watch schedule %q: %w", c.Watch.Schedule, err)
		}
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// Environment converts the loader settings into a plugins.Environment;
// empty fields fall back to the running process's values.
func (c *Config) Environment() plugins.Environment {
	env := plugins.DefaultEnvironment()
	if c.Loader.WorkDir != "" {
		env.WorkDir = c.Loader.WorkDir
	}
	if c.Loader.DependencyDir != "" {
		env.DependencyDir = c.Loader.DependencyDir
	}
	if c.Loader.ExecPath != "" {
		env.ExecPath = c.Loader.ExecPath
	}
	return env
}

// BatchOptions converts the batch settings
func (c *Config) BatchOptions() plugins.BatchOptions {
	return plugins.BatchOptions{
		Concurrency: c.Batch.Concurrency,
		Timeout:     c.Batch.Timeout,
	}
}

// OTel converts the OpenTelemetry settings
func (c *Config) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        c.Observability.OTelEnabled,
		Endpoint:       c.Observability.OTelEndpoint,
		ServiceName:    c.Observability.OTelServiceName,
		ServiceVersion: c.Observability.OTelServiceVersion,
		Insecure:       c.Observability.OTelInsecure,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
