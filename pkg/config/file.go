package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the TOML layout of a pluginctl config file. Durations
// are strings in time.ParseDuration form.
type fileConfig struct {
	WorkDir       string   `toml:"workdir"`
	DependencyDir string   `toml:"dependency_dir"`
	ExecPath      string   `toml:"exec_path"`
	Plugins       []string `toml:"plugins"`

	Batch struct {
		Concurrency int    `toml:"concurrency"`
		Timeout     string `toml:"timeout"`
	} `toml:"batch"`

	Server struct {
		Addr            string `toml:"addr"`
		ReadTimeout     string `toml:"read_timeout"`
		WriteTimeout    string `toml:"write_timeout"`
		IdleTimeout     string `toml:"idle_timeout"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
	} `toml:"server"`

	Watch struct {
		Debounce string `toml:"debounce"`
		Schedule string `toml:"schedule"`
	} `toml:"watch"`

	Observability struct {
		LogLevel           string `toml:"log_level"`
		LogFormat          string `toml:"log_format"`
		MetricsEnabled     bool   `toml:"metrics_enabled"`
		OTelEnabled        bool   `toml:"otel_enabled"`
		OTelEndpoint       string `toml:"otel_endpoint"`
		OTelServiceName    string `toml:"otel_service_name"`
		OTelServiceVersion string `toml:"otel_service_version"`
		OTelInsecure       bool   `toml:"otel_insecure"`
	} `toml:"observability"`
}

// applyFile overlays keys present in the TOML file at path onto cfg. Keys
// the file does not define keep their current value.
func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q in config file %s", undecoded[0].String(), path)
	}

	o := overlay{meta: meta, path: path}

	o.str(&cfg.Loader.WorkDir, fc.WorkDir, "workdir")
	o.str(&cfg.Loader.DependencyDir, fc.DependencyDir, "dependency_dir")
	o.str(&cfg.Loader.ExecPath, fc.ExecPath, "exec_path")
	if meta.IsDefined("plugins") {
		cfg.Loader.Plugins = fc.Plugins
	}

	if meta.IsDefined("batch", "concurrency") {
		cfg.Batch.Concurrency = fc.Batch.Concurrency
	}
	o.dur(&cfg.Batch.Timeout, fc.Batch.Timeout, "batch", "timeout")

	o.str(&cfg.Server.Addr, fc.Server.Addr, "server", "addr")
	o.dur(&cfg.Server.ReadTimeout, fc.Server.ReadTimeout, "server", "read_timeout")
	o.dur(&cfg.Server.WriteTimeout, fc.Server.WriteTimeout, "server", "write_timeout")
	o.dur(&cfg.Server.IdleTimeout, fc.Server.IdleTimeout, "server", "idle_timeout")
	o.dur(&cfg.Server.ShutdownTimeout, fc.Server.ShutdownTimeout, "server", "shutdown_timeout")

	o.dur(&cfg.Watch.Debounce, fc.Watch.Debounce, "watch", "debounce")
	o.str(&cfg.Watch.Schedule, fc.Watch.Schedule, "watch", "schedule")

	obs := fc.Observability
	o.str(&cfg.Observability.LogLevel, obs.LogLevel, "observability", "log_level")
	o.str(&cfg.Observability.LogFormat, obs.LogFormat, "observability", "log_format")
	o.boolean(&cfg.Observability.MetricsEnabled, obs.MetricsEnabled, "observability", "metrics_enabled")
	o.boolean(&cfg.Observability.OTelEnabled, obs.OTelEnabled, "observability", "otel_enabled")
	o.str(&cfg.Observability.OTelEndpoint, obs.OTelEndpoint, "observability", "otel_endpoint")
	o.str(&cfg.Observability.OTelServiceName, obs.OTelServiceName, "observability", "otel_service_name")
	o.str(&cfg.Observability.OTelServiceVersion, obs.OTelServiceVersion, "observability", "otel_service_version")
	o.boolean(&cfg.Observability.OTelInsecure, obs.OTelInsecure, "observability", "otel_insecure")

	return o.err
}

// overlay copies decoded values onto a Config only for keys the file
// defines, remembering the first duration parse error.
type overlay struct {
	meta toml.MetaData
	path string
	err  error
}

func (o *overlay) str(dst *string, v string, key ...string) {
	if o.meta.IsDefined(key...) {
		*dst = v
	}
}

func (o *overlay) boolean(dst *bool, v bool, key ...string) {
	if o.meta.IsDefined(key...) {
		*dst = v
	}
}

func (o *overlay) dur(dst *time.Duration, v string, key ...string) {
	if !o.meta.IsDefined(key...) || o.err != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		o.err = fmt.Errorf("invalid duration for %s in %s: %w", toml.Key(key).String(), o.path, err)
		return
	}
	*dst = d
}
