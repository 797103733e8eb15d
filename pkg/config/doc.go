// Package config provides pluginctl configuration from defaults, an optional
// TOML file, and environment variables.
//
// # Overview
//
// LoadConfig starts from Default, overlays every key a TOML file defines,
// then applies PLUGINLOADER_* environment variables, and validates the
// result. Keys absent from the file keep their previous value.
//
// # Configuration File
//
//	workdir = "/srv/app"
//	dependency_dir = "node_modules"
//	plugins = ["eslint-plugin", "@scope/formatter"]
//
//	[batch]
//	concurrency = 4
//	timeout = "30s"
//
//	[server]
//	addr = ":8080"
//
//	[watch]
//	debounce = "250ms"
//	schedule = "*/5 * * * *"
//
//	[observability]
//	log_level = "info"
//	log_format = "text"  # text, json
//	otel_enabled = false
//
// # Environment Variables
//
//	PLUGINLOADER_WORKDIR="/srv/app"
//	PLUGINLOADER_DEPENDENCY_DIR="node_modules"
//	PLUGINLOADER_EXEC_PATH="/usr/local/bin/node"
//	PLUGINLOADER_PLUGINS="eslint-plugin,@scope/formatter"
//	PLUGINLOADER_BATCH_CONCURRENCY="4"
//	PLUGINLOADER_BATCH_TIMEOUT="30s"
//	PLUGINLOADER_ADDR=":8080"
//	PLUGINLOADER_WATCH_DEBOUNCE="250ms"
//	PLUGINLOADER_WATCH_SCHEDULE="*/5 * * * *"
//	PLUGINLOADER_LOG_LEVEL="info"  # debug, info, warn, error
//	PLUGINLOADER_LOG_FORMAT="text"
//	PLUGINLOADER_METRICS_ENABLED="true"
//	PLUGINLOADER_OTEL_ENABLED="true"
//	PLUGINLOADER_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig(configPath)
//	if err != nil {
//		log.Fatal(err)
//	}
//	loader := plugins.NewLoader(plugins.WithEnvironment(cfg.Environment()))
//
// # Related Packages
//
//   - pkg/plugins: Consumes the loader environment and batch options
//   - pkg/observability: Consumes the logging and OTel settings
package config
