// Package cli implements the pluginctl command line.
//
// # Commands
//
//	pluginctl resolve [identifier...]   Resolve and report (exit 1 when any is missing)
//	pluginctl strategies                Print the strategy order
//	pluginctl serve                     Run the HTTP diagnostics server
//	pluginctl watch [identifier...]     Re-resolve on dependency changes
//
// # Global Flags
//
//	--config          TOML config file
//	--log-level       debug, info, warn, error
//	--log-format      text, json
//	--workdir         Working directory to resolve from
//	--dependency-dir  Local dependency directory
//
// Flags override the config file and PLUGINLOADER_* environment variables.
//
// # Related Packages
//
//   - pkg/config: Configuration loading
//   - pkg/plugins: Resolution
//   - pkg/api: HTTP server used by serve
//   - pkg/watch: Watcher used by watch
package cli
