// Package plugins resolves short plugin identifiers to loaded plugin modules.
//
// # Overview
//
// Given an identifier such as "foo-plugin", "@acme/bar-plugin" or a path
// fragment, the Loader tries a fixed, ordered list of resolution strategies
// against the local filesystem and the in-process module registry. The first
// strategy whose module passes the shape check wins.
//
// # Resolution Order
//
//  1. direct import: the identifier verbatim
//  2. node_modules path: <workdir>/node_modules/<id>
//  3. src/index: <workdir>/node_modules/<id>/src/index, only if it exists
//  4. global node_modules: the platform's system module directory, only if it exists
//  5. package.json entry: the manifest's module, then main, then dist/index.js
//  6. dist/index pattern: dist/index.js, skipped when main already points there
//  7. relative path: <workdir>/../<id>, only if it exists
//
// # Modules
//
// A Module is a map of export names to values. Importers produce them:
//
//	RegistryImporter: modules linked into the binary with Register
//	FileImporter:     .json, .yaml, .toml, .hcl data modules and .so Go plugins
//	DefaultImporter:  path specifiers to files, bare specifiers to the registry
//
// # Shape Check
//
// The plugin object is taken from the "default" export, then from
// "<lastSegment>Plugin", then from the module itself. It must be a map or
// struct with a truthy name member, or implement Named.
//
// # Usage Example
//
//	loader := plugins.NewLoader(plugins.WithLogger(log))
//
//	module := loader.LoadPlugin(ctx, "foo-plugin")
//	if module == nil {
//		// skip this plugin, keep loading the rest
//	}
//
// Batch loading with per-identifier timeouts:
//
//	results := plugins.LoadAll(ctx, loader, ids, plugins.BatchOptions{
//		Concurrency: 4,
//		Timeout:     10 * time.Second,
//	})
//
// # Related Packages
//
//   - pkg/api: HTTP diagnostics over the loader
//   - pkg/watch: re-resolution on filesystem changes
//   - pkg/cli: pluginctl commands
package plugins
