// Package api provides the HTTP diagnostics server for plugin resolution.
//
// # Overview
//
// The server exposes the loader's decisions over HTTP. Every request
// resolves afresh; nothing is cached between requests.
//
// # Endpoints
//
//	GET  /v1/plugins/{identifier}  Resolution report (200 found, 404 absent)
//	GET  /v1/plugins               Reports for the configured identifier set
//	POST /v1/plugins:batch         {"identifiers": [...]} -> []Report
//	GET  /v1/strategies            Strategy names in resolution order
//	GET  /healthz                  Liveness
//	GET  /readyz                   Readiness (503 when the working directory is gone)
//	GET  /metrics                  Prometheus metrics
//
// # Usage Example
//
//	loader := plugins.NewLoader(plugins.WithLogger(logger))
//	server := api.NewServer(loader, api.Options{Logger: logger, Metrics: metrics})
//	http.ListenAndServe(":8080", server)
//
// # Related Packages
//
//   - pkg/plugins: Resolution and reports
//   - pkg/httputil: Response helpers and middleware
package api
