// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, report)
//	httputil.WriteErrorMessage(w, http.StatusConflict, "already running")
//	httputil.WriteBadRequest(w, "identifiers is required")
//
// All error helpers write an ErrorResponse body.
//
// # Request Parsing
//
//	var req BatchRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//	id, ok := httputil.ParsePathStringOrError(w, r, "identifier")
//
// # Middleware
//
//	handler := httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.MetricsMiddleware(metrics),
//		httputil.MaxBytesMiddleware(1<<20),
//	)(router)
//
// # Related Packages
//
//   - pkg/api: Uses these helpers for the resolution endpoints
//   - pkg/observability: Logging and metrics used by the middleware
package httputil
