package api

import (
	"net/http"

	"github.com/platinummonkey/pluginloader/pkg/httputil"
	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// BatchRequest is the body of POST /v1/plugins:batch
type BatchRequest struct {
	Identifiers []string `json:"identifiers"`
}

// StrategiesResponse lists the resolution strategies in the order they run
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
}

// getPlugin handles GET /v1/plugins/{identifier}. ?attempts=false drops the
// per-strategy attempt list from the report.
func (s *Server) getPlugin(w http.ResponseWriter, r *http.Request) {
	identifier, ok := httputil.ParsePathStringOrError(w, r, "identifier")
	if !ok {
		return
	}
	withAttempts, ok := httputil.ParseQueryBoolOrError(w, r, "attempts", true)
	if !ok {
		return
	}

	result := s.loader.Resolve(r.Context(), identifier)

	status := http.StatusOK
	if !result.Found() {
		status = http.StatusNotFound
	}

	observability.FromContext(r.Context()).
		WithField("identifier", identifier).
		WithField("found", result.Found()).
		Debug("Served plugin report")

	report := result.Report()
	if !withAttempts {
		report.Attempts = []plugins.AttemptEntry{}
	}
	httputil.WriteJSONOrError(w, status, report, "failed to encode report")
}

// listPlugins handles GET /v1/plugins, resolving the configured identifier set
func (s *Server) listPlugins(w http.ResponseWriter, r *http.Request) {
	results := plugins.LoadAll(r.Context(), s.loader, s.plugins, s.batch)
	httputil.WriteJSONOrError(w, http.StatusOK, plugins.Reports(results), "failed to encode reports")
}

// batchResolve handles POST /v1/plugins:batch
func (s *Server) batchResolve(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Identifiers, "identifiers") {
		return
	}

	results := plugins.LoadAll(r.Context(), s.loader, req.Identifiers, s.batch)
	httputil.WriteJSONOrError(w, http.StatusOK, plugins.Reports(results), "failed to encode reports")
}

// listStrategies handles GET /v1/strategies
func (s *Server) listStrategies(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOrError(w, http.StatusOK, StrategiesResponse{
		Strategies: plugins.StrategyNames(s.loader.Strategies()),
	}, "failed to encode strategies")
}
