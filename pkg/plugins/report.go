package plugins

import (
	"sort"
	"time"
)

// Report converts the result into its JSON-friendly form. A nil result
// reports as not found with no identifier.
func (r *LoadResult) Report() Report {
	if r == nil {
		return Report{Attempts: []AttemptEntry{}}
	}

	report := Report{
		Identifier: r.Identifier,
		Found:      r.Found(),
		Strategy:   r.Strategy,
		Path:       r.Path,
		DurationMS: float64(r.Duration) / float64(time.Millisecond),
		Attempts:   make([]AttemptEntry, 0, len(r.Attempts)),
	}

	if r.LastErr != nil {
		report.LastError = r.LastErr.Error()
	}
	if r.Plugin != nil {
		report.PluginName = PluginName(r.Plugin)
	}
	for name := range r.Module {
		report.Exports = append(report.Exports, name)
	}
	sort.Strings(report.Exports)

	for _, a := range r.Attempts {
		report.Attempts = append(report.Attempts, AttemptEntry{
			Strategy: a.Strategy,
			Path:     a.Path,
			Outcome:  a.Outcome,
			Error:    a.Error(),
		})
	}

	return report
}

// Reports converts a batch of results
func Reports(results []*LoadResult) []Report {
	out := make([]Report, 0, len(results))
	for _, r := range results {
		out = append(out, r.Report())
	}
	return out
}
