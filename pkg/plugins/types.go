package plugins

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by an Importer when nothing loadable exists at a specifier
	ErrNotFound = errors.New("module not found")
	// ErrInvalidShape is recorded when a module loads but exposes no usable plugin object
	ErrInvalidShape = errors.New("module does not export a plugin")
	// ErrUnsupportedFormat is returned when no decoder handles a file extension
	ErrUnsupportedFormat = errors.New("unsupported module format")
	// ErrTimeout is recorded by LoadAll when an identifier exceeds its deadline
	ErrTimeout = errors.New("plugin resolution timed out")
)

// Module is the raw result of a successful load: export name to value
type Module map[string]any

// Importer performs the load attempt for a resolved specifier
type Importer interface {
	Import(ctx context.Context, specifier string) (Module, error)
}

// ImporterFunc adapts a plain function to the Importer interface
type ImporterFunc func(ctx context.Context, specifier string) (Module, error)

// Import calls f(ctx, specifier)
func (f ImporterFunc) Import(ctx context.Context, specifier string) (Module, error) {
	return f(ctx, specifier)
}

// Outcome describes what happened when a single strategy ran
type Outcome string

const (
	OutcomeLoaded   Outcome = "loaded"   // module accepted by the validator
	OutcomeRejected Outcome = "rejected" // module loaded but failed the shape check
	OutcomeFailed   Outcome = "failed"   // import returned an error
	OutcomeSkipped  Outcome = "skipped"  // guard failed, no import attempted
)

// Attempt records one strategy's contribution to a resolution
type Attempt struct {
	Strategy string        `json:"strategy"`
	Path     string        `json:"path,omitempty"`
	Outcome  Outcome       `json:"outcome"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Error returns the attempt's error message, or "" when it has none
func (a Attempt) Error() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

// LoadResult is built fresh for every resolution and never cached
type LoadResult struct {
	Identifier string
	Module     Module
	Plugin     any
	Strategy   string
	Path       string
	LastErr    error
	Attempts   []Attempt
	Duration   time.Duration
}

// Found reports whether a strategy produced an accepted module
func (r *LoadResult) Found() bool {
	return r != nil && r.Module != nil
}

// Report is the JSON-friendly view of a LoadResult used by the CLI and HTTP server
type Report struct {
	Identifier string         `json:"identifier"`
	Found      bool           `json:"found"`
	Strategy   string         `json:"strategy,omitempty"`
	Path       string         `json:"path,omitempty"`
	PluginName string         `json:"plugin_name,omitempty"`
	Exports    []string       `json:"exports,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
	DurationMS float64        `json:"duration_ms"`
	Attempts   []AttemptEntry `json:"attempts"`
}

// AttemptEntry is the JSON-friendly view of an Attempt
type AttemptEntry struct {
	Strategy string  `json:"strategy"`
	Path     string  `json:"path,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Error    string  `json:"error,omitempty"`
}
