package plugins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/pluginloader/pkg/observability"
)

// BatchOptions bounds a LoadAll call
type BatchOptions struct {
	// Concurrency is the number of identifiers resolved at once. Zero or
	// negative means one at a time.
	Concurrency int
	// Timeout bounds each identifier's resolution. Zero disables it.
	Timeout time.Duration
	// Log receives batch-level messages; the loader's own logger is used
	// for per-strategy messages.
	Log *logrus.Logger
}

// Resolver is the part of Loader that LoadAll needs
type Resolver interface {
	Resolve(ctx context.Context, identifier string) *LoadResult
}

// LoadAll resolves every identifier and returns results in input order. An
// identifier that is missing, broken, or exceeds Timeout yields an absent
// result; it never stops the rest of the batch. A timed-out resolution keeps
// running in the background until its current import settles.
func LoadAll(ctx context.Context, resolver Resolver, identifiers []string, opts BatchOptions) []*LoadResult {
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	entry := log.WithFields(logrus.Fields{
		"run_id": runID,
		"count":  len(identifiers),
	})
	entry.Debug("Starting plugin batch")

	start := time.Now()
	results := make([]*LoadResult, len(identifiers))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range identifiers {
		g.Go(func() error {
			results[i] = resolveWithTimeout(gctx, resolver, id, opts.Timeout)
			return nil
		})
	}
	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()

	found := 0
	for _, r := range results {
		if r.Found() {
			found++
		}
	}
	entry.WithFields(logrus.Fields{
		"found":    found,
		"missing":  len(identifiers) - found,
		"duration": time.Since(start).String(),
	}).Info("Plugin batch complete")

	return results
}

// resolveOne substitutes an absent result when a Resolver returns nil
func resolveOne(ctx context.Context, resolver Resolver, identifier string) *LoadResult {
	if r := resolver.Resolve(ctx, identifier); r != nil {
		return r
	}
	return &LoadResult{Identifier: identifier}
}

func resolveWithTimeout(ctx context.Context, resolver Resolver, identifier string, timeout time.Duration) *LoadResult {
	if timeout <= 0 {
		return resolveOne(ctx, resolver, identifier)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *LoadResult, 1)
	go func() {
		done <- resolveOne(ctx, resolver, identifier)
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, identifier)
		}
		return &LoadResult{
			Identifier: identifier,
			LastErr:    err,
			Duration:   timeout,
		}
	}
}
