package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pluginloader/pkg/observability"
	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// Pass triggers, used as metric labels
const (
	TriggerInitial = "initial"
	TriggerFS      = "fsnotify"
	TriggerCron    = "cron"
	TriggerManual  = "manual"
)

// maxWatchDepth covers <root>/<@scope>/<package>
const maxWatchDepth = 2

// Loader is the part of plugins.Loader the watcher needs
type Loader interface {
	plugins.Resolver
	Environment() plugins.Environment
}

// Options configures a Watcher
type Options struct {
	// Debounce coalesces bursts of filesystem events into one pass
	Debounce time.Duration
	// Schedule is an optional standard cron expression for periodic passes
	Schedule string
	Batch    plugins.BatchOptions
	Log      *logrus.Logger
	Metrics  *observability.Metrics
	// OnReport receives every report whose outcome differs from the
	// previous pass. The first pass reports everything.
	OnReport func(plugins.Report)
}

// summary is the part of a report compared between passes
type summary struct {
	found    bool
	strategy string
	path     string
}

// Watcher re-resolves a fixed identifier set when the dependency tree
// changes or a schedule fires.
type Watcher struct {
	loader      Loader
	identifiers []string
	opts        Options
	log         *logrus.Logger

	fs       *fsnotify.Watcher
	cron     *cron.Cron
	triggers chan string

	mu       sync.Mutex
	previous map[string]summary
}

// New creates a watcher over the loader's working directory, its parent, and
// the dependency root.
func New(loader Loader, identifiers []string, opts Options) (*Watcher, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Batch.Log == nil {
		opts.Batch.Log = log
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		loader:      loader,
		identifiers: append([]string(nil), identifiers...),
		opts:        opts,
		log:         log,
		fs:          fsw,
		triggers:    make(chan string, 1),
		previous:    make(map[string]summary),
	}

	env := loader.Environment()
	for _, dir := range []string{filepath.Dir(env.WorkDir), env.WorkDir} {
		if err := w.add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	if err := w.addTree(env.DependencyRoot()); err != nil {
		fsw.Close()
		return nil, err
	}

	if opts.Schedule != "" {
		w.cron = cron.New()
		if _, err := w.cron.AddFunc(opts.Schedule, func() { w.Trigger(TriggerCron) }); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to schedule watch pass: %w", err)
		}
	}

	return w, nil
}

// add watches dir if it exists
func (w *Watcher) add(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.WithField("dir", dir).Debug("Watching directory")
	return nil
}

// addTree watches root and its subdirectories down to maxWatchDepth
func (w *Watcher) addTree(root string) error {
	if _, err := os.Stat(root); err != nil {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if depth(root, path) > maxWatchDepth {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Trigger requests a pass without blocking. Requests made while one is
// already pending are coalesced.
func (w *Watcher) Trigger(trigger string) {
	select {
	case w.triggers <- trigger:
	default:
	}
}

// Run performs an initial pass and then one pass per debounced event burst
// or trigger, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.Pass(ctx, TriggerInitial)

	if w.cron != nil {
		w.cron.Start()
		defer func() { <-w.cron.Stop().Done() }()
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.log.WithFields(logrus.Fields{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("Filesystem change")

			if event.Op&fsnotify.Create != 0 {
				w.watchCreated(event.Name)
			}

			if w.opts.Debounce <= 0 {
				w.Pass(ctx, TriggerFS)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")

		case <-timerC:
			timerC = nil
			w.Pass(ctx, TriggerFS)

		case trigger := <-w.triggers:
			w.Pass(ctx, trigger)
		}
	}
}

// watchCreated starts watching a directory created inside the dependency
// tree, including the dependency root itself.
func (w *Watcher) watchCreated(path string) {
	root := w.loader.Environment().DependencyRoot()
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") || depth(root, path) > maxWatchDepth {
		return
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.log.WithError(err).Warn("Failed to watch new directory")
	}
}

// Pass resolves every identifier afresh and returns the reports whose
// outcome changed since the previous pass, calling OnReport for each.
func (w *Watcher) Pass(ctx context.Context, trigger string) []plugins.Report {
	w.opts.Metrics.RecordWatchPass(trigger)

	results := plugins.LoadAll(ctx, w.loader, w.identifiers, w.opts.Batch)

	w.mu.Lock()
	var changed []plugins.Report
	for _, result := range results {
		report := result.Report()
		current := summary{found: report.Found, strategy: report.Strategy, path: report.Path}
		if prev, seen := w.previous[report.Identifier]; seen && prev == current {
			continue
		}
		w.previous[report.Identifier] = current
		changed = append(changed, report)
	}
	w.mu.Unlock()

	w.log.WithFields(logrus.Fields{
		"trigger": trigger,
		"changed": len(changed),
	}).Debug("Watch pass complete")

	if w.opts.OnReport != nil {
		for _, report := range changed {
			w.opts.OnReport(report)
		}
	}
	return changed
}

// Close stops watching the filesystem
func (w *Watcher) Close() error {
	return w.fs.Close()
}
