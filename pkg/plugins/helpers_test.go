package plugins

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fixture lays out a temporary filesystem:
//
//	<root>/project                 working directory
//	<root>/project/node_modules    local dependency root
//	<root>/usr/bin/node            executable (global dir <root>/usr/lib/node_modules)
type fixture struct {
	t       *testing.T
	root    string
	workDir string
	env     Environment
	log     *logrus.Logger
	hook    *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	workDir := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, DefaultDependencyDir), 0o755))

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	return &fixture{
		t:       t,
		root:    root,
		workDir: workDir,
		env: Environment{
			WorkDir:  workDir,
			ExecPath: filepath.Join(root, "usr", "bin", "node"),
			GOOS:     "linux",
		},
		log:  log,
		hook: hook,
	}
}

// write creates a file relative to the fixture root
func (f *fixture) write(rel, content string) string {
	f.t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// mkdir creates a directory relative to the fixture root
func (f *fixture) mkdir(rel string) string {
	f.t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(path, 0o755))
	return path
}

// path returns an absolute path relative to the fixture root
func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) loader(opts ...Option) *Loader {
	base := []Option{WithEnvironment(f.env), WithLogger(f.log)}
	return NewLoader(append(base, opts...)...)
}

// entries returns logged entries at level
func (f *fixture) entries(level logrus.Level) []logrus.Entry {
	var out []logrus.Entry
	for _, e := range f.hook.AllEntries() {
		if e.Level == level {
			out = append(out, *e)
		}
	}
	return out
}

// countingImporter records every specifier it is asked to import
type countingImporter struct {
	mu    sync.Mutex
	calls []string
	next  Importer
}

func newCountingImporter(next Importer) *countingImporter {
	if next == nil {
		next = NewDefaultImporter()
	}
	return &countingImporter{next: next}
}

func (c *countingImporter) Import(ctx context.Context, specifier string) (Module, error) {
	c.mu.Lock()
	c.calls = append(c.calls, specifier)
	c.mu.Unlock()
	return c.next.Import(ctx, specifier)
}

func (c *countingImporter) count(specifier string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.calls {
		if s == specifier {
			n++
		}
	}
	return n
}

func (c *countingImporter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// register adds a module to the registry for the duration of the test
func register(t *testing.T, specifier string, module Module) {
	t.Helper()
	require.NoError(t, Register(specifier, module))
	t.Cleanup(func() { _ = Unregister(specifier) })
}
