package plugins

import (
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Strategy names, used as diagnostic labels
const (
	StrategyDirect       = "direct import"
	StrategyLocalPath    = "node_modules path"
	StrategySource       = "src/index"
	StrategyGlobal       = "global node_modules"
	StrategyManifest     = "package.json entry"
	StrategyBuildOutput  = "dist/index pattern"
	StrategyRelativePath = "relative path"
)

// Strategy is one self-contained way of locating a plugin. Resolve returns
// the specifier to import, or ok=false when its guard rules the attempt out.
type Strategy struct {
	Name    string
	Resolve func(req *Request) (specifier string, ok bool)
}

// Request carries the inputs of one resolution. It is created for every
// Resolve call and never shared between identifiers.
type Request struct {
	Identifier string
	Env        Environment

	log          *logrus.Logger
	manifestOnce sync.Once
	manifest     *PackageManifest
}

// NewRequest creates the per-resolution context for identifier
func NewRequest(env Environment, identifier string, log *logrus.Logger) *Request {
	return &Request{Identifier: identifier, Env: env, log: log}
}

// Manifest reads the identifier's package descriptor once per request
func (r *Request) Manifest() *PackageManifest {
	r.manifestOnce.Do(func() {
		r.manifest = ReadManifest(r.Env, r.Identifier, r.log)
	})
	return r.manifest
}

// Exists reports whether a module file resolves at path. It probes the
// default extensions and decoders, not those of an importer installed with
// WithImporter, so a guard can pass for a file the importer then fails on.
func (r *Request) Exists(path string) bool {
	return FileExists(r.Env, path)
}

// defaultStrategies is built once; DefaultStrategies hands out copies
var defaultStrategies = []Strategy{
	{
		Name: StrategyDirect,
		Resolve: func(req *Request) (string, bool) {
			return req.Identifier, true
		},
	},
	{
		Name: StrategyLocalPath,
		Resolve: func(req *Request) (string, bool) {
			return req.Env.PackageDir(req.Identifier), true
		},
	},
	{
		Name: StrategySource,
		Resolve: func(req *Request) (string, bool) {
			path := filepath.Join(req.Env.PackageDir(req.Identifier), filepath.FromSlash(SourceEntry))
			return path, req.Exists(path)
		},
	},
	{
		Name: StrategyGlobal,
		Resolve: func(req *Request) (string, bool) {
			dir := req.Env.GlobalModulesDir()
			return filepath.Join(dir, filepath.FromSlash(req.Identifier)), req.Env.dirExists(dir)
		},
	},
	{
		Name: StrategyManifest,
		Resolve: func(req *Request) (string, bool) {
			entry := filepath.FromSlash(req.Manifest().Entry())
			if filepath.IsAbs(entry) {
				return entry, true
			}
			return filepath.Join(req.Env.PackageDir(req.Identifier), entry), true
		},
	},
	{
		Name: StrategyBuildOutput,
		Resolve: func(req *Request) (string, bool) {
			path := filepath.Join(req.Env.PackageDir(req.Identifier), filepath.FromSlash(DefaultEntry))
			if req.Manifest().MainIsDefault() {
				return path, false
			}
			return path, req.Exists(path)
		},
	},
	{
		Name: StrategyRelativePath,
		Resolve: func(req *Request) (string, bool) {
			path := req.Env.SiblingPath(req.Identifier)
			return path, req.Exists(path)
		},
	},
}

// DefaultStrategies returns the fixed resolution order
func DefaultStrategies() []Strategy {
	out := make([]Strategy, len(defaultStrategies))
	copy(out, defaultStrategies)
	return out
}

// StrategyNames returns the names of strategies in order
func StrategyNames(strategies []Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name
	}
	return names
}
