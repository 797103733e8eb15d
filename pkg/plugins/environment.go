package plugins

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// DefaultDependencyDir is the local dependency root, relative to the working directory
	DefaultDependencyDir = "node_modules"

	// DefaultEntry is the conventional build output used when no manifest entry is declared
	DefaultEntry = "dist/index.js"

	// SourceEntry is the uncompiled entry probed by the src/index strategy
	SourceEntry = "src/index"

	// ManifestFile is the package descriptor read by the manifest reader
	ManifestFile = "package.json"

	// FallbackManifestFile is read when ManifestFile is absent
	FallbackManifestFile = "plugin.yaml"
)

// Environment pins every input that path derivation depends on
type Environment struct {
	WorkDir       string
	DependencyDir string
	ExecPath      string
	GOOS          string
	Stat          func(name string) (fs.FileInfo, error)
}

// DefaultEnvironment returns an Environment for the current process
func DefaultEnvironment() Environment {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return Environment{
		WorkDir:       wd,
		DependencyDir: DefaultDependencyDir,
		ExecPath:      exe,
		GOOS:          runtime.GOOS,
		Stat:          os.Stat,
	}
}

// withDefaults fills zero fields from DefaultEnvironment and makes WorkDir
// absolute, so derived paths are always path specifiers.
func (e Environment) withDefaults() Environment {
	if !filepath.IsAbs(e.WorkDir) && e.WorkDir != "" {
		if abs, err := filepath.Abs(e.WorkDir); err == nil {
			e.WorkDir = abs
		}
	}
	if e.WorkDir != "" && e.DependencyDir != "" && e.ExecPath != "" && e.GOOS != "" && e.Stat != nil {
		return e
	}
	d := DefaultEnvironment()
	if e.WorkDir == "" {
		e.WorkDir = d.WorkDir
	}
	if e.DependencyDir == "" {
		e.DependencyDir = d.DependencyDir
	}
	if e.ExecPath == "" {
		e.ExecPath = d.ExecPath
	}
	if e.GOOS == "" {
		e.GOOS = d.GOOS
	}
	if e.Stat == nil {
		e.Stat = d.Stat
	}
	return e
}

// DependencyRoot returns the absolute local dependency directory
func (e Environment) DependencyRoot() string {
	if filepath.IsAbs(e.DependencyDir) {
		return e.DependencyDir
	}
	return filepath.Join(e.WorkDir, e.DependencyDir)
}

// PackageDir returns the identifier's directory under the local dependency root
func (e Environment) PackageDir(identifier string) string {
	return filepath.Join(e.DependencyRoot(), filepath.FromSlash(identifier))
}

// GlobalModulesDir returns the system-wide module directory. On Windows it sits
// next to the executable; elsewhere it is lib/node_modules two levels above it.
func (e Environment) GlobalModulesDir() string {
	if e.GOOS == "windows" {
		return filepath.Join(filepath.Dir(e.ExecPath), "node_modules")
	}
	return filepath.Join(filepath.Dir(filepath.Dir(e.ExecPath)), "lib", "node_modules")
}

// SiblingPath returns the identifier resolved one directory above the working directory
func (e Environment) SiblingPath(identifier string) string {
	return filepath.Join(filepath.Dir(e.WorkDir), filepath.FromSlash(identifier))
}

func (e Environment) dirExists(path string) bool {
	info, err := e.Stat(path)
	return err == nil && info.IsDir()
}

// LastSegment returns the final path segment of an identifier
func LastSegment(identifier string) string {
	trimmed := strings.TrimRight(strings.ReplaceAll(identifier, "\\", "/"), "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// IsPathSpecifier reports whether a specifier names a filesystem location
// rather than a registered module.
func IsPathSpecifier(specifier string) bool {
	if filepath.IsAbs(specifier) {
		return true
	}
	s := strings.ReplaceAll(specifier, "\\", "/")
	return s == "." || s == ".." || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}
