package plugins

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Decoder turns a module file into its exports
type Decoder func(path string) (Module, error)

// DefaultExtensions is the probe order used when resolving a module file
var DefaultExtensions = []string{".json", ".yaml", ".yml", ".toml", ".hcl", ".so"}

// DefaultDecoders returns a fresh extension-to-decoder map
func DefaultDecoders() map[string]Decoder {
	return map[string]Decoder{
		".json": decodeJSON,
		".yaml": decodeYAML,
		".yml":  decodeYAML,
		".toml": decodeTOML,
		".hcl":  decodeHCL,
		".so":   openGoPlugin,
	}
}

// FileImporter loads module files from disk
type FileImporter struct {
	Extensions []string
	Decoders   map[string]Decoder
	Stat       func(name string) (fs.FileInfo, error)
}

// NewFileImporter creates a FileImporter with the default decoders
func NewFileImporter() *FileImporter {
	return &FileImporter{
		Extensions: DefaultExtensions,
		Decoders:   DefaultDecoders(),
		Stat:       os.Stat,
	}
}

// Import resolves specifier to a module file and decodes it
func (f *FileImporter) Import(ctx context.Context, specifier string) (Module, error) {
	path, ok := f.Resolve(specifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, specifier)
	}

	decode, ok := f.Decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	module, err := decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return module, nil
}

// Resolve returns the first existing module file for specifier
func (f *FileImporter) Resolve(specifier string) (string, bool) {
	for _, candidate := range f.Candidates(specifier) {
		info, err := f.stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Candidates lists the files probed for specifier, in order: the path itself
// when it carries a known extension, the path with each extension appended,
// the path with its extension swapped, then index files when it is a directory.
func (f *FileImporter) Candidates(specifier string) []string {
	path := filepath.Clean(specifier)
	ext := strings.ToLower(filepath.Ext(path))

	var candidates []string
	if f.known(ext) {
		candidates = append(candidates, path)
	}
	for _, e := range f.Extensions {
		candidates = append(candidates, path+e)
	}
	if ext != "" && !f.known(ext) {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		for _, e := range f.Extensions {
			candidates = append(candidates, base+e)
		}
	}
	if info, err := f.stat(path); err == nil && info.IsDir() {
		for _, e := range f.Extensions {
			candidates = append(candidates, filepath.Join(path, "index"+e))
		}
	}
	return candidates
}

func (f *FileImporter) known(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := f.Decoders[ext]
	return ok
}

func (f *FileImporter) stat(path string) (fs.FileInfo, error) {
	if f.Stat != nil {
		return f.Stat(path)
	}
	return os.Stat(path)
}

// DefaultImporter routes path specifiers to files and bare ones to the registry
type DefaultImporter struct {
	Files    *FileImporter
	Registry Importer
}

// NewDefaultImporter creates the importer the loader uses when none is given
func NewDefaultImporter() *DefaultImporter {
	return &DefaultImporter{
		Files:    NewFileImporter(),
		Registry: RegistryImporter{},
	}
}

// Import dispatches specifier by shape
func (d *DefaultImporter) Import(ctx context.Context, specifier string) (Module, error) {
	if IsPathSpecifier(specifier) {
		return d.Files.Import(ctx, specifier)
	}
	return d.Registry.Import(ctx, specifier)
}

// FileExists reports whether a module file can be resolved for path using the
// default extension set and the environment's stat function.
func FileExists(env Environment, path string) bool {
	f := &FileImporter{Extensions: DefaultExtensions, Decoders: DefaultDecoders(), Stat: env.Stat}
	_, ok := f.Resolve(path)
	return ok
}
