package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// PackageManifest holds the entry points a package descriptor declares
type PackageManifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Module  string `json:"module" yaml:"module"` // Preferred entry point
	Main    string `json:"main" yaml:"main"`     // Fallback entry point
}

// Entry returns the declared module entry, then main, then DefaultEntry
func (m *PackageManifest) Entry() string {
	if m != nil {
		if m.Module != "" {
			return m.Module
		}
		if m.Main != "" {
			return m.Main
		}
	}
	return DefaultEntry
}

// MainIsDefault reports whether main already points at DefaultEntry
func (m *PackageManifest) MainIsDefault() bool {
	if m == nil {
		return false
	}
	return filepath.ToSlash(filepath.Clean(m.Main)) == DefaultEntry
}

// ParseManifest parses a package descriptor. JSON is used unless the file
// name has a YAML extension.
func ParseManifest(name string, data []byte) (*PackageManifest, error) {
	var manifest PackageManifest
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
	}
	return &manifest, nil
}

// LoadManifest reads and parses a package descriptor from a file
func LoadManifest(path string) (*PackageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// ReadManifest looks for the identifier's package descriptor under the local
// dependency root. A missing or malformed descriptor yields nil and is only
// logged at debug level.
func ReadManifest(env Environment, identifier string, log *logrus.Logger) *PackageManifest {
	dir := env.PackageDir(identifier)

	for _, name := range []string{ManifestFile, FallbackManifestFile} {
		path := filepath.Join(dir, name)
		if _, err := env.Stat(path); err != nil {
			continue
		}

		manifest, err := LoadManifest(path)
		if err != nil {
			if log != nil {
				log.WithFields(logrus.Fields{
					"identifier": identifier,
					"path":       path,
				}).Debugf("Manifest unavailable: %v", err)
			}
			return nil
		}
		return manifest
	}

	if log != nil {
		log.WithField("identifier", identifier).Debugf("No manifest found in %s", dir)
	}
	return nil
}
