package plugins

import (
	"fmt"
	goplugin "plugin"
)

// Symbols looked up in a Go shared object. Exports, when present, is the
// whole module; otherwise Default or Plugin become the default export.
const (
	SymbolExports = "Exports"
	SymbolDefault = "Default"
	SymbolPlugin  = "Plugin"
)

func openGoPlugin(path string) (Module, error) {
	so, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin: %w", err)
	}

	if sym, err := so.Lookup(SymbolExports); err == nil {
		switch exports := sym.(type) {
		case *map[string]any:
			if exports == nil || *exports == nil {
				return nil, fmt.Errorf("plugin symbol %s is nil", SymbolExports)
			}
			return Module(*exports), nil
		case *Module:
			if exports == nil || *exports == nil {
				return nil, fmt.Errorf("plugin symbol %s is nil", SymbolExports)
			}
			return *exports, nil
		case func() map[string]any:
			return Module(exports()), nil
		default:
			return nil, fmt.Errorf("plugin symbol %s must be a map[string]any, got %T", SymbolExports, sym)
		}
	}

	for _, name := range []string{SymbolDefault, SymbolPlugin} {
		sym, err := so.Lookup(name)
		if err != nil {
			continue
		}
		return Module{"default": sym}, nil
	}

	// A shared object without known symbols still loads; the validator rejects it.
	return Module{}, nil
}
