package plugins

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
)

var (
	// registered is the package-level map of modules linked into the binary
	registered = make(map[string]Module)
	// mu protects concurrent access to registered
	mu sync.RWMutex
)

// Register links a module into the binary under a bare specifier. It is meant
// to be called from init functions, the way database/sql drivers register.
func Register(specifier string, module Module) error {
	if specifier == "" {
		return fmt.Errorf("cannot register module with empty specifier")
	}
	if module == nil {
		return fmt.Errorf("cannot register nil module: %s", specifier)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[specifier]; exists {
		return fmt.Errorf("module already registered: %s", specifier)
	}

	registered[specifier] = module
	return nil
}

// MustRegister is like Register but panics on error
func MustRegister(specifier string, module Module) {
	if err := Register(specifier, module); err != nil {
		panic(err)
	}
}

// Unregister removes a module from the registry
func Unregister(specifier string) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[specifier]; !exists {
		return fmt.Errorf("module not registered: %s", specifier)
	}

	delete(registered, specifier)
	return nil
}

// Registered returns the sorted list of registered specifiers
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]string, 0, len(registered))
	for specifier := range registered {
		result = append(result, specifier)
	}
	sort.Strings(result)

	return result
}

// RegistryImporter imports modules from the package-level registry
type RegistryImporter struct{}

// Import returns a copy of the module registered under specifier
func (RegistryImporter) Import(ctx context.Context, specifier string) (Module, error) {
	mu.RLock()
	defer mu.RUnlock()

	module, exists := registered[specifier]
	if !exists {
		return nil, fmt.Errorf("%w: %s is not a registered module", ErrNotFound, specifier)
	}

	return maps.Clone(module), nil
}
