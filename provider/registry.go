package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds an Adapter from a resolved Config.
type Factory func(cfg Config) (Adapter, error)

// Registry maps backend names to factories. The zero value is not usable;
// call NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(name string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("provider %q: nil factory", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	r.factories[name] = factory
}

// New builds the named backend. cfg.Provider is set to name before the
// factory runs.
func (r *Registry) New(name string, cfg Config) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (registered: %v)", ErrUnknownProvider, name, r.Names())
	}
	cfg.Provider = name
	return factory(cfg)
}

// Names lists registered backends in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// defaultRegistry is populated by the backend packages' init functions.
var defaultRegistry = NewRegistry()

// Register adds a backend to the process-wide registry. Backend packages
// call it from init:
//
//	func init() {
//		provider.Register(Name, newFromProviderConfig)
//	}
func Register(name string, factory Factory) { defaultRegistry.Register(name, factory) }

// New builds a backend from the process-wide registry.
func New(name string, cfg Config) (Adapter, error) { return defaultRegistry.New(name, cfg) }

// Available lists the backends in the process-wide registry.
func Available() []string { return defaultRegistry.Names() }

// IsRegistered reports whether the process-wide registry knows name.
func IsRegistered(name string) bool { return defaultRegistry.Has(name) }
