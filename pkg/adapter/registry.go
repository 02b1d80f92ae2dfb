package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves adapter instances by name. The resolver consumes this
// interface; hosts provide an implementation (MemoryRegistry for in-process
// hosts). An unknown name is a normal outcome, not an error.
type Registry interface {
	// Adapter returns the adapter registered under name.
	Adapter(name string) (Adapter, bool)

	// Names returns the registered adapter names in sorted order.
	Names() []string
}

// MemoryRegistry is an in-process Registry. Registration normally happens
// during host start-up; lookups are safe for concurrent use.
type MemoryRegistry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under the given name. Registering a name twice is
// a configuration error and is rejected.
func (r *MemoryRegistry) Register(name string, a Adapter) error {
	if name == "" {
		return fmt.Errorf("registry: adapter name must not be empty")
	}
	if a == nil {
		return fmt.Errorf("registry: adapter %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("registry: adapter %q already registered", name)
	}
	r.adapters[name] = a
	return nil
}

// Adapter implements Registry.
func (r *MemoryRegistry) Adapter(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Names implements Registry.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered adapters.
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
