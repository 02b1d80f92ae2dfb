package callctx

import "sync"

// Items is the per-call property bag. It is logically owned by a single
// in-flight call but may be touched by multiple pipeline stages of that call
// running on different goroutines, so access is synchronized.
type Items struct {
	mu     sync.RWMutex
	values map[any]any
}

// NewItems creates an empty item bag.
func NewItems() *Items {
	return &Items{values: make(map[any]any)}
}

// Get returns the value stored under key.
func (i *Items) Get(key any) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.values[key]
	return v, ok
}

// Set stores a value under key, replacing any existing value.
func (i *Items) Set(key, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.values[key] = value
}

// Delete removes the value stored under key. Unknown keys are ignored.
func (i *Items) Delete(key any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.values, key)
}

// Len returns the number of stored values.
func (i *Items) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.values)
}
