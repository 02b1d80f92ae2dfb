package callctx

import (
	"reflect"
	"sync"
)

// ServiceResolver resolves ambient dependencies by type. Absence of a
// registration is a normal "not found" outcome, never an error.
type ServiceResolver interface {
	// ResolveService returns the service registered for the given type.
	ResolveService(t reflect.Type) (any, bool)
}

// nopResolver resolves nothing. It backs contexts constructed without an
// explicit resolver so call sites never special-case a missing locator.
type nopResolver struct{}

func (nopResolver) ResolveService(reflect.Type) (any, bool) { return nil, false }

// ServiceMap is a simple in-memory ServiceResolver keyed by type.
type ServiceMap struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

// NewServiceMap creates an empty service map.
func NewServiceMap() *ServiceMap {
	return &ServiceMap{services: make(map[reflect.Type]any)}
}

// ResolveService implements ServiceResolver.
func (m *ServiceMap) ResolveService(t reflect.Type) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.services[t]
	return v, ok
}

// RegisterService registers value under type T, replacing any existing
// registration. T is usually an interface type: RegisterService[Clock](m, c).
func RegisterService[T any](m *ServiceMap, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[typeOf[T]()] = value
}

// Service resolves a service of type T from the call context. The second
// return is false when nothing is registered for T.
func Service[T any](c *Context) (T, bool) {
	var zero T
	v, ok := c.Services().ResolveService(typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
