package property

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry holds accessor tables for concrete record types.
//
// Tables are populated once at startup and read concurrently afterwards.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	tables map[reflect.Type]map[string]func(any) any
}

// NewRegistry creates an empty accessor registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[reflect.Type]map[string]func(any) any),
	}
}

// Register adds an accessor named method (e.g. "GetName", "IsActive") for
// records of type T.
//
// Panics if the method name is empty or already registered for T, in the
// same fail-fast manner as startup registries elsewhere in the module.
//
// Usage:
//
//	property.Register(reg, "GetName", func(p Product) any { return p.Name })
func Register[T any](r *Registry, method string, fn func(T) any) {
	if method == "" {
		panic("property: accessor method name cannot be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("property: accessor %q has nil function", method))
	}

	typ := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[typ]
	if !ok {
		table = make(map[string]func(any) any)
		r.tables[typ] = table
	}
	if _, exists := table[method]; exists {
		panic(fmt.Sprintf("property: accessor %q already registered for %s", method, typ))
	}

	table[method] = func(rec any) any {
		return fn(rec.(T))
	}
}

// lookup returns the registered accessor for the record's dynamic type.
func (r *Registry) lookup(record any, method string) (Accessor, bool) {
	if r == nil || record == nil {
		return nil, false
	}

	r.mu.RLock()
	table, ok := r.tables[reflect.TypeOf(record)]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	fn, ok := table[method]
	if !ok {
		return nil, false
	}
	return func() any { return fn(record) }, true
}

// Len returns the number of record types with registered accessors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
