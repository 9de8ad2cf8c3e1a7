package function

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps function names to declared functions.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Function)}
}

// Add registers fn under its name.
func (r *Registry) Add(fn Function) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[fn.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFunction, fn.Name)
	}
	r.funcs[fn.Name] = fn
	return nil
}

// MustAdd works like Add but panics on error.
func (r *Registry) MustAdd(fn Function) {
	if err := r.Add(fn); err != nil {
		panic(err)
	}
}

// Get returns the function registered under name.
func (r *Registry) Get(name string) (Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	if !ok {
		return Function{}, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
