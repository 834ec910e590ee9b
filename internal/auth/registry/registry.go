// Package registry is the typed dependency container the session core is
// resolved from. Each key is registered once and initialized once; using a
// key before it is initialized fails loudly.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotInitialized is returned by Get for a key that has not been initialized.
	ErrNotInitialized = errors.New("registry: service used before initialization")
	// ErrNotRegistered is returned when no factory exists for a key.
	ErrNotRegistered = errors.New("registry: no factory registered")
	// ErrAlreadyRegistered is returned when a key is registered twice.
	ErrAlreadyRegistered = errors.New("registry: factory already registered")
	// ErrAlreadyInitialized is returned when a key is initialized twice.
	ErrAlreadyInitialized = errors.New("registry: service already initialized")
)

// Key names a service of type T.
type Key[T any] struct {
	name string
}

// NewKey declares a key. Keys are compared by name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string {
	return k.name
}

// Factory builds a service once bootstrap dependencies are available.
type Factory[T any] func(ctx context.Context) (T, error)

type entry struct {
	factory  func(ctx context.Context) (any, error)
	mu       sync.Mutex
	instance any
	ready    bool
}

// Registry holds factories and the instances they produced.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register stores the factory for key.
func Register[T any](r *Registry, key Key[T], factory Factory[T]) error {
	if factory == nil {
		return fmt.Errorf("registry: nil factory for %q", key.name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key.name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, key.name)
	}
	r.entries[key.name] = &entry{factory: func(ctx context.Context) (any, error) {
		return factory(ctx)
	}}
	return nil
}

// Initialize runs the factory for key and caches the instance. A failed
// factory leaves the key uninitialized so bootstrap can retry.
func Initialize[T any](ctx context.Context, r *Registry, key Key[T]) (T, error) {
	var zero T
	e, err := r.lookup(key.name)
	if err != nil {
		return zero, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return zero, fmt.Errorf("%w: %q", ErrAlreadyInitialized, key.name)
	}
	v, err := e.factory(ctx)
	if err != nil {
		return zero, fmt.Errorf("registry: initialize %q: %w", key.name, err)
	}
	instance, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: factory for %q returned %T", key.name, v)
	}
	e.instance = instance
	e.ready = true
	return instance, nil
}

// Get returns the initialized instance for key.
func Get[T any](r *Registry, key Key[T]) (T, error) {
	var zero T
	e, err := r.lookup(key.name)
	if err != nil {
		return zero, fmt.Errorf("%w: %q", ErrNotInitialized, key.name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return zero, fmt.Errorf("%w: %q", ErrNotInitialized, key.name)
	}
	return e.instance.(T), nil
}

// MustGet is Get for call sites where a missing service is a programming error.
func MustGet[T any](r *Registry, key Key[T]) T {
	v, err := Get(r, key)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *Registry) lookup(name string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return e, nil
}
