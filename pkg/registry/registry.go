// Package registry maps session handles back to the objects that own them.
//
// Callbacks from a TLS stack identify the session only by its handle. A
// Registry lets such a callback find the owning object again without the
// registry keeping that object alive: entries hold weak references, and the
// owner is expected to Unregister itself before it releases the session.
//
// Lookup runs the caller's function while holding the registry lock, so an
// owner that is unregistering waits for every callback that already found it.
package registry

import (
	"errors"
	"sync"
	"weak"
)

// ErrDuplicate is returned by Register when the key is already live.
var ErrDuplicate = errors.New("registry: duplicate key")

// Registry is a concurrency-safe map from K to non-owning references to V.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]weak.Pointer[V]
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]weak.Pointer[V]),
	}
}

// Register adds v under k. It fails with ErrDuplicate if k already refers to
// a live value.
func (r *Registry[K, V]) Register(k K, v *V) error {
	if v == nil {
		return errors.New("registry: nil value")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if wp, ok := r.entries[k]; ok && wp.Value() != nil {
		return ErrDuplicate
	}
	r.entries[k] = weak.Make(v)
	return nil
}

// Unregister removes k. It is a no-op when k is absent. Unregister waits
// for Lookup callbacks in progress to return.
func (r *Registry[K, V]) Unregister(k K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, k)
}

// Lookup calls use with the value registered under k while holding the
// registry read lock and reports whether k was found. use must not call
// Register or Unregister.
func (r *Registry[K, V]) Lookup(k K, use func(v *V)) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wp, ok := r.entries[k]
	if !ok {
		return false
	}
	v := wp.Value()
	if v == nil {
		return false
	}
	use(v)
	return true
}

// Contains reports whether k refers to a live value.
func (r *Registry[K, V]) Contains(k K) bool {
	return r.Lookup(k, func(*V) {})
}

// Len returns the number of entries, including entries whose value has been
// collected but not yet unregistered.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
