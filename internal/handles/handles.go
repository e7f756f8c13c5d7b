// Package handles maps opaque userdata ids to the Go values libspotify
// callbacks need.
//
// libspotify passes the userdata back from its own threads, possibly after
// the Go object that issued the request is unreachable, and Go pointers may
// not be kept in native memory. A value is therefore registered here and only
// its id crosses into libspotify. The registry owns the value until it is
// taken or unregistered.
package handles

import (
	"sync"

	"go.uber.org/atomic"
)

// Registry is a set of values keyed by nonzero ids. The zero value is ready
// to use.
type Registry struct {
	last   atomic.Uintptr
	mu     sync.RWMutex
	values map[uintptr]any
}

// Register stores v and returns its id. Ids are never 0 and never reused.
func (r *Registry) Register(v any) uintptr {
	id := r.last.Inc()
	r.mu.Lock()
	if r.values == nil {
		r.values = make(map[uintptr]any)
	}
	r.values[id] = v
	r.mu.Unlock()
	return id
}

// Lookup returns the value for id, or nil.
func (r *Registry) Lookup(id uintptr) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[id]
}

// Take removes and returns the value for id. When several goroutines take
// the same id exactly one receives the value; the rest get nil.
func (r *Registry) Take(id uintptr) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[id]
	if ok {
		delete(r.values, id)
	}
	return v
}

// Unregister drops id. Unknown ids are ignored.
func (r *Registry) Unregister(id uintptr) {
	r.mu.Lock()
	delete(r.values, id)
	r.mu.Unlock()
}

// Len returns the number of live ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

var global Registry

// Register adds v to the process registry.
func Register(v any) uintptr { return global.Register(v) }

// Lookup reads from the process registry.
func Lookup(id uintptr) any { return global.Lookup(id) }

// Take removes id from the process registry and returns its value.
func Take(id uintptr) any { return global.Take(id) }

// Unregister removes id from the process registry.
func Unregister(id uintptr) { global.Unregister(id) }

// Count returns the number of live ids in the process registry. Tests use
// it to spot leaked callback contexts.
func Count() int { return global.Len() }
