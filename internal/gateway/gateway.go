// Package gateway serializes every call into libspotify.
//
// libspotify is not thread-safe. A Gateway owns the single re-entrant lock
// that must be held whenever a libspotify function runs or libspotify-owned
// memory is read or written. Rather than taking the lock at each call site,
// the binding passes its whole symbol table through Wrap once at load time, so
// no entry point can be called without it.
//
// The lock must never be held across a blocking wait: libspotify's event
// pump needs it to make progress.
package gateway

import (
	"log/slog"

	"go.uber.org/atomic"
)

// Gateway is the process-wide call lock for one loaded native library.
type Gateway struct {
	mu    *rmutex
	log   *slog.Logger
	calls atomic.Uint64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for lock diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		mu:  newRMutex(),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "gateway")
	return g
}

// Lock acquires the call lock. The calling goroutine may already hold it.
func (g *Gateway) Lock() {
	g.mu.lock()
}

// Unlock releases one level of the call lock.
func (g *Gateway) Unlock() {
	g.mu.unlock()
}

// Call runs fn while holding the call lock and returns its error.
// The lock is released even if fn panics.
func (g *Gateway) Call(fn func() error) error {
	g.mu.lock()
	defer g.mu.unlock()
	g.calls.Inc()
	return fn()
}

// Do runs fn while holding the call lock and returns its result.
func Do[T any](g *Gateway, fn func() T) T {
	g.mu.lock()
	defer g.mu.unlock()
	g.calls.Inc()
	return fn()
}

// GoroutineID returns the id the lock uses for the calling goroutine.
func GoroutineID() int64 {
	return goid()
}

// HeldByCurrent reports whether the calling goroutine holds the lock.
func (g *Gateway) HeldByCurrent() bool {
	return g.mu.heldBy(goid())
}

// Held reports whether any goroutine holds the lock.
func (g *Gateway) Held() bool {
	return g.mu.held()
}

// Calls returns the number of serialized calls executed so far.
func (g *Gateway) Calls() uint64 {
	return g.calls.Load()
}
