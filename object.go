//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"fmt"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// object is what every resource wrapper holds: the owning session and one
// native reference.
type object struct {
	s *Session
	h *native.Handle
}

func (o object) ptr() uintptr {
	return o.h.Pointer()
}

// locked runs fn under the call lock and returns its results, so that a
// borrowed pointer and the reference taken on it are read in one critical
// section.
func locked[T any](gw *gateway.Gateway, fn func() (T, error)) (T, error) {
	var v T
	err := gw.Call(func() error {
		var err error
		v, err = fn()
		return err
	})
	return v, err
}

// describe formats a resource for String methods as Kind("uri").
func describe(kind string, link *Link, err error) string {
	if err != nil || link == nil {
		return kind + "(<unknown>)"
	}
	defer link.Close()
	return fmt.Sprintf("%s(%q)", kind, link.URI())
}

// collect wraps the n borrowed pointers returned by at(0..n-1) under one
// hold of the call lock. On failure the wrappers built so far are released.
func collect[T interface{ Close() error }](gw *gateway.Gateway, n func() int32, at func(int32) uintptr, wrap func(uintptr) (T, error)) ([]T, error) {
	return locked(gw, func() ([]T, error) {
		count := int(n())
		out := make([]T, 0, count)
		for i := 0; i < count; i++ {
			v, err := wrap(at(int32(i)))
			if err != nil {
				closeAll(out)
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
}

// closeAll releases every resource in rs.
func closeAll[T interface{ Close() error }](rs []T) {
	for _, r := range rs {
		_ = r.Close()
	}
}

// async is a resource created by a request that completes through the
// completion bridge. Until the callback fires libspotify still holds the
// request's userdata, so closing it early defers the release to the
// callback.
type async struct {
	object
	done *native.Completion

	closing bool // guarded by the call lock
}

func newAsync(s *Session) async {
	return async{object: object{s: s}, done: native.NewCompletion()}
}

// attach returns the Request.Attach step adopting the created pointer.
func (a *async) attach(kind *native.Kind) func(uintptr) error {
	return func(ptr uintptr) error {
		h, err := native.Adopt(kind, ptr)
		if err != nil {
			return err
		}
		a.h = h
		return nil
	}
}

// Done returns a channel that is closed when the request completes.
func (a *async) Done() <-chan struct{} {
	return a.done.Done()
}

// finish runs from OnComplete with the call lock held and reports whether
// the user's callback should run.
func (a *async) finish() bool {
	if !a.closing {
		return true
	}
	if err := a.h.Release(); err != nil {
		a.s.log.Warn("deferred release failed", "resource", a.h, "error", err)
	}
	return false
}

func (a *async) close() error {
	return a.s.gw.Call(func() error {
		if !a.done.IsSet() {
			a.closing = true
			return nil
		}
		return a.h.Release()
	})
}
