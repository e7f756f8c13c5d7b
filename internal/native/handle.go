// Package native holds the binding core shared by every libspotify resource
// wrapper: reference-counted handles, the bridge from asynchronous completion
// callbacks to Go, and the polling wait used by loadable resources.
package native

import (
	"fmt"

	"go.uber.org/atomic"
)

// Kind describes one libspotify resource type and its reference counting
// entry points. AddRef and Release are expected to be lock-wrapped symbols
// (sp_<kind>_add_ref and sp_<kind>_release) returning sp_error.
type Kind struct {
	Name    string
	AddRef  func(ptr uintptr) int32
	Release func(ptr uintptr) int32
}

func (k *Kind) String() string {
	if k == nil {
		return "<nil kind>"
	}
	return k.Name
}

// Key identifies the native resource a Handle refers to. Two handles on the
// same resource have equal keys, so Key can be used as a map key.
type Key struct {
	Kind string
	Ptr  uintptr
}

// Handle owns exactly one native reference to a libspotify resource.
//
// The reference is taken when the Handle is built and given back by
// Release. Several Handles may refer to the same pointer; each owns an
// independent reference.
type Handle struct {
	kind     *Kind
	ptr      uintptr
	released atomic.Bool
}

// Wrap builds a Handle for a pointer borrowed from libspotify (e.g. returned
// by sp_track_album) and takes a new reference on it.
func Wrap(kind *Kind, ptr uintptr) (*Handle, error) {
	if ptr == 0 {
		return nil, fmt.Errorf("%w: null %s pointer", ErrInvalidHandle, kind)
	}
	if err := NewError(kind.AddRef(ptr), "sp_"+kind.Name+"_add_ref"); err != nil {
		return nil, err
	}
	return &Handle{kind: kind, ptr: ptr}, nil
}

// Adopt builds a Handle for a pointer just returned by a libspotify create
// call. Such pointers already carry one reference for the caller, so no new
// reference is taken.
func Adopt(kind *Kind, ptr uintptr) (*Handle, error) {
	if ptr == 0 {
		return nil, fmt.Errorf("%w: null %s pointer", ErrInvalidHandle, kind)
	}
	return &Handle{kind: kind, ptr: ptr}, nil
}

// Release gives the handle's reference back to libspotify. Only the first
// call releases; later calls return nil.
func (h *Handle) Release() error {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return nil
	}
	return NewError(h.kind.Release(h.ptr), "sp_"+h.kind.Name+"_release")
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Pointer returns the wrapped native pointer for use in further native
// calls. The pointer stays valid until Release.
func (h *Handle) Pointer() uintptr {
	if h == nil {
		return 0
	}
	return h.ptr
}

// Kind returns the resource kind.
func (h *Handle) Kind() *Kind {
	return h.kind
}

// Key returns the comparable identity of the referenced resource.
func (h *Handle) Key() Key {
	return Key{Kind: h.kind.Name, Ptr: h.ptr}
}

// Equal reports whether h and other refer to the same native resource.
func (h *Handle) Equal(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.Key() == other.Key()
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s@%#x", h.kind, h.ptr)
}
