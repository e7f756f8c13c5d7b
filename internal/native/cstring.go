package native

import (
	"runtime"
	"unsafe"
)

// maxCString bounds GoString against unterminated input.
const maxCString = 1 << 16

// CString returns a pointer to a NUL-terminated copy of s, pinned by p so it
// can be stored in native structs until p.Unpin. Empty strings map to NULL,
// which is what libspotify expects for unset optional fields.
func CString(p *runtime.Pinner, s string) uintptr {
	if s == "" {
		return 0
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	p.Pin(&b[0])
	return uintptr(unsafe.Pointer(&b[0]))
}

// CBytes returns a pointer to a pinned copy of b, or 0 if b is empty.
func CBytes(p *runtime.Pinner, b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	c := make([]byte, len(b))
	copy(c, b)
	p.Pin(&c[0])
	return uintptr(unsafe.Pointer(&c[0]))
}

// GoBytes copies n bytes of native memory starting at ptr. For
// libspotify-owned memory the call lock must be held.
func GoBytes(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

// GoString copies a NUL-terminated C string.
func GoString(s *byte) string {
	if s == nil {
		return ""
	}
	base := unsafe.Pointer(s)
	n := 0
	for n < maxCString && *(*byte)(unsafe.Add(base, n)) != 0 {
		n++
	}
	return string(unsafe.Slice(s, n))
}

// BytePtr converts a native address to a *byte for APIs that take C strings.
func BytePtr(ptr uintptr) *byte {
	return (*byte)(unsafe.Pointer(ptr))
}
