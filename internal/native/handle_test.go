package native

import (
	"sync"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
)

// refTable stands in for libspotify's internal reference counts.
type refTable struct {
	mu     sync.Mutex
	counts map[uintptr]int
	fail   int32
}

type refSymbols struct {
	AddRef  func(ptr uintptr) int32
	Release func(ptr uintptr) int32
}

func newRefTable() *refTable {
	return &refTable{counts: make(map[uintptr]int)}
}

func (r *refTable) kind(t *testing.T, name string) *Kind {
	t.Helper()
	syms := &refSymbols{
		AddRef: func(ptr uintptr) int32 {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.fail != 0 {
				return r.fail
			}
			r.counts[ptr]++
			return 0
		},
		Release: func(ptr uintptr) int32 {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.counts[ptr]--
			return 0
		},
	}
	_, err := gateway.New().Wrap(syms)
	require.NoError(t, err)
	return &Kind{Name: name, AddRef: syms.AddRef, Release: syms.Release}
}

func (r *refTable) count(ptr uintptr) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[ptr]
}

func (r *refTable) set(ptr uintptr, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[ptr] = n
}

func TestWrapTakesExactlyOneReference(t *testing.T) {
	refs := newRefTable()
	artist := refs.kind(t, "artist")

	property := func(ptr uintptr, base uint8) bool {
		if ptr == 0 {
			return true
		}
		refs.set(ptr, int(base))

		h, err := Wrap(artist, ptr)
		if err != nil || refs.count(ptr) != int(base)+1 {
			return false
		}
		if err := h.Release(); err != nil {
			return false
		}
		return refs.count(ptr) == int(base)
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestAdoptDoesNotTakeReference(t *testing.T) {
	refs := newRefTable()
	image := refs.kind(t, "image")

	property := func(ptr uintptr) bool {
		if ptr == 0 {
			return true
		}
		// A create call hands back the pointer with an implicit reference.
		refs.set(ptr, 1)

		h, err := Adopt(image, ptr)
		if err != nil || refs.count(ptr) != 1 {
			return false
		}
		if err := h.Release(); err != nil {
			return false
		}
		return refs.count(ptr) == 0
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestNullPointerIsInvalidHandle(t *testing.T) {
	refs := newRefTable()
	track := refs.kind(t, "track")

	_, err := Wrap(track, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = Adopt(track, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestReleaseRunsOnce(t *testing.T) {
	refs := newRefTable()
	album := refs.kind(t, "album")
	const ptr uintptr = 0xa1b0

	h, err := Wrap(album, ptr)
	require.NoError(t, err)
	require.Equal(t, 1, refs.count(ptr))

	require.NoError(t, h.Release())
	require.NoError(t, h.Release())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, refs.count(ptr))
	assert.True(t, h.Released())
}

func TestTwoHandlesOnSamePointer(t *testing.T) {
	refs := newRefTable()
	artist := refs.kind(t, "artist")
	const ptr uintptr = 0x5150

	first, err := Wrap(artist, ptr)
	require.NoError(t, err)
	second, err := Wrap(artist, ptr)
	require.NoError(t, err)
	require.Equal(t, 2, refs.count(ptr))

	require.NoError(t, first.Release())

	assert.Equal(t, 1, refs.count(ptr))
	assert.False(t, second.Released())
	assert.Equal(t, ptr, second.Pointer())

	// The surviving handle is still usable for further wrapped calls.
	third, err := Wrap(artist, second.Pointer())
	require.NoError(t, err)
	assert.Equal(t, 2, refs.count(ptr))

	require.NoError(t, second.Release())
	require.NoError(t, third.Release())
	assert.Equal(t, 0, refs.count(ptr))
}

func TestHandleEquality(t *testing.T) {
	refs := newRefTable()
	artist := refs.kind(t, "artist")
	album := refs.kind(t, "album")

	a1, err := Wrap(artist, 0x10)
	require.NoError(t, err)
	a2, err := Wrap(artist, 0x10)
	require.NoError(t, err)
	a3, err := Wrap(artist, 0x20)
	require.NoError(t, err)
	b1, err := Wrap(album, 0x10)
	require.NoError(t, err)

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(a3))
	assert.False(t, a1.Equal(b1), "same pointer, different kind")
	assert.False(t, a1.Equal(nil))

	seen := map[Key]int{}
	for _, h := range []*Handle{a1, a2, a3, b1} {
		seen[h.Key()]++
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 2, seen[a1.Key()])
	assert.Equal(t, "artist@0x10", a1.String())
}

func TestWrapReportsAddRefFailure(t *testing.T) {
	refs := newRefTable()
	refs.fail = int32(ErrorInvalidIndata)
	artist := refs.kind(t, "artist")

	_, err := Wrap(artist, 0x99)

	var spErr *Error
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ErrorInvalidIndata, spErr.Code)
	assert.Equal(t, "sp_artist_add_ref", spErr.Op)
}
