//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"time"

	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Artist is a Spotify artist. Its metadata is available once IsLoaded
// reports true; see Load.
type Artist struct {
	object
}

// Artist looks up an artist by URI.
func (s *Session) Artist(uri string) (*Artist, error) {
	link, err := s.Link(uri)
	if err != nil {
		return nil, err
	}
	defer link.Close()
	return link.Artist()
}

// wrapArtist takes a reference on an artist pointer borrowed from another
// object.
func (s *Session) wrapArtist(ptr uintptr) (*Artist, error) {
	h, err := native.Wrap(s.kinds.artist, ptr)
	if err != nil {
		return nil, err
	}
	return &Artist{object{s: s, h: h}}, nil
}

// IsLoaded reports whether the artist's metadata has arrived.
func (a *Artist) IsLoaded() bool {
	return a.s.sp.ArtistIsLoaded(a.ptr())
}

// Err always returns nil: libspotify reports no artist error state.
func (a *Artist) Err() error {
	return nil
}

// Load blocks until the artist is loaded. A timeout of zero uses the
// configured default; a negative timeout waits without limit.
func (a *Artist) Load(timeout time.Duration) error {
	return a.s.load(a, timeout)
}

// Name returns the artist's name, or "" if not loaded.
func (a *Artist) Name() string {
	return a.s.sp.ArtistName(a.ptr())
}

// Portrait starts loading the artist's portrait. It returns nil, nil if the
// artist has none or is not loaded yet. cb, if non-nil, runs when the image
// has loaded.
func (a *Artist) Portrait(size ImageSize, cb func(*Image)) (*Image, error) {
	return a.s.imageByID(func() uintptr {
		return a.s.sp.ArtistPortrait(a.ptr(), int32(size))
	}, cb)
}

// PortraitLink returns a link to the artist's portrait image. It returns
// nil, nil if the artist has no portrait or is not loaded yet.
func (a *Artist) PortraitLink(size ImageSize) (*Link, error) {
	return locked(a.s.gw, func() (*Link, error) {
		ptr := a.s.sp.LinkCreateFromArtistPortrait(a.ptr(), int32(size))
		if ptr == 0 {
			return nil, nil
		}
		return a.s.adoptLink(ptr)
	})
}

// Link returns a link to the artist.
func (a *Artist) Link() (*Link, error) {
	return a.s.adoptLink(a.s.sp.LinkCreateFromArtist(a.ptr()))
}

// Browse requests the artist's discography and biography. cb, if non-nil,
// runs when the browse completes.
func (a *Artist) Browse(typ ArtistBrowseType, cb func(*ArtistBrowser)) (*ArtistBrowser, error) {
	return a.s.browseArtist(a, typ, cb)
}

// Equal reports whether both values refer to the same artist.
func (a *Artist) Equal(other *Artist) bool {
	return other != nil && a.h.Equal(other.h)
}

func (a *Artist) String() string {
	link, err := a.Link()
	return describe("Artist", link, err)
}

// Close releases the artist.
func (a *Artist) Close() error {
	return a.h.Release()
}
