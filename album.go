//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"time"

	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Album is a Spotify album.
type Album struct {
	object
}

// Album looks up an album by URI.
func (s *Session) Album(uri string) (*Album, error) {
	link, err := s.Link(uri)
	if err != nil {
		return nil, err
	}
	defer link.Close()
	return link.Album()
}

func (s *Session) wrapAlbum(ptr uintptr) (*Album, error) {
	h, err := native.Wrap(s.kinds.album, ptr)
	if err != nil {
		return nil, err
	}
	return &Album{object{s: s, h: h}}, nil
}

// IsLoaded reports whether the album's metadata has arrived.
func (a *Album) IsLoaded() bool {
	return a.s.sp.AlbumIsLoaded(a.ptr())
}

// Err always returns nil: libspotify reports no album error state.
func (a *Album) Err() error {
	return nil
}

// Load blocks until the album is loaded. See Artist.Load for timeout.
func (a *Album) Load(timeout time.Duration) error {
	return a.s.load(a, timeout)
}

// IsAvailable reports whether the album can be played in the user's region.
func (a *Album) IsAvailable() bool {
	return a.s.sp.AlbumIsAvailable(a.ptr())
}

// Name returns the album's name, or "" if not loaded.
func (a *Album) Name() string {
	return a.s.sp.AlbumName(a.ptr())
}

// Year returns the release year, or 0 if unknown or not loaded.
func (a *Album) Year() int {
	return int(a.s.sp.AlbumYear(a.ptr()))
}

// Type returns the album type.
func (a *Album) Type() AlbumType {
	return AlbumType(a.s.sp.AlbumType(a.ptr()))
}

// Artist returns the album's artist, or nil, nil if not loaded.
func (a *Album) Artist() (*Artist, error) {
	return locked(a.s.gw, func() (*Artist, error) {
		ptr := a.s.sp.AlbumArtist(a.ptr())
		if ptr == 0 {
			return nil, nil
		}
		return a.s.wrapArtist(ptr)
	})
}

// Cover starts loading the album's cover art. It returns nil, nil if the
// album has no cover or is not loaded yet.
func (a *Album) Cover(size ImageSize, cb func(*Image)) (*Image, error) {
	return a.s.imageByID(func() uintptr {
		return a.s.sp.AlbumCover(a.ptr(), int32(size))
	}, cb)
}

// Link returns a link to the album.
func (a *Album) Link() (*Link, error) {
	return a.s.adoptLink(a.s.sp.LinkCreateFromAlbum(a.ptr()))
}

// Browse requests the album's tracks, copyrights and review.
func (a *Album) Browse(cb func(*AlbumBrowser)) (*AlbumBrowser, error) {
	return a.s.browseAlbum(a, cb)
}

// Equal reports whether both values refer to the same album.
func (a *Album) Equal(other *Album) bool {
	return other != nil && a.h.Equal(other.h)
}

func (a *Album) String() string {
	link, err := a.Link()
	return describe("Album", link, err)
}

// Close releases the album.
func (a *Album) Close() error {
	return a.h.Release()
}
