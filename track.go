//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"time"

	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Track is a Spotify track.
type Track struct {
	object
}

// Track looks up a track by URI.
func (s *Session) Track(uri string) (*Track, error) {
	link, err := s.Link(uri)
	if err != nil {
		return nil, err
	}
	defer link.Close()
	return link.Track()
}

func (s *Session) wrapTrack(ptr uintptr) (*Track, error) {
	h, err := native.Wrap(s.kinds.track, ptr)
	if err != nil {
		return nil, err
	}
	return &Track{object{s: s, h: h}}, nil
}

// IsLoaded reports whether the track's metadata has arrived.
func (t *Track) IsLoaded() bool {
	return t.s.sp.TrackIsLoaded(t.ptr())
}

// Err returns the track's error state. It is nil while loading.
func (t *Track) Err() error {
	return native.LoadError(t.s.sp.TrackError(t.ptr()), "sp_track_error")
}

// Load blocks until the track is loaded or reports an error. See
// Artist.Load for timeout.
func (t *Track) Load(timeout time.Duration) error {
	return t.s.load(t, timeout)
}

// Name returns the track's name, or "" if not loaded.
func (t *Track) Name() string {
	return t.s.sp.TrackName(t.ptr())
}

// Duration returns the track's length.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.s.sp.TrackDuration(t.ptr())) * time.Millisecond
}

// Popularity returns the track's popularity, 0 to 100.
func (t *Track) Popularity() int {
	return int(t.s.sp.TrackPopularity(t.ptr()))
}

// Disc returns the disc number, starting at 1.
func (t *Track) Disc() int {
	return int(t.s.sp.TrackDisc(t.ptr()))
}

// Index returns the track's position on its disc, starting at 1.
func (t *Track) Index() int {
	return int(t.s.sp.TrackIndex(t.ptr()))
}

// Album returns the track's album, or nil, nil if not loaded.
func (t *Track) Album() (*Album, error) {
	return locked(t.s.gw, func() (*Album, error) {
		ptr := t.s.sp.TrackAlbum(t.ptr())
		if ptr == 0 {
			return nil, nil
		}
		return t.s.wrapAlbum(ptr)
	})
}

// Artists returns the track's artists. The caller closes each one.
func (t *Track) Artists() ([]*Artist, error) {
	return collect(t.s.gw,
		func() int32 { return t.s.sp.TrackNumArtists(t.ptr()) },
		func(i int32) uintptr { return t.s.sp.TrackArtist(t.ptr(), i) },
		t.s.wrapArtist)
}

// Link returns a link to the track.
func (t *Track) Link() (*Link, error) {
	return t.LinkAt(0)
}

// LinkAt returns a link to the track that starts playback at offset.
func (t *Track) LinkAt(offset time.Duration) (*Link, error) {
	return t.s.adoptLink(t.s.sp.LinkCreateFromTrack(t.ptr(), int32(offset/time.Millisecond)))
}

// Equal reports whether both values refer to the same track.
func (t *Track) Equal(other *Track) bool {
	return other != nil && t.h.Equal(other.h)
}

func (t *Track) String() string {
	link, err := t.Link()
	return describe("Track", link, err)
}

// Close releases the track.
func (t *Track) Close() error {
	return t.h.Release()
}
