//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"fmt"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// linkBufferSize is the first guess at a URI's length for sp_link_as_string.
const linkBufferSize = 256

// Link is a parsed Spotify URI.
type Link struct {
	object
}

// Link parses a Spotify URI such as "spotify:artist:..." or an
// open.spotify.com URL.
func (s *Session) Link(uri string) (*Link, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	ptr := s.sp.LinkCreateFromString(uri)
	if ptr == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return s.adoptLink(ptr)
}

// adoptLink wraps the result of one of the sp_link_create_* functions.
func (s *Session) adoptLink(ptr uintptr) (*Link, error) {
	h, err := native.Adopt(s.kinds.link, ptr)
	if err != nil {
		return nil, err
	}
	return &Link{object{s: s, h: h}}, nil
}

// URI returns the link as a Spotify URI.
func (l *Link) URI() string {
	return gateway.Do(l.s.gw, func() string {
		buf := make([]byte, linkBufferSize)
		for {
			n := int(l.s.sp.LinkAsString(l.ptr(), &buf[0], int32(len(buf))))
			if n < 0 {
				return ""
			}
			if n < len(buf) {
				return string(buf[:n])
			}
			buf = make([]byte, n+1)
		}
	})
}

// Type returns the kind of object the link refers to.
func (l *Link) Type() LinkType {
	return LinkType(l.s.sp.LinkType(l.ptr()))
}

func (l *Link) expect(t LinkType) error {
	if got := l.Type(); got != t {
		return fmt.Errorf("%w: %s link, want %s", ErrWrongLinkType, got, t)
	}
	return nil
}

// Artist returns the artist an artist link refers to.
func (l *Link) Artist() (*Artist, error) {
	if err := l.expect(LinkTypeArtist); err != nil {
		return nil, err
	}
	return locked(l.s.gw, func() (*Artist, error) {
		return l.s.wrapArtist(l.s.sp.LinkAsArtist(l.ptr()))
	})
}

// Album returns the album an album link refers to.
func (l *Link) Album() (*Album, error) {
	if err := l.expect(LinkTypeAlbum); err != nil {
		return nil, err
	}
	return locked(l.s.gw, func() (*Album, error) {
		return l.s.wrapAlbum(l.s.sp.LinkAsAlbum(l.ptr()))
	})
}

// Track returns the track a track link refers to.
func (l *Link) Track() (*Track, error) {
	switch t := l.Type(); t {
	case LinkTypeTrack, LinkTypeLocalTrack:
	default:
		return nil, fmt.Errorf("%w: %s link, want track", ErrWrongLinkType, t)
	}
	return locked(l.s.gw, func() (*Track, error) {
		return l.s.wrapTrack(l.s.sp.LinkAsTrack(l.ptr()))
	})
}

// Equal reports whether both links are the same libspotify object.
func (l *Link) Equal(other *Link) bool {
	return other != nil && l.h.Equal(other.h)
}

func (l *Link) String() string {
	return fmt.Sprintf("Link(%q)", l.URI())
}

// Close releases the link.
func (l *Link) Close() error {
	return l.h.Release()
}
