//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"time"

	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// ArtistBrowser holds the result of browsing an artist: its tracks, albums
// and biography. Done is closed when the browse completes.
type ArtistBrowser struct {
	async
	typ ArtistBrowseType
}

func (s *Session) browseArtist(a *Artist, typ ArtistBrowseType, cb func(*ArtistBrowser)) (*ArtistBrowser, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	b := &ArtistBrowser{async: newAsync(s), typ: typ}
	_, err := s.bridge.Register(native.Request{
		Completion: b.done,
		Create: func(callback, userdata uintptr) (uintptr, error) {
			return s.sp.ArtistBrowseCreate(s.ptr, a.ptr(), int32(typ), callback, userdata), nil
		},
		Attach: b.attach(s.kinds.artistBrowse),
		Ready: func(ptr uintptr) bool {
			return s.sp.ArtistBrowseIsLoaded(ptr)
		},
		OnComplete: func(uintptr) {
			if b.finish() && cb != nil {
				cb(b)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Type returns the browse type the request was made with.
func (b *ArtistBrowser) Type() ArtistBrowseType {
	return b.typ
}

// IsLoaded reports whether the browse has completed.
func (b *ArtistBrowser) IsLoaded() bool {
	return b.s.sp.ArtistBrowseIsLoaded(b.ptr())
}

// Err returns the browse's error state. It is nil while loading.
func (b *ArtistBrowser) Err() error {
	return native.LoadError(b.s.sp.ArtistBrowseError(b.ptr()), "sp_artistbrowse_error")
}

// Load blocks until the browse completes or fails. See Artist.Load for
// timeout.
func (b *ArtistBrowser) Load(timeout time.Duration) error {
	return b.s.load(b, timeout)
}

// Artist returns the browsed artist.
func (b *ArtistBrowser) Artist() (*Artist, error) {
	return locked(b.s.gw, func() (*Artist, error) {
		return b.s.wrapArtist(b.s.sp.ArtistBrowseArtist(b.ptr()))
	})
}

// Tracks returns the artist's tracks. The caller closes each one.
func (b *ArtistBrowser) Tracks() ([]*Track, error) {
	return collect(b.s.gw,
		func() int32 { return b.s.sp.ArtistBrowseNumTracks(b.ptr()) },
		func(i int32) uintptr { return b.s.sp.ArtistBrowseTrack(b.ptr(), i) },
		b.s.wrapTrack)
}

// Albums returns the artist's albums. The caller closes each one.
func (b *ArtistBrowser) Albums() ([]*Album, error) {
	return collect(b.s.gw,
		func() int32 { return b.s.sp.ArtistBrowseNumAlbums(b.ptr()) },
		func(i int32) uintptr { return b.s.sp.ArtistBrowseAlbum(b.ptr(), i) },
		b.s.wrapAlbum)
}

// TopHitTracks returns the artist's most popular tracks. The caller closes
// each one.
func (b *ArtistBrowser) TopHitTracks() ([]*Track, error) {
	return collect(b.s.gw,
		func() int32 { return b.s.sp.ArtistBrowseNumTopHitTracks(b.ptr()) },
		func(i int32) uintptr { return b.s.sp.ArtistBrowseTopHitTrack(b.ptr(), i) },
		b.s.wrapTrack)
}

// SimilarArtists returns artists similar to the browsed one. The caller
// closes each one.
func (b *ArtistBrowser) SimilarArtists() ([]*Artist, error) {
	return collect(b.s.gw,
		func() int32 { return b.s.sp.ArtistBrowseNumSimilarArtists(b.ptr()) },
		func(i int32) uintptr { return b.s.sp.ArtistBrowseSimilarArtist(b.ptr(), i) },
		b.s.wrapArtist)
}

// Portraits starts loading every portrait of the artist. The caller closes
// each image.
func (b *ArtistBrowser) Portraits() ([]*Image, error) {
	return locked(b.s.gw, func() ([]*Image, error) {
		n := int(b.s.sp.ArtistBrowseNumPortraits(b.ptr()))
		out := make([]*Image, 0, n)
		for i := 0; i < n; i++ {
			idx := int32(i)
			img, err := b.s.imageByID(func() uintptr {
				return b.s.sp.ArtistBrowsePortrait(b.ptr(), idx)
			}, nil)
			if err != nil {
				closeAll(out)
				return nil, err
			}
			if img != nil {
				out = append(out, img)
			}
		}
		return out, nil
	})
}

// Biography returns the artist's biography, or "".
func (b *ArtistBrowser) Biography() string {
	return b.s.sp.ArtistBrowseBiography(b.ptr())
}

// BackendRequestDuration returns how long the Spotify backend took to serve
// the browse. ok is false if the library does not report it or the result
// came from the cache.
func (b *ArtistBrowser) BackendRequestDuration() (d time.Duration, ok bool) {
	if b.s.sp.ArtistBrowseBackendRequestDuration == nil {
		return 0, false
	}
	ms := b.s.sp.ArtistBrowseBackendRequestDuration(b.ptr())
	if ms < 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

func (b *ArtistBrowser) String() string {
	link, err := locked(b.s.gw, func() (*Link, error) {
		ptr := b.s.sp.ArtistBrowseArtist(b.ptr())
		if ptr == 0 {
			return nil, nil
		}
		return b.s.adoptLink(b.s.sp.LinkCreateFromArtist(ptr))
	})
	return describe("ArtistBrowser", link, err)
}

// Close releases the browse result. If it is still loading, the release
// happens on completion and the callback does not run.
func (b *ArtistBrowser) Close() error {
	return b.close()
}

// AlbumBrowser holds the result of browsing an album.
type AlbumBrowser struct {
	async
}

func (s *Session) browseAlbum(a *Album, cb func(*AlbumBrowser)) (*AlbumBrowser, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	b := &AlbumBrowser{async: newAsync(s)}
	_, err := s.bridge.Register(native.Request{
		Completion: b.done,
		Create: func(callback, userdata uintptr) (uintptr, error) {
			return s.sp.AlbumBrowseCreate(s.ptr, a.ptr(), callback, userdata), nil
		},
		Attach: b.attach(s.kinds.albumBrowse),
		Ready: func(ptr uintptr) bool {
			return s.sp.AlbumBrowseIsLoaded(ptr)
		},
		OnComplete: func(uintptr) {
			if b.finish() && cb != nil {
				cb(b)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// IsLoaded reports whether the browse has completed.
func (b *AlbumBrowser) IsLoaded() bool {
	return b.s.sp.AlbumBrowseIsLoaded(b.ptr())
}

// Err returns the browse's error state. It is nil while loading.
func (b *AlbumBrowser) Err() error {
	return native.LoadError(b.s.sp.AlbumBrowseError(b.ptr()), "sp_albumbrowse_error")
}

// Load blocks until the browse completes or fails.
func (b *AlbumBrowser) Load(timeout time.Duration) error {
	return b.s.load(b, timeout)
}

// Album returns the browsed album.
func (b *AlbumBrowser) Album() (*Album, error) {
	return locked(b.s.gw, func() (*Album, error) {
		return b.s.wrapAlbum(b.s.sp.AlbumBrowseAlbum(b.ptr()))
	})
}

// Artist returns the album's artist.
func (b *AlbumBrowser) Artist() (*Artist, error) {
	return locked(b.s.gw, func() (*Artist, error) {
		return b.s.wrapArtist(b.s.sp.AlbumBrowseArtist(b.ptr()))
	})
}

// Tracks returns the album's tracks in order.
func (b *AlbumBrowser) Tracks() ([]*Track, error) {
	return collect(b.s.gw,
		func() int32 { return b.s.sp.AlbumBrowseNumTracks(b.ptr()) },
		func(i int32) uintptr { return b.s.sp.AlbumBrowseTrack(b.ptr(), i) },
		b.s.wrapTrack)
}

// Copyrights returns the album's copyright notices.
func (b *AlbumBrowser) Copyrights() []string {
	return gateway.Do(b.s.gw, func() []string {
		n := int(b.s.sp.AlbumBrowseNumCopyrights(b.ptr()))
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, b.s.sp.AlbumBrowseCopyright(b.ptr(), int32(i)))
		}
		return out
	})
}

// Review returns the album review, or "".
func (b *AlbumBrowser) Review() string {
	return b.s.sp.AlbumBrowseReview(b.ptr())
}

// Close releases the browse result, deferred until completion if it is
// still loading.
func (b *AlbumBrowser) Close() error {
	return b.close()
}
