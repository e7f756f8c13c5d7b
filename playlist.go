//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/obinnaokechukwu/spgo/internal/handles"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Playlist is a Spotify playlist.
type Playlist struct {
	object

	// view is set on the wrappers handed to PlaylistCallbacks. They borrow
	// the callbacks table's reference and Close does nothing.
	view bool
}

// PlaylistCallbacks receives playlist change notifications. Every field is
// optional. The functions run with the call lock held and must not block;
// the *Playlist they get is valid only during the call.
type PlaylistCallbacks struct {
	Renamed          func(pl *Playlist)
	StateChanged     func(pl *Playlist)
	UpdateInProgress func(pl *Playlist, done bool)
	MetadataUpdated  func(pl *Playlist)
}

// playlistEntry tracks the callbacks registered on one playlist. It holds
// its own reference so the playlist outlives its wrappers while callbacks
// are registered.
type playlistEntry struct {
	handle *native.Handle
	view   *Playlist
	regs   map[*PlaylistCallbacks]uintptr
}

// playlistRegistration is the userdata of one sp_playlist_add_callbacks call.
type playlistRegistration struct {
	s    *Session
	view *Playlist
	cb   *PlaylistCallbacks
}

// Playlist looks up a playlist by URI.
func (s *Session) Playlist(uri string) (*Playlist, error) {
	link, err := s.Link(uri)
	if err != nil {
		return nil, err
	}
	defer link.Close()
	if err := link.expect(LinkTypePlaylist); err != nil {
		return nil, err
	}
	h, err := native.Adopt(s.kinds.playlist, s.sp.PlaylistCreate(s.ptr, link.ptr()))
	if err != nil {
		return nil, err
	}
	return &Playlist{object: object{s: s, h: h}}, nil
}

// IsLoaded reports whether the playlist's metadata has arrived.
func (p *Playlist) IsLoaded() bool {
	return p.s.sp.PlaylistIsLoaded(p.ptr())
}

// Err always returns nil: libspotify reports no playlist error state.
func (p *Playlist) Err() error {
	return nil
}

// Load blocks until the playlist is loaded. See Artist.Load for timeout.
func (p *Playlist) Load(timeout time.Duration) error {
	return p.s.load(p, timeout)
}

// Name returns the playlist's name, or "" if not loaded.
func (p *Playlist) Name() string {
	return p.s.sp.PlaylistName(p.ptr())
}

// NumTracks returns the number of tracks in the playlist.
func (p *Playlist) NumTracks() int {
	return int(p.s.sp.PlaylistNumTracks(p.ptr()))
}

// Track returns the track at index i.
func (p *Playlist) Track(i int) (*Track, error) {
	return locked(p.s.gw, func() (*Track, error) {
		if n := int(p.s.sp.PlaylistNumTracks(p.ptr())); i < 0 || i >= n {
			return nil, &native.Error{Code: native.ErrorIndexOutOfRange, Op: "sp_playlist_track"}
		}
		return p.s.wrapTrack(p.s.sp.PlaylistTrack(p.ptr(), int32(i)))
	})
}

// Tracks returns every track in the playlist. The caller closes each one.
func (p *Playlist) Tracks() ([]*Track, error) {
	return collect(p.s.gw,
		func() int32 { return p.s.sp.PlaylistNumTracks(p.ptr()) },
		func(i int32) uintptr { return p.s.sp.PlaylistTrack(p.ptr(), i) },
		p.s.wrapTrack)
}

// Link returns a link to the playlist.
func (p *Playlist) Link() (*Link, error) {
	return p.s.adoptLink(p.s.sp.LinkCreateFromPlaylist(p.ptr()))
}

// AddCallbacks registers cb for change notifications on the playlist. The
// registration keeps the playlist alive after p is closed, until
// RemoveCallbacks or Session.Close. Adding the same cb twice does nothing.
func (p *Playlist) AddCallbacks(cb *PlaylistCallbacks) error {
	if cb == nil {
		return fmt.Errorf("spgo: nil playlist callbacks")
	}
	s := p.s
	return s.gw.Call(func() error {
		key := p.h.Key()
		e := s.playlists[key]
		if e == nil {
			h, err := native.Wrap(s.kinds.playlist, p.ptr())
			if err != nil {
				return err
			}
			e = &playlistEntry{
				handle: h,
				view:   &Playlist{object: object{s: s, h: h}, view: true},
				regs:   make(map[*PlaylistCallbacks]uintptr),
			}
			s.playlists[key] = e
		}
		if _, ok := e.regs[cb]; ok {
			return nil
		}

		id := handles.Register(&playlistRegistration{s: s, view: e.view, cb: cb})
		err := native.NewError(s.sp.PlaylistAddCallbacks(e.handle.Pointer(), s.cb.playlist, id), "sp_playlist_add_callbacks")
		if err != nil {
			handles.Unregister(id)
			if len(e.regs) == 0 {
				delete(s.playlists, key)
				err = multierr.Append(err, e.handle.Release())
			}
			return err
		}
		e.regs[cb] = id
		return nil
	})
}

// RemoveCallbacks undoes AddCallbacks. Removing callbacks that were never
// added does nothing.
func (p *Playlist) RemoveCallbacks(cb *PlaylistCallbacks) error {
	s := p.s
	return s.gw.Call(func() error {
		key := p.h.Key()
		e := s.playlists[key]
		if e == nil {
			return nil
		}
		id, ok := e.regs[cb]
		if !ok {
			return nil
		}
		return s.removePlaylistCallback(key, e, cb, id)
	})
}

// removePlaylistCallback must be called with the call lock held.
func (s *Session) removePlaylistCallback(key native.Key, e *playlistEntry, cb *PlaylistCallbacks, id uintptr) error {
	err := native.NewError(s.sp.PlaylistRemoveCallbacks(e.handle.Pointer(), s.cb.playlist, id), "sp_playlist_remove_callbacks")
	delete(e.regs, cb)
	handles.Unregister(id)
	if len(e.regs) == 0 {
		delete(s.playlists, key)
		err = multierr.Append(err, e.handle.Release())
	}
	return err
}

// releasePlaylistCallbacks drops every registration, for Close.
func (s *Session) releasePlaylistCallbacks() error {
	return s.gw.Call(func() error {
		var err error
		for key, e := range s.playlists {
			for cb, id := range e.regs {
				err = multierr.Append(err, s.removePlaylistCallback(key, e, cb, id))
			}
		}
		return err
	})
}

// dispatchPlaylist is the body of the playlist callback trampolines.
func dispatchPlaylist(userdata, pl uintptr, fn func(*playlistRegistration)) {
	r, ok := handles.Lookup(userdata).(*playlistRegistration)
	if !ok {
		return
	}
	if pl != r.view.ptr() {
		r.s.log.Warn("playlist callback for unexpected playlist", "registered", r.view.h, "got", pl)
	}
	r.s.dispatch("playlist", func() { fn(r) })
}

// Equal reports whether both values refer to the same playlist.
func (p *Playlist) Equal(other *Playlist) bool {
	return other != nil && p.h.Equal(other.h)
}

func (p *Playlist) String() string {
	link, err := p.Link()
	return describe("Playlist", link, err)
}

// Close releases the playlist. Registered callbacks keep their own
// reference.
func (p *Playlist) Close() error {
	if p.view {
		return nil
	}
	return p.h.Release()
}
