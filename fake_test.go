//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/obinnaokechukwu/spgo/config"
	"github.com/obinnaokechukwu/spgo/internal/bindings"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

const fakeSessionPtr = 0x5e55

// fakeObject is one libspotify object in fakeLib. Which fields matter
// depends on kind.
type fakeObject struct {
	kind     string
	refs     int
	loaded   bool
	err      int32
	name     string
	uri      string
	linkType int32
	target   uintptr   // link: referenced object
	image    uintptr   // artist portrait or album cover image id
	artist   uintptr   // album, browse
	album    uintptr   // track, albumbrowse
	tracks   []uintptr // track artists, browse tracks, playlist tracks
	albums   []uintptr // artistbrowse
	tophits  []uintptr // artistbrowse
	similar  []uintptr // artistbrowse
	images   []uintptr // artistbrowse portrait image ids
	text     string    // biography, review
	strs     []string  // copyrights
	year     int32
	duration int32
	format   int32
	data     []byte
}

type capturedConfig struct {
	apiVersion        int32
	cacheLocation     string
	userAgent         string
	deviceID          string
	applicationKey    []byte
	compressPlaylists bool
	callbacks         uintptr
	tracefile         string
	caCerts           string
}

// fakeLib is an in-memory libspotify. Its functions are plugged into a
// bindings.Symbols and count any call made without the call lock.
type fakeLib struct {
	mu      sync.Mutex
	objects map[uintptr]*fakeObject
	byURI   map[string]uintptr
	next    uintptr

	createErr   int32
	config      capturedConfig
	state       int32
	released    bool
	pumps       int
	nextTimeout int32
	onPump      func()
	user        string
	remember    bool

	syncComplete  bool
	pending       map[uintptr]uintptr // browse or image -> userdata
	loadCallbacks map[uintptr]uintptr // image -> userdata
	playlistRegs  map[uintptr]map[uintptr]bool

	unlocked     atomic.Int64
	overReleased atomic.Int64
}

func newFakeLib() *fakeLib {
	return &fakeLib{
		objects:       make(map[uintptr]*fakeObject),
		byURI:         make(map[string]uintptr),
		next:          0x1000,
		state:         int32(ConnectionStateLoggedIn),
		nextTimeout:   5,
		pending:       make(map[uintptr]uintptr),
		loadCallbacks: make(map[uintptr]uintptr),
		playlistRegs:  make(map[uintptr]map[uintptr]bool),
	}
}

var linkTypes = map[string]LinkType{
	"artist":   LinkTypeArtist,
	"album":    LinkTypeAlbum,
	"track":    LinkTypeTrack,
	"playlist": LinkTypePlaylist,
	"imageid":  LinkTypeImage,
}

// add registers o with one reference held by the library itself.
func (f *fakeLib) add(o fakeObject) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(o)
}

func (f *fakeLib) addLocked(o fakeObject) uintptr {
	f.next += 0x10
	ptr := f.next
	if o.refs == 0 {
		o.refs = 1
	}
	f.objects[ptr] = &o
	if o.uri != "" && o.kind != "link" {
		f.byURI[o.uri] = ptr
	}
	return ptr
}

func (f *fakeLib) refs(ptr uintptr) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.objects[ptr]; o != nil {
		return o.refs
	}
	return -1
}

func (f *fakeLib) update(ptr uintptr, fn func(o *fakeObject)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.objects[ptr])
}

// liveLinks counts link objects still referenced by spgo.
func (f *fakeLib) liveLinks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.objects {
		if o.kind == "link" && o.refs > 0 {
			n++
		}
	}
	return n
}

func (f *fakeLib) enter() {
	if !processGateway().HeldByCurrent() {
		f.unlocked.Inc()
	}
}

// with runs fn on the object at ptr, if any.
func (f *fakeLib) with(ptr uintptr, fn func(o *fakeObject)) {
	f.enter()
	f.mu.Lock()
	defer f.mu.Unlock()
	if o := f.objects[ptr]; o != nil {
		fn(o)
	}
}

// complete finishes the asynchronous request for ptr and fires its
// callback, like libspotify's event pump would.
func (f *fakeLib) complete(ptr uintptr) {
	f.mu.Lock()
	ud, ok := f.pending[ptr]
	if o := f.objects[ptr]; o != nil {
		o.loaded = true
		o.err = 0
	}
	if cb, has := f.loadCallbacks[ptr]; has {
		ud, ok = cb, true
	}
	f.mu.Unlock()
	if ok {
		native.Dispatch(ptr, ud)
	}
}

func (f *fakeLib) pendingRequest(ptr, userdata uintptr) {
	f.mu.Lock()
	f.pending[ptr] = userdata
	syncNow := f.syncComplete
	f.mu.Unlock()
	if syncNow {
		f.complete(ptr)
	}
}

func (f *fakeLib) addRef(ptr uintptr) int32 {
	f.enter()
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[ptr]
	if o == nil {
		return int32(native.ErrorInvalidArgument)
	}
	o.refs++
	return 0
}

func (f *fakeLib) release(ptr uintptr) int32 {
	f.enter()
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[ptr]
	if o == nil {
		return int32(native.ErrorInvalidArgument)
	}
	o.refs--
	if o.refs < 0 {
		f.overReleased.Inc()
	}
	return 0
}

func (f *fakeLib) newLink(target uintptr) uintptr {
	f.enter()
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[target]
	if o == nil || o.uri == "" {
		return 0
	}
	return f.addLocked(fakeObject{kind: "link", uri: o.uri, linkType: int32(linkTypes[o.kind]), target: target})
}

func (f *fakeLib) sessionCreate(cfg unsafe.Pointer, out *uintptr) int32 {
	f.enter()
	c := (*sessionConfig)(cfg)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config = capturedConfig{
		apiVersion:        c.apiVersion,
		cacheLocation:     native.GoString(native.BytePtr(c.cacheLocation)),
		userAgent:         native.GoString(native.BytePtr(c.userAgent)),
		deviceID:          native.GoString(native.BytePtr(c.deviceID)),
		applicationKey:    native.GoBytes(c.applicationKey, int(c.applicationKeySize)),
		compressPlaylists: c.compressPlaylists,
		callbacks:         c.callbacks,
		tracefile:         native.GoString(native.BytePtr(c.tracefile)),
		caCerts:           native.GoString(native.BytePtr(c.caCerts())),
	}
	if f.createErr != 0 {
		return f.createErr
	}
	*out = fakeSessionPtr
	return 0
}

func (f *fakeLib) sessionProcessEvents(_ uintptr, next *int32) int32 {
	f.enter()
	f.mu.Lock()
	f.pumps++
	*next = f.nextTimeout
	hook := f.onPump
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return 0
}

func (f *fakeLib) pumpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pumps
}

func (f *fakeLib) linkAs(kind string) func(uintptr) uintptr {
	return func(link uintptr) (ptr uintptr) {
		f.with(link, func(o *fakeObject) {
			if t := f.objects[o.target]; t != nil && t.kind == kind {
				ptr = o.target
			}
		})
		return ptr
	}
}

func (f *fakeLib) imageFrom(id uintptr) uintptr {
	o := f.objects[id]
	if o == nil || o.kind != "imageid" {
		return 0
	}
	return f.addLocked(fakeObject{kind: "image", loaded: o.loaded, err: o.err, format: o.format, data: o.data, uri: ""})
}

func (f *fakeLib) symbols() *bindings.Symbols {
	return &bindings.Symbols{
		SessionCreate: f.sessionCreate,
		SessionRelease: func(uintptr) int32 {
			f.enter()
			f.mu.Lock()
			f.released = true
			f.mu.Unlock()
			return 0
		},
		SessionLogin: func(_ uintptr, user, _ string, remember bool, _ *byte) int32 {
			f.enter()
			f.mu.Lock()
			f.user, f.remember = user, remember
			f.mu.Unlock()
			return 0
		},
		SessionRelogin: func(uintptr) int32 {
			f.enter()
			return int32(native.ErrorNoCredentials)
		},
		SessionLogout: func(uintptr) int32 {
			f.enter()
			f.mu.Lock()
			f.state = int32(ConnectionStateLoggedOut)
			f.mu.Unlock()
			return 0
		},
		SessionProcessEvents: f.sessionProcessEvents,
		SessionConnectionState: func(uintptr) int32 {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.state
		},
		SessionUserName: func(uintptr) string {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.user
		},

		LinkCreateFromString: func(uri string) uintptr {
			f.enter()
			f.mu.Lock()
			target, ok := f.byURI[uri]
			f.mu.Unlock()
			if !ok {
				return 0
			}
			return f.newLink(target)
		},
		LinkCreateFromArtistPortrait: func(a uintptr, _ int32) uintptr {
			var id uintptr
			f.with(a, func(o *fakeObject) { id = o.image })
			if id == 0 {
				return 0
			}
			return f.newLink(id)
		},
		LinkCreateFromArtist:   f.newLink,
		LinkCreateFromAlbum:    f.newLink,
		LinkCreateFromTrack:    func(track uintptr, _ int32) uintptr { return f.newLink(track) },
		LinkCreateFromPlaylist: f.newLink,
		LinkAsString: func(link uintptr, buf *byte, size int32) (n int32) {
			f.with(link, func(o *fakeObject) {
				dst := unsafe.Slice(buf, size)
				copy(dst[:size-1], o.uri)
				dst[min(int(size)-1, len(o.uri))] = 0
				n = int32(len(o.uri))
			})
			return n
		},
		LinkType: func(link uintptr) (t int32) {
			f.with(link, func(o *fakeObject) { t = o.linkType })
			return t
		},
		LinkAsArtist: f.linkAs("artist"),
		LinkAsAlbum:  f.linkAs("album"),
		LinkAsTrack:  f.linkAs("track"),
		LinkAddRef:   f.addRef,
		LinkRelease:  f.release,

		ArtistName: func(a uintptr) (s string) {
			f.with(a, func(o *fakeObject) { s = o.name })
			return s
		},
		ArtistIsLoaded: func(a uintptr) (b bool) {
			f.with(a, func(o *fakeObject) { b = o.loaded })
			return b
		},
		ArtistPortrait: func(a uintptr, _ int32) (id uintptr) {
			f.with(a, func(o *fakeObject) { id = o.image })
			return id
		},
		ArtistAddRef:  f.addRef,
		ArtistRelease: f.release,

		ArtistBrowseCreate: func(_, artist uintptr, _ int32, _, userdata uintptr) uintptr {
			f.enter()
			f.mu.Lock()
			a := f.objects[artist]
			br := f.addLocked(fakeObject{kind: "artistbrowse", artist: artist, tracks: a.tracks, albums: a.albums, tophits: a.tophits, similar: a.similar, images: a.images, text: a.text, err: int32(native.ErrorIsLoading)})
			f.mu.Unlock()
			f.pendingRequest(br, userdata)
			return br
		},
		ArtistBrowseIsLoaded: func(b uintptr) (l bool) {
			f.with(b, func(o *fakeObject) { l = o.loaded })
			return l
		},
		ArtistBrowseError: func(b uintptr) (e int32) {
			f.with(b, func(o *fakeObject) { e = o.err })
			return e
		},
		ArtistBrowseArtist: func(b uintptr) (a uintptr) {
			f.with(b, func(o *fakeObject) { a = o.artist })
			return a
		},
		ArtistBrowseNumTracks: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.tracks)) })
			return n
		},
		ArtistBrowseTrack: func(b uintptr, i int32) (t uintptr) {
			f.with(b, func(o *fakeObject) { t = o.tracks[i] })
			return t
		},
		ArtistBrowseNumAlbums: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.albums)) })
			return n
		},
		ArtistBrowseAlbum: func(b uintptr, i int32) (a uintptr) {
			f.with(b, func(o *fakeObject) { a = o.albums[i] })
			return a
		},
		ArtistBrowseNumTopHitTracks: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.tophits)) })
			return n
		},
		ArtistBrowseTopHitTrack: func(b uintptr, i int32) (t uintptr) {
			f.with(b, func(o *fakeObject) { t = o.tophits[i] })
			return t
		},
		ArtistBrowseNumSimilarArtists: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.similar)) })
			return n
		},
		ArtistBrowseSimilarArtist: func(b uintptr, i int32) (a uintptr) {
			f.with(b, func(o *fakeObject) { a = o.similar[i] })
			return a
		},
		ArtistBrowseNumPortraits: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.images)) })
			return n
		},
		ArtistBrowsePortrait: func(b uintptr, i int32) (id uintptr) {
			f.with(b, func(o *fakeObject) { id = o.images[i] })
			return id
		},
		ArtistBrowseBiography: func(b uintptr) (s string) {
			f.with(b, func(o *fakeObject) { s = o.text })
			return s
		},
		ArtistBrowseBackendRequestDuration: func(uintptr) int32 {
			f.enter()
			return 120
		},
		ArtistBrowseAddRef:  f.addRef,
		ArtistBrowseRelease: f.release,

		AlbumIsLoaded: func(a uintptr) (b bool) {
			f.with(a, func(o *fakeObject) { b = o.loaded })
			return b
		},
		AlbumIsAvailable: func(a uintptr) (b bool) {
			f.with(a, func(o *fakeObject) { b = o.loaded })
			return b
		},
		AlbumArtist: func(a uintptr) (ar uintptr) {
			f.with(a, func(o *fakeObject) { ar = o.artist })
			return ar
		},
		AlbumCover: func(a uintptr, _ int32) (id uintptr) {
			f.with(a, func(o *fakeObject) { id = o.image })
			return id
		},
		AlbumName: func(a uintptr) (s string) {
			f.with(a, func(o *fakeObject) { s = o.name })
			return s
		},
		AlbumYear: func(a uintptr) (y int32) {
			f.with(a, func(o *fakeObject) { y = o.year })
			return y
		},
		AlbumType: func(uintptr) int32 {
			f.enter()
			return int32(AlbumTypeAlbum)
		},
		AlbumAddRef:  f.addRef,
		AlbumRelease: f.release,

		AlbumBrowseCreate: func(_, album, _, userdata uintptr) uintptr {
			f.enter()
			f.mu.Lock()
			a := f.objects[album]
			br := f.addLocked(fakeObject{kind: "albumbrowse", album: album, artist: a.artist, tracks: a.tracks, text: a.text, strs: a.strs, err: int32(native.ErrorIsLoading)})
			f.mu.Unlock()
			f.pendingRequest(br, userdata)
			return br
		},
		AlbumBrowseIsLoaded: func(b uintptr) (l bool) {
			f.with(b, func(o *fakeObject) { l = o.loaded })
			return l
		},
		AlbumBrowseError: func(b uintptr) (e int32) {
			f.with(b, func(o *fakeObject) { e = o.err })
			return e
		},
		AlbumBrowseAlbum: func(b uintptr) (a uintptr) {
			f.with(b, func(o *fakeObject) { a = o.album })
			return a
		},
		AlbumBrowseArtist: func(b uintptr) (a uintptr) {
			f.with(b, func(o *fakeObject) { a = o.artist })
			return a
		},
		AlbumBrowseNumTracks: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.tracks)) })
			return n
		},
		AlbumBrowseTrack: func(b uintptr, i int32) (t uintptr) {
			f.with(b, func(o *fakeObject) { t = o.tracks[i] })
			return t
		},
		AlbumBrowseNumCopyrights: func(b uintptr) (n int32) {
			f.with(b, func(o *fakeObject) { n = int32(len(o.strs)) })
			return n
		},
		AlbumBrowseCopyright: func(b uintptr, i int32) (s string) {
			f.with(b, func(o *fakeObject) { s = o.strs[i] })
			return s
		},
		AlbumBrowseReview: func(b uintptr) (s string) {
			f.with(b, func(o *fakeObject) { s = o.text })
			return s
		},
		AlbumBrowseAddRef:  f.addRef,
		AlbumBrowseRelease: f.release,

		TrackIsLoaded: func(t uintptr) (b bool) {
			f.with(t, func(o *fakeObject) { b = o.loaded })
			return b
		},
		TrackError: func(t uintptr) (e int32) {
			f.with(t, func(o *fakeObject) { e = o.err })
			return e
		},
		TrackName: func(t uintptr) (s string) {
			f.with(t, func(o *fakeObject) { s = o.name })
			return s
		},
		TrackDuration: func(t uintptr) (d int32) {
			f.with(t, func(o *fakeObject) { d = o.duration })
			return d
		},
		TrackPopularity: func(uintptr) int32 { f.enter(); return 42 },
		TrackDisc:       func(uintptr) int32 { f.enter(); return 1 },
		TrackIndex:      func(uintptr) int32 { f.enter(); return 3 },
		TrackNumArtists: func(t uintptr) (n int32) {
			f.with(t, func(o *fakeObject) { n = int32(len(o.tracks)) })
			return n
		},
		TrackArtist: func(t uintptr, i int32) (a uintptr) {
			f.with(t, func(o *fakeObject) { a = o.tracks[i] })
			return a
		},
		TrackAlbum: func(t uintptr) (a uintptr) {
			f.with(t, func(o *fakeObject) { a = o.album })
			return a
		},
		TrackAddRef:  f.addRef,
		TrackRelease: f.release,

		ImageCreate: func(_, id uintptr) uintptr {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.imageFrom(id)
		},
		ImageCreateFromLink: func(_, link uintptr) uintptr {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			if l := f.objects[link]; l != nil {
				return f.imageFrom(l.target)
			}
			return 0
		},
		ImageAddLoadCallback: func(img, _, userdata uintptr) int32 {
			f.enter()
			f.mu.Lock()
			f.loadCallbacks[img] = userdata
			syncNow := f.syncComplete
			f.mu.Unlock()
			if syncNow {
				f.complete(img)
			}
			return 0
		},
		ImageRemoveLoadCallback: func(img, _, userdata uintptr) int32 {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.loadCallbacks[img] != userdata {
				return int32(native.ErrorInvalidArgument)
			}
			delete(f.loadCallbacks, img)
			return 0
		},
		ImageIsLoaded: func(img uintptr) (b bool) {
			f.with(img, func(o *fakeObject) { b = o.loaded })
			return b
		},
		ImageError: func(img uintptr) (e int32) {
			f.with(img, func(o *fakeObject) { e = o.err })
			return e
		},
		ImageFormat: func(img uintptr) (v int32) {
			f.with(img, func(o *fakeObject) { v = o.format })
			return v
		},
		ImageData: func(img uintptr, size *uintptr) (p uintptr) {
			f.with(img, func(o *fakeObject) {
				*size = uintptr(len(o.data))
				if len(o.data) > 0 && o.loaded {
					p = uintptr(unsafe.Pointer(&o.data[0]))
				}
			})
			return p
		},
		ImageAddRef:  f.addRef,
		ImageRelease: f.release,

		PlaylistCreate: func(_, link uintptr) (pl uintptr) {
			f.with(link, func(o *fakeObject) {
				if t := f.objects[o.target]; t != nil && t.kind == "playlist" {
					t.refs++
					pl = o.target
				}
			})
			return pl
		},
		PlaylistIsLoaded: func(pl uintptr) (b bool) {
			f.with(pl, func(o *fakeObject) { b = o.loaded })
			return b
		},
		PlaylistName: func(pl uintptr) (s string) {
			f.with(pl, func(o *fakeObject) { s = o.name })
			return s
		},
		PlaylistNumTracks: func(pl uintptr) (n int32) {
			f.with(pl, func(o *fakeObject) { n = int32(len(o.tracks)) })
			return n
		},
		PlaylistTrack: func(pl uintptr, i int32) (t uintptr) {
			f.with(pl, func(o *fakeObject) { t = o.tracks[i] })
			return t
		},
		PlaylistAddCallbacks: func(pl uintptr, _ unsafe.Pointer, userdata uintptr) int32 {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.playlistRegs[pl] == nil {
				f.playlistRegs[pl] = make(map[uintptr]bool)
			}
			f.playlistRegs[pl][userdata] = true
			return 0
		},
		PlaylistRemoveCallbacks: func(pl uintptr, _ unsafe.Pointer, userdata uintptr) int32 {
			f.enter()
			f.mu.Lock()
			defer f.mu.Unlock()
			if !f.playlistRegs[pl][userdata] {
				return int32(native.ErrorInvalidArgument)
			}
			delete(f.playlistRegs[pl], userdata)
			return 0
		},
		PlaylistAddRef:  f.addRef,
		PlaylistRelease: f.release,
	}
}

// playlistUserdata returns the userdata values registered on pl.
func (f *fakeLib) playlistUserdata(pl uintptr) []uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uintptr
	for ud := range f.playlistRegs[pl] {
		out = append(out, ud)
	}
	return out
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Library.EventLoop = false
	cfg.Library.PollInterval = time.Millisecond
	cfg.Library.LoadTimeout = 2 * time.Second
	cfg.Session.UserAgent = "spgo-test"
	cfg.Session.ApplicationKey = []byte{0xde, 0xad, 0xbe, 0xef}
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession opens a session on f and closes it when the test ends.
func newTestSession(t *testing.T, f *fakeLib, opts ...Option) *Session {
	t.Helper()
	return newTestSessionWithConfig(t, f, testConfig(), opts...)
}

func newTestSessionWithConfig(t *testing.T, f *fakeLib, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	s, err := newSession(cfg, f.symbols(), callbackSet{}, append([]Option{WithLogger(discardLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// cString returns a NUL-terminated copy of s for trampoline arguments.
func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
