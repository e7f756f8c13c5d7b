//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/obinnaokechukwu/spgo/config"
	"github.com/obinnaokechukwu/spgo/internal/bindings"
	"github.com/obinnaokechukwu/spgo/internal/gateway"
	"github.com/obinnaokechukwu/spgo/internal/native"
)

// minPumpInterval bounds how eagerly the event loop honours a zero
// next_timeout from sp_session_process_events.
const minPumpInterval = time.Millisecond

// SessionEvents receives session notifications. Every field is optional.
// The functions run on libspotify's callback thread with the call lock held
// and must not block. They may not close the session.
type SessionEvents struct {
	LoggedIn               func(err error)
	LoggedOut              func()
	MetadataUpdated        func()
	ConnectionError        func(err error)
	ConnectionStateUpdated func(state ConnectionState)
	MessageToUser          func(message string)
	CredentialsBlobUpdated func(blob string)
}

// Option configures a Session.
type Option func(*options)

type options struct {
	logger *slog.Logger
	events SessionEvents
}

// WithLogger sets the logger for the session and its resources. The default
// is built from the configuration's log level and writes to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEvents registers session event handlers.
func WithEvents(e SessionEvents) Option {
	return func(o *options) {
		o.events = e
	}
}

// callbackSet holds the C function pointers libspotify calls back into.
type callbackSet struct {
	completion uintptr
	session    unsafe.Pointer // *sessionCallbacks
	playlist   unsafe.Pointer // *playlistCallbacks
}

// Loadable is implemented by every resource with a Load method.
type Loadable = native.Loadable

// kinds are the reference counting entry points of each resource type.
type kinds struct {
	link         *native.Kind
	artist       *native.Kind
	album        *native.Kind
	track        *native.Kind
	image        *native.Kind
	playlist     *native.Kind
	artistBrowse *native.Kind
	albumBrowse  *native.Kind
}

func newKinds(sp *bindings.Symbols) kinds {
	return kinds{
		link:         &native.Kind{Name: "link", AddRef: sp.LinkAddRef, Release: sp.LinkRelease},
		artist:       &native.Kind{Name: "artist", AddRef: sp.ArtistAddRef, Release: sp.ArtistRelease},
		album:        &native.Kind{Name: "album", AddRef: sp.AlbumAddRef, Release: sp.AlbumRelease},
		track:        &native.Kind{Name: "track", AddRef: sp.TrackAddRef, Release: sp.TrackRelease},
		image:        &native.Kind{Name: "image", AddRef: sp.ImageAddRef, Release: sp.ImageRelease},
		playlist:     &native.Kind{Name: "playlist", AddRef: sp.PlaylistAddRef, Release: sp.PlaylistRelease},
		artistBrowse: &native.Kind{Name: "artistbrowse", AddRef: sp.ArtistBrowseAddRef, Release: sp.ArtistBrowseRelease},
		albumBrowse:  &native.Kind{Name: "albumbrowse", AddRef: sp.AlbumBrowseAddRef, Release: sp.AlbumBrowseRelease},
	}
}

var (
	// active is the open session, if any.
	active atomic.Pointer[Session]

	gatewayOnce sync.Once
	callLock    *gateway.Gateway

	libMu      sync.Mutex
	libSymbols *bindings.Symbols

	// Replaced in tests.
	openLibrary  = bindings.Open
	bindLibrary  = bindings.Bind
	closeLibrary = bindings.Close
)

// processGateway returns the call lock shared by every session in the
// process.
func processGateway() *gateway.Gateway {
	gatewayOnce.Do(func() {
		callLock = gateway.New()
	})
	return callLock
}

// loadSymbols opens and binds libspotify once per process. The library stays
// loaded after the session closes.
func loadSymbols(path string) (*bindings.Symbols, error) {
	libMu.Lock()
	defer libMu.Unlock()

	if libSymbols != nil {
		return libSymbols, nil
	}
	lib, err := openLibrary(path)
	if err != nil {
		return nil, err
	}
	sym := new(bindings.Symbols)
	if err := bindLibrary(lib, sym); err != nil {
		return nil, multierr.Append(err, closeLibrary(lib))
	}
	libSymbols = sym
	return sym, nil
}

// Session is a libspotify session. Only one may be open at a time.
//
// All methods are safe for concurrent use.
type Session struct {
	cfg    *config.Config
	log    *slog.Logger
	events SessionEvents

	gw     *gateway.Gateway
	sp     *bindings.Symbols
	kinds  kinds
	bridge *native.Bridge
	cb     callbackSet

	ptr    uintptr
	native atomic.Uintptr // ptr, for callback threads

	pinner       runtime.Pinner
	nativeConfig *sessionConfig

	notify     chan struct{}
	loopMu     sync.Mutex
	loopCancel context.CancelFunc
	loopWG     *conc.WaitGroup
	looping    atomic.Bool

	// loopGoroutine is the goroutine id of the running loop, or 0.
	loopGoroutine atomic.Int64

	loginMu  sync.Mutex
	login    *native.Completion
	loginErr error

	logMu       sync.Mutex
	logCallback LogCallback

	// Guarded by the call lock.
	playlists map[native.Key]*playlistEntry

	closed atomic.Bool
}

// NewSession loads libspotify and creates a session from cfg. A nil cfg uses
// config.DefaultConfig. Unless cfg.Library.EventLoop is false, a goroutine
// pumping libspotify events is started; see StartEventLoop.
//
// Only one session may exist per process: NewSession returns
// ErrSessionExists until the previous one is closed.
func NewSession(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
		if err := cfg.Session.ReadApplicationKey(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("spgo: invalid config: %w", err)
	}
	sym, err := loadSymbols(cfg.Library.Path)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, sym, nativeCallbacks(), opts...)
}

// newSession creates a session on an already bound, unwrapped symbol table.
func newSession(cfg *config.Config, raw *bindings.Symbols, cb callbackSet, opts ...Option) (*Session, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = cfg.Logger(logOutput)
	}

	s := &Session{
		cfg:       cfg,
		log:       log.With("component", "session"),
		events:    o.events,
		gw:        processGateway(),
		cb:        cb,
		notify:    make(chan struct{}, 1),
		login:     native.NewCompletion(),
		playlists: make(map[native.Key]*playlistEntry),
	}
	if !active.CompareAndSwap(nil, s) {
		return nil, ErrSessionExists
	}

	sym := *raw
	if _, err := s.gw.Wrap(&sym); err != nil {
		active.Store(nil)
		return nil, err
	}
	s.sp = &sym
	s.kinds = newKinds(s.sp)
	s.bridge = native.NewBridge(s.gw, cb.completion, log)

	s.nativeConfig = s.buildConfig()
	var ptr uintptr
	if err := native.NewError(s.sp.SessionCreate(unsafe.Pointer(s.nativeConfig), &ptr), "sp_session_create"); err != nil {
		s.pinner.Unpin()
		active.Store(nil)
		return nil, err
	}
	s.ptr = ptr
	s.native.Store(ptr)
	s.log.Debug("session created", "api_version", cfg.Session.APIVersion, "cache", cfg.Session.CacheLocation)

	if cfg.Library.EventLoop {
		s.StartEventLoop()
	}
	return s, nil
}

// buildConfig lays out sp_session_config. The strings and the struct stay
// pinned until Close.
func (s *Session) buildConfig() *sessionConfig {
	c := s.cfg.Session
	p := &s.pinner
	nc := &sessionConfig{
		apiVersion:                   int32(c.APIVersion),
		cacheLocation:                native.CString(p, c.CacheLocation),
		settingsLocation:             native.CString(p, c.SettingsLocation),
		applicationKey:               native.CBytes(p, c.ApplicationKey),
		applicationKeySize:           uintptr(len(c.ApplicationKey)),
		userAgent:                    native.CString(p, c.UserAgent),
		callbacks:                    uintptr(s.cb.session),
		compressPlaylists:            c.CompressPlaylists,
		dontSaveMetadataForPlaylists: c.DontSaveMetadataForPlaylists,
		initiallyUnloadPlaylists:     c.InitiallyUnloadPlaylists,
		deviceID:                     native.CString(p, c.DeviceID),
		proxy:                        native.CString(p, c.Proxy),
		proxyUsername:                native.CString(p, c.ProxyUsername),
		proxyPassword:                native.CString(p, c.ProxyPassword),
		tracefile:                    native.CString(p, c.TraceFile),
	}
	if c.CACertsFilename != "" && !nc.setCACertsFilename(native.CString(p, c.CACertsFilename)) {
		s.log.Warn("ca_certs_filename is only supported on linux, ignoring", "path", c.CACertsFilename)
	}
	p.Pin(nc)
	return nc
}

// sessionFor returns the open session if sp is its native pointer. During
// sp_session_create the pointer is not known yet and any sp matches.
func sessionFor(sp uintptr) *Session {
	s := active.Load()
	if s == nil {
		return nil
	}
	if p := s.native.Load(); p != 0 && sp != 0 && p != sp {
		return nil
	}
	return s
}

func (s *Session) checkOpen() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Login starts logging in. Completion is reported through LoggedIn,
// WaitLogin and the LoggedIn event.
func (s *Session) Login(username, password string, rememberMe bool) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.resetLogin()
	return native.NewError(s.sp.SessionLogin(s.ptr, username, password, rememberMe, nil), "sp_session_login")
}

// Relogin logs in the user remembered by a previous Login with rememberMe.
func (s *Session) Relogin() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.resetLogin()
	return native.NewError(s.sp.SessionRelogin(s.ptr), "sp_session_relogin")
}

func (s *Session) resetLogin() {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	if s.login.IsSet() {
		s.login = native.NewCompletion()
	}
	s.loginErr = nil
}

// LoggedIn returns a channel that is closed when the current login attempt
// completes, successfully or not.
func (s *Session) LoggedIn() <-chan struct{} {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	return s.login.Done()
}

// LoginErr returns the result of the last completed login attempt.
func (s *Session) LoginErr() error {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	return s.loginErr
}

// loginWait adapts the login attempt to the loadable protocol.
type loginWait struct{ s *Session }

func (w loginWait) IsLoaded() bool {
	w.s.loginMu.Lock()
	defer w.s.loginMu.Unlock()
	return w.s.login.IsSet()
}

func (w loginWait) Err() error {
	return w.s.LoginErr()
}

// WaitLogin blocks until the current login attempt completes and returns
// its result. A timeout of zero uses the configured load timeout.
func (s *Session) WaitLogin(timeout time.Duration) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return native.WaitTimeout(loginWait{s}, s.timeout(timeout), s.waitOptions())
}

// Logout logs the current user out. The session stays usable for a new
// Login.
func (s *Session) Logout() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return native.NewError(s.sp.SessionLogout(s.ptr), "sp_session_logout")
}

// ConnectionState returns the session's current connection state.
func (s *Session) ConnectionState() ConnectionState {
	if s.closed.Load() {
		return ConnectionStateLoggedOut
	}
	return ConnectionState(s.sp.SessionConnectionState(s.ptr))
}

// UserName returns the canonical name of the logged in user.
func (s *Session) UserName() string {
	if s.closed.Load() {
		return ""
	}
	return s.sp.SessionUserName(s.ptr)
}

// ProcessEvents runs libspotify's event pump once and returns how long to
// wait before the next call. It is called by the event loop; call it
// yourself only when the loop is stopped.
func (s *Session) ProcessEvents() (time.Duration, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var next int32
	err := native.NewError(s.sp.SessionProcessEvents(s.ptr, &next), "sp_session_process_events")
	d := time.Duration(next) * time.Millisecond
	if d < minPumpInterval {
		d = minPumpInterval
	}
	return d, err
}

// StartEventLoop starts a goroutine that calls ProcessEvents whenever
// libspotify asks for it or its requested timeout expires. Starting a
// running loop does nothing.
func (s *Session) StartEventLoop() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()

	if s.loopCancel != nil || s.closed.Load() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.loopCancel = cancel
	s.loopWG = conc.NewWaitGroup()
	s.looping.Store(true)
	s.loopWG.Go(func() { s.runEventLoop(ctx) })
	s.log.Debug("event loop started")
}

// StopEventLoop stops the event loop and waits for it to exit. A panic in
// the loop is returned as an error. Called from an event handler running on
// the loop it returns ErrInEventLoop and leaves the loop running.
func (s *Session) StopEventLoop() error {
	if s.onEventLoop() {
		return ErrInEventLoop
	}
	s.loopMu.Lock()
	cancel, wg := s.loopCancel, s.loopWG
	s.loopCancel, s.loopWG = nil, nil
	s.loopMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	defer s.looping.Store(false)
	if r := wg.WaitAndRecover(); r != nil {
		return fmt.Errorf("spgo: event loop: %w", r.AsError())
	}
	s.log.Debug("event loop stopped")
	return nil
}

// onEventLoop reports whether the caller is the event loop goroutine.
func (s *Session) onEventLoop() bool {
	id := s.loopGoroutine.Load()
	return id != 0 && id == gateway.GoroutineID()
}

func (s *Session) runEventLoop(ctx context.Context) {
	s.loopGoroutine.Store(gateway.GoroutineID())
	defer s.loopGoroutine.Store(0)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notify:
		case <-timer.C:
		}
		next, err := s.ProcessEvents()
		if errors.Is(err, ErrClosed) {
			return
		}
		if err != nil {
			s.log.Warn("process events failed", "error", err)
		}
		timer.Reset(next)
	}
}

// onNotifyMainThread wakes the event loop. libspotify calls it from its own
// threads, so it only touches the channel.
func (s *Session) onNotifyMainThread() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// dispatch runs a session callback under the call lock, recovering panics
// from user event handlers.
func (s *Session) dispatch(name string, fn func()) {
	_ = s.gw.Call(func() error {
		var pc panics.Catcher
		pc.Try(fn)
		if r := pc.Recovered(); r != nil {
			s.log.Error("session callback panicked", "callback", name, "panic", r.Value, "stack", string(r.Stack))
		}
		return nil
	})
}

func (s *Session) onLoggedIn(code int32) {
	err := native.NewError(code, "logged_in")

	s.loginMu.Lock()
	s.loginErr = err
	done := s.login
	s.loginMu.Unlock()
	done.Set()

	if err != nil {
		s.log.Warn("login failed", "error", err)
	} else {
		s.log.Info("logged in")
	}
	if s.events.LoggedIn != nil {
		s.events.LoggedIn(err)
	}
}

func (s *Session) onLoggedOut() {
	s.log.Info("logged out")
	if s.events.LoggedOut != nil {
		s.events.LoggedOut()
	}
}

func (s *Session) onMetadataUpdated() {
	s.log.Debug("metadata updated")
	if s.events.MetadataUpdated != nil {
		s.events.MetadataUpdated()
	}
}

func (s *Session) onConnectionError(code int32) {
	err := native.NewError(code, "connection_error")
	s.log.Warn("connection error", "error", err)
	if s.events.ConnectionError != nil {
		s.events.ConnectionError(err)
	}
}

func (s *Session) onConnectionStateUpdated() {
	state := ConnectionState(s.sp.SessionConnectionState(s.ptr))
	s.log.Debug("connection state updated", "state", state)
	if s.events.ConnectionStateUpdated != nil {
		s.events.ConnectionStateUpdated(state)
	}
}

func (s *Session) onMessageToUser(msg string) {
	s.log.Info("message to user", "message", msg)
	if s.events.MessageToUser != nil {
		s.events.MessageToUser(msg)
	}
}

func (s *Session) onCredentialsBlobUpdated(blob string) {
	s.log.Debug("credentials blob updated")
	if s.events.CredentialsBlobUpdated != nil {
		s.events.CredentialsBlobUpdated(blob)
	}
}

func (s *Session) onPlayTokenLost() {
	s.log.Warn("play token lost")
}

func (s *Session) onStreamingError(code int32) {
	s.log.Warn("streaming error", "error", native.NewError(code, "streaming_error"))
}

func (s *Session) onOfflineError(code int32) {
	s.log.Warn("offline error", "error", native.NewError(code, "offline_error"))
}

// timeout resolves a Load timeout argument: zero means the configured
// default and a negative value waits without limit.
func (s *Session) timeout(t time.Duration) time.Duration {
	if t == 0 {
		return s.cfg.Library.LoadTimeout
	}
	return t
}

func (s *Session) waitOptions() native.WaitOptions {
	o := native.WaitOptions{
		Interval: s.cfg.Library.PollInterval,
		Gateway:  s.gw,
		Logger:   s.log,
	}
	if !s.looping.Load() {
		o.Pump = func() error {
			_, err := s.ProcessEvents()
			return err
		}
	}
	return o
}

func (s *Session) checkLoadable() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	switch s.ConnectionState() {
	case ConnectionStateLoggedIn, ConnectionStateOffline:
		return nil
	default:
		return ErrNotLoggedIn
	}
}

// load waits for l with the loadable protocol. Nothing loads while logged
// out, so that fails fast with ErrNotLoggedIn.
func (s *Session) load(l native.Loadable, timeout time.Duration) error {
	if err := s.checkLoadable(); err != nil {
		return err
	}
	return native.WaitTimeout(l, s.timeout(timeout), s.waitOptions())
}

// Wait is like a resource's Load but bounded by ctx instead of a timeout.
// A ctx deadline is reported as an error wrapping ErrTimeout.
func (s *Session) Wait(ctx context.Context, l Loadable) error {
	if err := s.checkLoadable(); err != nil {
		return err
	}
	return native.Wait(ctx, l, s.waitOptions())
}

// Close stops the event loop, drops playlist callbacks and releases the
// session. Resources obtained from the session must not be used afterwards.
// After Close a new session may be created. Event handlers run on the event
// loop and cannot close the session; there Close returns ErrInEventLoop.
func (s *Session) Close() error {
	if s.onEventLoop() {
		return ErrInEventLoop
	}
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.StopEventLoop()
	err = multierr.Append(err, s.releasePlaylistCallbacks())
	err = multierr.Append(err, native.NewError(s.sp.SessionRelease(s.ptr), "sp_session_release"))

	s.native.Store(0)
	s.pinner.Unpin()
	active.CompareAndSwap(s, nil)
	s.log.Debug("session closed", "pending_requests", s.bridge.Pending())
	return err
}
