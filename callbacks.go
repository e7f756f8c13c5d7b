//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/spgo/internal/native"
)

// The callback tables live for the whole process: purego callbacks cannot be
// freed, and libspotify keeps the pointers it is given.
var (
	callbacksOnce sync.Once
	sessionTable  sessionCallbacks
	playlistTable playlistCallbacks
)

// nativeCallbacks builds the C callback tables on first use.
func nativeCallbacks() callbackSet {
	callbacksOnce.Do(func() {
		sessionTable = sessionCallbacks{
			loggedIn:               purego.NewCallback(loggedInTrampoline),
			loggedOut:              purego.NewCallback(loggedOutTrampoline),
			metadataUpdated:        purego.NewCallback(metadataUpdatedTrampoline),
			connectionError:        purego.NewCallback(connectionErrorTrampoline),
			messageToUser:          purego.NewCallback(messageToUserTrampoline),
			notifyMainThread:       purego.NewCallback(notifyMainThreadTrampoline),
			playTokenLost:          purego.NewCallback(playTokenLostTrampoline),
			logMessage:             purego.NewCallback(logMessageTrampoline),
			streamingError:         purego.NewCallback(streamingErrorTrampoline),
			offlineError:           purego.NewCallback(offlineErrorTrampoline),
			credentialsBlobUpdated: purego.NewCallback(credentialsBlobUpdatedTrampoline),
			connectionstateUpdated: purego.NewCallback(connectionStateUpdatedTrampoline),
		}
		playlistTable = playlistCallbacks{
			playlistRenamed:          purego.NewCallback(playlistRenamedTrampoline),
			playlistStateChanged:     purego.NewCallback(playlistStateChangedTrampoline),
			playlistUpdateInProgress: purego.NewCallback(playlistUpdateInProgressTrampoline),
			playlistMetadataUpdated:  purego.NewCallback(playlistMetadataUpdatedTrampoline),
		}
	})
	return callbackSet{
		completion: native.CompletionCallback(),
		session:    unsafe.Pointer(&sessionTable),
		playlist:   unsafe.Pointer(&playlistTable),
	}
}

// void (*logged_in)(sp_session *session, sp_error error)
func loggedInTrampoline(_ purego.CDecl, sp uintptr, code int32) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("logged_in", func() { s.onLoggedIn(code) })
	}
}

func loggedOutTrampoline(_ purego.CDecl, sp uintptr) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("logged_out", s.onLoggedOut)
	}
}

func metadataUpdatedTrampoline(_ purego.CDecl, sp uintptr) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("metadata_updated", s.onMetadataUpdated)
	}
}

func connectionErrorTrampoline(_ purego.CDecl, sp uintptr, code int32) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("connection_error", func() { s.onConnectionError(code) })
	}
}

// void (*message_to_user)(sp_session *session, const char *message)
func messageToUserTrampoline(_ purego.CDecl, sp uintptr, msg *byte) {
	if s := sessionFor(sp); s != nil {
		text := native.GoString(msg)
		s.dispatch("message_to_user", func() { s.onMessageToUser(text) })
	}
}

// notify_main_thread may run on any libspotify thread, possibly while
// another goroutine holds the call lock inside libspotify. It must not
// take the lock.
func notifyMainThreadTrampoline(_ purego.CDecl, sp uintptr) {
	if s := sessionFor(sp); s != nil {
		s.onNotifyMainThread()
	}
}

func playTokenLostTrampoline(_ purego.CDecl, sp uintptr) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("play_token_lost", s.onPlayTokenLost)
	}
}

// log_message shares notify_main_thread's threading and does not take
// the lock either.
func logMessageTrampoline(_ purego.CDecl, sp uintptr, msg *byte) {
	if s := sessionFor(sp); s != nil {
		s.onLogMessage(native.GoString(msg))
	}
}

func streamingErrorTrampoline(_ purego.CDecl, sp uintptr, code int32) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("streaming_error", func() { s.onStreamingError(code) })
	}
}

func offlineErrorTrampoline(_ purego.CDecl, sp uintptr, code int32) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("offline_error", func() { s.onOfflineError(code) })
	}
}

func credentialsBlobUpdatedTrampoline(_ purego.CDecl, sp uintptr, blob *byte) {
	if s := sessionFor(sp); s != nil {
		text := native.GoString(blob)
		s.dispatch("credentials_blob_updated", func() { s.onCredentialsBlobUpdated(text) })
	}
}

func connectionStateUpdatedTrampoline(_ purego.CDecl, sp uintptr) {
	if s := sessionFor(sp); s != nil {
		s.dispatch("connectionstate_updated", s.onConnectionStateUpdated)
	}
}

// void (*playlist_renamed)(sp_playlist *pl, void *userdata)
func playlistRenamedTrampoline(_ purego.CDecl, pl, userdata uintptr) {
	dispatchPlaylist(userdata, pl, func(r *playlistRegistration) {
		if r.cb.Renamed != nil {
			r.cb.Renamed(r.view)
		}
	})
}

func playlistStateChangedTrampoline(_ purego.CDecl, pl, userdata uintptr) {
	dispatchPlaylist(userdata, pl, func(r *playlistRegistration) {
		if r.cb.StateChanged != nil {
			r.cb.StateChanged(r.view)
		}
	})
}

// void (*playlist_update_in_progress)(sp_playlist *pl, bool done, void *userdata)
func playlistUpdateInProgressTrampoline(_ purego.CDecl, pl uintptr, done bool, userdata uintptr) {
	dispatchPlaylist(userdata, pl, func(r *playlistRegistration) {
		if r.cb.UpdateInProgress != nil {
			r.cb.UpdateInProgress(r.view, done)
		}
	})
}

func playlistMetadataUpdatedTrampoline(_ purego.CDecl, pl, userdata uintptr) {
	dispatchPlaylist(userdata, pl, func(r *playlistRegistration) {
		if r.cb.MetadataUpdated != nil {
			r.cb.MetadataUpdated(r.view)
		}
	})
}
