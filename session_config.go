//go:build !ios && !android && (amd64 || arm64)

package spgo

// sessionCallbacks matches sp_session_callbacks. Unset entries are NULL,
// which libspotify treats as "not interested".
type sessionCallbacks struct {
	loggedIn                  uintptr
	loggedOut                 uintptr
	metadataUpdated           uintptr
	connectionError           uintptr
	messageToUser             uintptr
	notifyMainThread          uintptr
	musicDelivery             uintptr
	playTokenLost             uintptr
	logMessage                uintptr
	endOfTrack                uintptr
	streamingError            uintptr
	userinfoUpdated           uintptr
	startPlayback             uintptr
	stopPlayback              uintptr
	getAudioBufferStats       uintptr
	offlineStatusUpdated      uintptr
	offlineError              uintptr
	credentialsBlobUpdated    uintptr
	connectionstateUpdated    uintptr
	scrobbleError             uintptr
	privateSessionModeChanged uintptr
}

// playlistCallbacks matches sp_playlist_callbacks.
type playlistCallbacks struct {
	tracksAdded              uintptr
	tracksRemoved            uintptr
	tracksMoved              uintptr
	playlistRenamed          uintptr
	playlistStateChanged     uintptr
	playlistUpdateInProgress uintptr
	playlistMetadataUpdated  uintptr
	trackCreatedChanged      uintptr
	trackSeenChanged         uintptr
	descriptionChanged       uintptr
	imageChanged             uintptr
	trackMessageChanged      uintptr
	subscribersChanged       uintptr
}
