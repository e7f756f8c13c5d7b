//go:build !ios && !android && (amd64 || arm64)

package bindings

import "unsafe"

// Symbols is the table of libspotify entry points used by spgo. Each field
// is tagged with the native symbol it binds to; Bind resolves them and the
// gateway wraps the whole table so every call goes through the call lock.
//
// Opaque libspotify pointers are passed as uintptr. sp_error results are
// int32.
type Symbols struct {
	// Session
	SessionCreate          func(config unsafe.Pointer, session *uintptr) int32                                 `sym:"sp_session_create"`
	SessionRelease         func(session uintptr) int32                                                         `sym:"sp_session_release"`
	SessionLogin           func(session uintptr, username, password string, rememberMe bool, blob *byte) int32 `sym:"sp_session_login"`
	SessionRelogin         func(session uintptr) int32                                                         `sym:"sp_session_relogin"`
	SessionLogout          func(session uintptr) int32                                                         `sym:"sp_session_logout"`
	SessionProcessEvents   func(session uintptr, nextTimeout *int32) int32                                     `sym:"sp_session_process_events"`
	SessionConnectionState func(session uintptr) int32                                                         `sym:"sp_session_connectionstate"`
	SessionUserName        func(session uintptr) string                                                        `sym:"sp_session_user_name"`

	// Link
	LinkCreateFromString         func(uri string) uintptr                           `sym:"sp_link_create_from_string"`
	LinkCreateFromArtist         func(artist uintptr) uintptr                       `sym:"sp_link_create_from_artist"`
	LinkCreateFromArtistPortrait func(artist uintptr, size int32) uintptr           `sym:"sp_link_create_from_artist_portrait"`
	LinkCreateFromAlbum          func(album uintptr) uintptr                        `sym:"sp_link_create_from_album"`
	LinkCreateFromTrack          func(track uintptr, offset int32) uintptr          `sym:"sp_link_create_from_track"`
	LinkCreateFromPlaylist       func(playlist uintptr) uintptr                     `sym:"sp_link_create_from_playlist"`
	LinkAsString                 func(link uintptr, buffer *byte, size int32) int32 `sym:"sp_link_as_string"`
	LinkType                     func(link uintptr) int32                           `sym:"sp_link_type"`
	LinkAsArtist                 func(link uintptr) uintptr                         `sym:"sp_link_as_artist"`
	LinkAsAlbum                  func(link uintptr) uintptr                         `sym:"sp_link_as_album"`
	LinkAsTrack                  func(link uintptr) uintptr                         `sym:"sp_link_as_track"`
	LinkAddRef                   func(link uintptr) int32                           `sym:"sp_link_add_ref"`
	LinkRelease                  func(link uintptr) int32                           `sym:"sp_link_release"`

	// Artist
	ArtistName     func(artist uintptr) string              `sym:"sp_artist_name"`
	ArtistIsLoaded func(artist uintptr) bool                `sym:"sp_artist_is_loaded"`
	ArtistPortrait func(artist uintptr, size int32) uintptr `sym:"sp_artist_portrait"`
	ArtistAddRef   func(artist uintptr) int32               `sym:"sp_artist_add_ref"`
	ArtistRelease  func(artist uintptr) int32               `sym:"sp_artist_release"`

	// Artist browse
	ArtistBrowseCreate                 func(session, artist uintptr, browseType int32, callback, userdata uintptr) uintptr `sym:"sp_artistbrowse_create"`
	ArtistBrowseIsLoaded               func(browse uintptr) bool                                                           `sym:"sp_artistbrowse_is_loaded"`
	ArtistBrowseError                  func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_error"`
	ArtistBrowseArtist                 func(browse uintptr) uintptr                                                        `sym:"sp_artistbrowse_artist"`
	ArtistBrowseNumTracks              func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_num_tracks"`
	ArtistBrowseTrack                  func(browse uintptr, index int32) uintptr                                           `sym:"sp_artistbrowse_track"`
	ArtistBrowseNumAlbums              func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_num_albums"`
	ArtistBrowseAlbum                  func(browse uintptr, index int32) uintptr                                           `sym:"sp_artistbrowse_album"`
	ArtistBrowseBiography              func(browse uintptr) string                                                         `sym:"sp_artistbrowse_biography"`
	ArtistBrowseNumTopHitTracks        func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_num_tophit_tracks"`
	ArtistBrowseTopHitTrack            func(browse uintptr, index int32) uintptr                                           `sym:"sp_artistbrowse_tophit_track"`
	ArtistBrowseNumSimilarArtists      func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_num_similar_artists"`
	ArtistBrowseSimilarArtist          func(browse uintptr, index int32) uintptr                                           `sym:"sp_artistbrowse_similar_artist"`
	ArtistBrowseNumPortraits           func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_num_portraits"`
	ArtistBrowsePortrait               func(browse uintptr, index int32) uintptr                                           `sym:"sp_artistbrowse_portrait"`
	ArtistBrowseBackendRequestDuration func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_backend_request_duration,optional"`
	ArtistBrowseAddRef                 func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_add_ref"`
	ArtistBrowseRelease                func(browse uintptr) int32                                                          `sym:"sp_artistbrowse_release"`

	// Album
	AlbumIsLoaded    func(album uintptr) bool                `sym:"sp_album_is_loaded"`
	AlbumIsAvailable func(album uintptr) bool                `sym:"sp_album_is_available"`
	AlbumArtist      func(album uintptr) uintptr             `sym:"sp_album_artist"`
	AlbumCover       func(album uintptr, size int32) uintptr `sym:"sp_album_cover"`
	AlbumName        func(album uintptr) string              `sym:"sp_album_name"`
	AlbumYear        func(album uintptr) int32               `sym:"sp_album_year"`
	AlbumType        func(album uintptr) int32               `sym:"sp_album_type"`
	AlbumAddRef      func(album uintptr) int32               `sym:"sp_album_add_ref"`
	AlbumRelease     func(album uintptr) int32               `sym:"sp_album_release"`

	// Album browse
	AlbumBrowseCreate        func(session, album, callback, userdata uintptr) uintptr `sym:"sp_albumbrowse_create"`
	AlbumBrowseIsLoaded      func(browse uintptr) bool                                `sym:"sp_albumbrowse_is_loaded"`
	AlbumBrowseError         func(browse uintptr) int32                               `sym:"sp_albumbrowse_error"`
	AlbumBrowseAlbum         func(browse uintptr) uintptr                             `sym:"sp_albumbrowse_album"`
	AlbumBrowseArtist        func(browse uintptr) uintptr                             `sym:"sp_albumbrowse_artist"`
	AlbumBrowseNumTracks     func(browse uintptr) int32                               `sym:"sp_albumbrowse_num_tracks"`
	AlbumBrowseTrack         func(browse uintptr, index int32) uintptr                `sym:"sp_albumbrowse_track"`
	AlbumBrowseNumCopyrights func(browse uintptr) int32                               `sym:"sp_albumbrowse_num_copyrights"`
	AlbumBrowseCopyright     func(browse uintptr, index int32) string                 `sym:"sp_albumbrowse_copyright"`
	AlbumBrowseReview        func(browse uintptr) string                              `sym:"sp_albumbrowse_review"`
	AlbumBrowseAddRef        func(browse uintptr) int32                               `sym:"sp_albumbrowse_add_ref"`
	AlbumBrowseRelease       func(browse uintptr) int32                               `sym:"sp_albumbrowse_release"`

	// Track
	TrackIsLoaded   func(track uintptr) bool                 `sym:"sp_track_is_loaded"`
	TrackError      func(track uintptr) int32                `sym:"sp_track_error"`
	TrackName       func(track uintptr) string               `sym:"sp_track_name"`
	TrackDuration   func(track uintptr) int32                `sym:"sp_track_duration"`
	TrackPopularity func(track uintptr) int32                `sym:"sp_track_popularity"`
	TrackDisc       func(track uintptr) int32                `sym:"sp_track_disc"`
	TrackIndex      func(track uintptr) int32                `sym:"sp_track_index"`
	TrackNumArtists func(track uintptr) int32                `sym:"sp_track_num_artists"`
	TrackArtist     func(track uintptr, index int32) uintptr `sym:"sp_track_artist"`
	TrackAlbum      func(track uintptr) uintptr              `sym:"sp_track_album"`
	TrackAddRef     func(track uintptr) int32                `sym:"sp_track_add_ref"`
	TrackRelease    func(track uintptr) int32                `sym:"sp_track_release"`

	// Image
	ImageCreate             func(session, imageID uintptr) uintptr        `sym:"sp_image_create"`
	ImageCreateFromLink     func(session, link uintptr) uintptr           `sym:"sp_image_create_from_link"`
	ImageAddLoadCallback    func(image, callback, userdata uintptr) int32 `sym:"sp_image_add_load_callback"`
	ImageRemoveLoadCallback func(image, callback, userdata uintptr) int32 `sym:"sp_image_remove_load_callback"`
	ImageIsLoaded           func(image uintptr) bool                      `sym:"sp_image_is_loaded"`
	ImageError              func(image uintptr) int32                     `sym:"sp_image_error"`
	ImageFormat             func(image uintptr) int32                     `sym:"sp_image_format"`
	ImageData               func(image uintptr, size *uintptr) uintptr    `sym:"sp_image_data"`
	ImageAddRef             func(image uintptr) int32                     `sym:"sp_image_add_ref"`
	ImageRelease            func(image uintptr) int32                     `sym:"sp_image_release"`

	// Playlist
	PlaylistCreate          func(session, link uintptr) uintptr                                      `sym:"sp_playlist_create"`
	PlaylistIsLoaded        func(playlist uintptr) bool                                              `sym:"sp_playlist_is_loaded"`
	PlaylistName            func(playlist uintptr) string                                            `sym:"sp_playlist_name"`
	PlaylistNumTracks       func(playlist uintptr) int32                                             `sym:"sp_playlist_num_tracks"`
	PlaylistTrack           func(playlist uintptr, index int32) uintptr                              `sym:"sp_playlist_track"`
	PlaylistAddCallbacks    func(playlist uintptr, callbacks unsafe.Pointer, userdata uintptr) int32 `sym:"sp_playlist_add_callbacks"`
	PlaylistRemoveCallbacks func(playlist uintptr, callbacks unsafe.Pointer, userdata uintptr) int32 `sym:"sp_playlist_remove_callbacks"`
	PlaylistAddRef          func(playlist uintptr) int32                                             `sym:"sp_playlist_add_ref"`
	PlaylistRelease         func(playlist uintptr) int32                                             `sym:"sp_playlist_release"`
}
