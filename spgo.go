//go:build !ios && !android && (amd64 || arm64)

// Package spgo provides bindings to libspotify without CGO using purego.
//
// Every libspotify call made through spgo holds a single process-wide call
// lock, so the library is never entered from two goroutines at once.
// Asynchronous operations (browsing, image loading) report completion
// through Done channels and optional callbacks, and metadata objects can be
// waited on with Load.
//
// Start with NewSession, log in, and look things up by Spotify URI:
//
//	s, err := spgo.NewSession(cfg)
//	...
//	artist, err := s.Artist("spotify:artist:...")
//	err = artist.Load(0)
package spgo

import (
	"fmt"

	"github.com/obinnaokechukwu/spgo/config"
	"github.com/obinnaokechukwu/spgo/internal/bindings"
)

// APIVersion is the libspotify API version spgo is written against.
const APIVersion = config.APIVersion

// FindLibrary returns the path of the libspotify shared library that
// NewSession would load when no path is configured.
func FindLibrary() (string, error) {
	return bindings.FindLibrary()
}

// ConnectionState is the session's connection state.
type ConnectionState int32

const (
	ConnectionStateLoggedOut    ConnectionState = 0
	ConnectionStateLoggedIn     ConnectionState = 1
	ConnectionStateDisconnected ConnectionState = 2
	ConnectionStateUndefined    ConnectionState = 3
	ConnectionStateOffline      ConnectionState = 4
)

func (c ConnectionState) String() string {
	switch c {
	case ConnectionStateLoggedOut:
		return "logged out"
	case ConnectionStateLoggedIn:
		return "logged in"
	case ConnectionStateDisconnected:
		return "disconnected"
	case ConnectionStateUndefined:
		return "undefined"
	case ConnectionStateOffline:
		return "offline"
	default:
		return fmt.Sprintf("ConnectionState(%d)", int32(c))
	}
}

// LinkType is the kind of object a Spotify URI refers to.
type LinkType int32

const (
	LinkTypeInvalid    LinkType = 0
	LinkTypeTrack      LinkType = 1
	LinkTypeAlbum      LinkType = 2
	LinkTypeArtist     LinkType = 3
	LinkTypeSearch     LinkType = 4
	LinkTypePlaylist   LinkType = 5
	LinkTypeProfile    LinkType = 6
	LinkTypeStarred    LinkType = 7
	LinkTypeLocalTrack LinkType = 8
	LinkTypeImage      LinkType = 9
)

var linkTypeNames = map[LinkType]string{
	LinkTypeInvalid:    "invalid",
	LinkTypeTrack:      "track",
	LinkTypeAlbum:      "album",
	LinkTypeArtist:     "artist",
	LinkTypeSearch:     "search",
	LinkTypePlaylist:   "playlist",
	LinkTypeProfile:    "profile",
	LinkTypeStarred:    "starred",
	LinkTypeLocalTrack: "local track",
	LinkTypeImage:      "image",
}

func (t LinkType) String() string {
	if name, ok := linkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LinkType(%d)", int32(t))
}

// AlbumType classifies an album.
type AlbumType int32

const (
	AlbumTypeAlbum       AlbumType = 0
	AlbumTypeSingle      AlbumType = 1
	AlbumTypeCompilation AlbumType = 2
	AlbumTypeUnknown     AlbumType = 3
)

func (t AlbumType) String() string {
	switch t {
	case AlbumTypeAlbum:
		return "album"
	case AlbumTypeSingle:
		return "single"
	case AlbumTypeCompilation:
		return "compilation"
	default:
		return "unknown"
	}
}

// ArtistBrowseType selects how much an artist browse fetches.
type ArtistBrowseType int32

const (
	ArtistBrowseFull     ArtistBrowseType = 0
	ArtistBrowseNoTracks ArtistBrowseType = 1
	ArtistBrowseNoAlbums ArtistBrowseType = 2
)

// ImageSize selects the resolution of artist portraits and album covers.
type ImageSize int32

const (
	ImageSizeNormal ImageSize = 0 // 300x300
	ImageSizeSmall  ImageSize = 1 // 64x64
	ImageSizeLarge  ImageSize = 2 // 640x640
)

// ImageFormat is the encoding of an image's data.
type ImageFormat int32

const (
	ImageFormatUnknown ImageFormat = -1
	ImageFormatJPEG    ImageFormat = 0
)

func (f ImageFormat) String() string {
	if f == ImageFormatJPEG {
		return "jpeg"
	}
	return "unknown"
}
