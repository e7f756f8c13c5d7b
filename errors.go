//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"errors"

	"github.com/obinnaokechukwu/spgo/internal/native"
)

// Error is a libspotify sp_error other than SP_ERROR_OK, together with the
// operation that returned it.
type Error = native.Error

// ErrorCode is a libspotify sp_error value.
type ErrorCode = native.ErrorCode

// Common errors
var (
	// ErrSessionExists is returned by NewSession while another session is
	// open. libspotify supports one session per process.
	ErrSessionExists = errors.New("spgo: a session already exists")

	// ErrNotLoggedIn is returned by Load when the session is neither logged
	// in nor offline, so nothing could ever load.
	ErrNotLoggedIn = errors.New("spgo: session is not logged in or offline")

	// ErrClosed indicates the session or resource has been closed.
	ErrClosed = errors.New("spgo: resource is closed")

	// ErrInEventLoop is returned by Close and StopEventLoop when called
	// from the event loop goroutine, i.e. from a SessionEvents or
	// PlaylistCallbacks handler, which would wait for itself.
	ErrInEventLoop = errors.New("spgo: cannot stop the event loop from its own goroutine")

	// ErrInvalidURI indicates libspotify could not parse a Spotify URI.
	ErrInvalidURI = errors.New("spgo: invalid Spotify URI")

	// ErrWrongLinkType indicates a link refers to a different kind of object.
	ErrWrongLinkType = errors.New("spgo: link refers to a different object type")

	// ErrInvalidHandle indicates libspotify returned a null pointer.
	ErrInvalidHandle = native.ErrInvalidHandle

	// ErrTimeout indicates Load gave up before the resource loaded.
	ErrTimeout = native.ErrTimeout
)

// Error code constants re-exported from native
const (
	ErrorOK                    = native.ErrorOK
	ErrorBadAPIVersion         = native.ErrorBadAPIVersion
	ErrorBadApplicationKey     = native.ErrorBadApplicationKey
	ErrorBadUsernameOrPassword = native.ErrorBadUsernameOrPassword
	ErrorUnableToContactServer = native.ErrorUnableToContactServer
	ErrorIndexOutOfRange       = native.ErrorIndexOutOfRange
	ErrorOtherTransient        = native.ErrorOtherTransient
	ErrorIsLoading             = native.ErrorIsLoading
	ErrorNoCredentials         = native.ErrorNoCredentials
	ErrorInvalidArgument       = native.ErrorInvalidArgument
)

// Code returns the sp_error code carried by err, or ErrorOK if err is not a
// libspotify error.
func Code(err error) ErrorCode {
	return native.Code(err)
}

// IsLoading reports whether err is libspotify's "still loading" status.
func IsLoading(err error) bool {
	return native.IsLoading(err)
}
