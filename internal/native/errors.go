package native

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle is returned when a handle is built from a null pointer.
	ErrInvalidHandle = errors.New("spgo: invalid native handle")

	// ErrTimeout is returned when a resource does not finish loading in time.
	ErrTimeout = errors.New("spgo: timed out waiting for resource to load")
)

// ErrorCode is a libspotify sp_error value.
type ErrorCode int32

// sp_error values from libspotify's api.h (API version 12).
const (
	ErrorOK                      ErrorCode = 0
	ErrorBadAPIVersion           ErrorCode = 1
	ErrorAPIInitializationFailed ErrorCode = 2
	ErrorTrackNotPlayable        ErrorCode = 3
	ErrorBadApplicationKey       ErrorCode = 5
	ErrorBadUsernameOrPassword   ErrorCode = 6
	ErrorUserBanned              ErrorCode = 7
	ErrorUnableToContactServer   ErrorCode = 8
	ErrorClientTooOld            ErrorCode = 9
	ErrorOtherPermanent          ErrorCode = 10
	ErrorBadUserAgent            ErrorCode = 11
	ErrorMissingCallback         ErrorCode = 12
	ErrorInvalidIndata           ErrorCode = 13
	ErrorIndexOutOfRange         ErrorCode = 14
	ErrorUserNeedsPremium        ErrorCode = 15
	ErrorOtherTransient          ErrorCode = 16
	ErrorIsLoading               ErrorCode = 17
	ErrorNoStreamAvailable       ErrorCode = 18
	ErrorPermissionDenied        ErrorCode = 19
	ErrorInboxIsFull             ErrorCode = 20
	ErrorNoCache                 ErrorCode = 21
	ErrorNoSuchUser              ErrorCode = 22
	ErrorNoCredentials           ErrorCode = 23
	ErrorNetworkDisabled         ErrorCode = 24
	ErrorInvalidDeviceID         ErrorCode = 25
	ErrorCantOpenTraceFile       ErrorCode = 26
	ErrorApplicationBanned       ErrorCode = 27
	ErrorOfflineTooManyTracks    ErrorCode = 31
	ErrorOfflineDiskCache        ErrorCode = 32
	ErrorOfflineExpired          ErrorCode = 33
	ErrorOfflineNotAllowed       ErrorCode = 34
	ErrorOfflineLicenseLost      ErrorCode = 35
	ErrorOfflineLicenseError     ErrorCode = 36
	ErrorLastfmAuthError         ErrorCode = 39
	ErrorInvalidArgument         ErrorCode = 40
	ErrorSystemFailure           ErrorCode = 41
)

var errorMessages = map[ErrorCode]string{
	ErrorOK:                      "no error",
	ErrorBadAPIVersion:           "the library version targeted does not match the one you claim you support",
	ErrorAPIInitializationFailed: "initialization of library failed - are cache locations etc. valid?",
	ErrorTrackNotPlayable:        "the track specified for playing cannot be played",
	ErrorBadApplicationKey:       "the application key is invalid",
	ErrorBadUsernameOrPassword:   "login failed because of bad username and/or password",
	ErrorUserBanned:              "the specified username is banned",
	ErrorUnableToContactServer:   "cannot connect to the Spotify backend system",
	ErrorClientTooOld:            "client is too old, library will need to be updated",
	ErrorOtherPermanent:          "some other error occurred, and it is permanent",
	ErrorBadUserAgent:            "the user agent string is invalid or too long",
	ErrorMissingCallback:         "no valid callback registered to handle events",
	ErrorInvalidIndata:           "input data was either missing or invalid",
	ErrorIndexOutOfRange:         "index out of range",
	ErrorUserNeedsPremium:        "the specified user needs a premium account",
	ErrorOtherTransient:          "a transient error occurred",
	ErrorIsLoading:               "the resource is currently loading",
	ErrorNoStreamAvailable:       "could not find any suitable stream to play",
	ErrorPermissionDenied:        "requested operation is not allowed",
	ErrorInboxIsFull:             "target inbox is full",
	ErrorNoCache:                 "cache is not enabled",
	ErrorNoSuchUser:              "requested user does not exist",
	ErrorNoCredentials:           "no credentials are stored",
	ErrorNetworkDisabled:         "network disabled",
	ErrorInvalidDeviceID:         "invalid device ID",
	ErrorCantOpenTraceFile:       "unable to open trace file",
	ErrorApplicationBanned:       "this application is no longer allowed to use the Spotify service",
	ErrorOfflineTooManyTracks:    "reached the device limit for number of tracks to download",
	ErrorOfflineDiskCache:        "disk cache is full so no more tracks can be downloaded to offline mode",
	ErrorOfflineExpired:          "offline key has expired, the user needs to go online again",
	ErrorOfflineNotAllowed:       "this user is not allowed to use offline mode",
	ErrorOfflineLicenseLost:      "the license for this device has been lost",
	ErrorOfflineLicenseError:     "the Spotify license server does not respond correctly",
	ErrorLastfmAuthError:         "a LastFM scrobble authentication error has occurred",
	ErrorInvalidArgument:         "an invalid argument was specified",
	ErrorSystemFailure:           "an operating system error",
}

// String returns the libspotify message for the code.
func (c ErrorCode) String() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error %d", int32(c))
}

// Error is a failure reported by a libspotify call, either directly as a
// return value or later through a resource's error field.
type Error struct {
	Code ErrorCode // Raw sp_error value
	Op   string    // Native function or operation that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("libspotify %s: %s (code %d)", e.Op, e.Code, int32(e.Code))
}

// NewError converts an sp_error return value into an error.
// Returns nil for SP_ERROR_OK.
func NewError(code int32, op string) error {
	if ErrorCode(code) == ErrorOK {
		return nil
	}
	return &Error{Code: ErrorCode(code), Op: op}
}

// LoadError converts a resource's error field into an error for the
// loadable protocol. SP_ERROR_IS_LOADING is not a failure: the resource is
// still on its way, so it maps to nil like SP_ERROR_OK.
func LoadError(code int32, op string) error {
	if ErrorCode(code) == ErrorIsLoading {
		return nil
	}
	return NewError(code, op)
}

// Code returns the sp_error code carried by err, or ErrorOK if err is not a
// libspotify error.
func Code(err error) ErrorCode {
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr.Code
	}
	return ErrorOK
}

// IsLoading reports whether err carries SP_ERROR_IS_LOADING.
func IsLoading(err error) bool {
	return Code(err) == ErrorIsLoading
}
