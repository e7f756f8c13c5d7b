//go:build !ios && !android && (amd64 || arm64)

package spgo

import (
	"io"
	"os"
	"strings"
)

// logOutput is where the default session logger writes.
var logOutput io.Writer = os.Stderr

// LogCallback is called for each libspotify log message, with the trailing
// newline removed. It may run on any libspotify thread without the call
// lock held, and must not call back into spgo.
type LogCallback func(message string)

// SetLogCallback sets a handler for libspotify's log messages, in addition
// to the session logger which records them at debug level.
// Pass nil to remove the handler.
func (s *Session) SetLogCallback(cb LogCallback) {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	s.logCallback = cb
}

func (s *Session) onLogMessage(msg string) {
	msg = strings.TrimRight(msg, "\r\n")
	if msg == "" {
		return
	}
	s.log.Debug(msg, "source", "libspotify")

	s.logMu.Lock()
	cb := s.logCallback
	s.logMu.Unlock()

	if cb != nil {
		cb(msg)
	}
}
