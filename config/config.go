// Package config holds the settings for a libspotify session and for the
// binding itself.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Config represents the complete configuration.
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// LibraryConfig controls how libspotify is loaded and driven.
type LibraryConfig struct {
	// Path to the libspotify shared library. Empty searches the platform paths.
	Path string `mapstructure:"path"`

	// LoadTimeout is the default timeout for Load calls.
	LoadTimeout time.Duration `mapstructure:"load_timeout"`

	// PollInterval is the sleep between readiness checks while loading.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// EventLoop starts a goroutine that pumps sp_session_process_events.
	EventLoop bool `mapstructure:"event_loop"`
}

// SessionConfig mirrors libspotify's sp_session_config.
type SessionConfig struct {
	APIVersion                   int    `mapstructure:"api_version"`
	CacheLocation                string `mapstructure:"cache_location"`
	SettingsLocation             string `mapstructure:"settings_location"`
	ApplicationKeyFile           string `mapstructure:"application_key_file"`
	UserAgent                    string `mapstructure:"user_agent"`
	CompressPlaylists            bool   `mapstructure:"compress_playlists"`
	DontSaveMetadataForPlaylists bool   `mapstructure:"dont_save_metadata_for_playlists"`
	InitiallyUnloadPlaylists     bool   `mapstructure:"initially_unload_playlists"`
	DeviceID                     string `mapstructure:"device_id"`
	Proxy                        string `mapstructure:"proxy"`
	ProxyUsername                string `mapstructure:"proxy_username"`
	ProxyPassword                string `mapstructure:"proxy_password"`
	CACertsFilename              string `mapstructure:"ca_certs_filename"`
	TraceFile                    string `mapstructure:"tracefile"`

	// ApplicationKey is read from ApplicationKeyFile by Load, or set directly.
	ApplicationKey []byte `mapstructure:"-"`
}

// LogConfig controls the default logger.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// APIVersion is the libspotify API version this binding targets.
const APIVersion = 12

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			LoadTimeout:  10 * time.Second,
			PollInterval: 10 * time.Millisecond,
			EventLoop:    true,
		},
		Session: SessionConfig{
			APIVersion:         APIVersion,
			CacheLocation:      "tmp",
			SettingsLocation:   "tmp",
			ApplicationKeyFile: "spotify_appkey.key",
			UserAgent:          "spgo",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration can be used to create a session.
func (c *Config) Validate() error {
	var err error
	if c.Session.APIVersion <= 0 {
		err = multierr.Append(err, fmt.Errorf("session.api_version must be positive, got %d", c.Session.APIVersion))
	}
	if c.Library.PollInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("library.poll_interval must be positive, got %s", c.Library.PollInterval))
	}
	if c.Library.LoadTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("library.load_timeout must not be negative, got %s", c.Library.LoadTimeout))
	}
	if _, lerr := c.Log.level(); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

// ReadApplicationKey loads ApplicationKey from ApplicationKeyFile. A missing
// file is not an error; libspotify reports the absent key on session create.
func (s *SessionConfig) ReadApplicationKey() error {
	if len(s.ApplicationKey) > 0 || s.ApplicationKeyFile == "" {
		return nil
	}
	key, err := os.ReadFile(s.ApplicationKeyFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading application key: %w", err)
	}
	s.ApplicationKey = key
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Log.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
