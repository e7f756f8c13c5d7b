package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. SPGO_LIBRARY_PATH or SPGO_SESSION_CACHE_LOCATION.
const EnvPrefix = "SPGO"

// Load reads configuration from path (TOML). With an empty path it looks for
// spgo.toml in the working directory and in $HOME/.config/spgo, and falls
// back to defaults if none exists. Environment variables override the file.
// The application key file is read, and the result validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("spgo")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/spgo")
	}

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Session.ReadApplicationKey(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("library.path", d.Library.Path)
	v.SetDefault("library.load_timeout", d.Library.LoadTimeout)
	v.SetDefault("library.poll_interval", d.Library.PollInterval)
	v.SetDefault("library.event_loop", d.Library.EventLoop)

	v.SetDefault("session.api_version", d.Session.APIVersion)
	v.SetDefault("session.cache_location", d.Session.CacheLocation)
	v.SetDefault("session.settings_location", d.Session.SettingsLocation)
	v.SetDefault("session.application_key_file", d.Session.ApplicationKeyFile)
	v.SetDefault("session.user_agent", d.Session.UserAgent)
	v.SetDefault("session.compress_playlists", d.Session.CompressPlaylists)
	v.SetDefault("session.dont_save_metadata_for_playlists", d.Session.DontSaveMetadataForPlaylists)
	v.SetDefault("session.initially_unload_playlists", d.Session.InitiallyUnloadPlaylists)
	v.SetDefault("session.device_id", d.Session.DeviceID)
	v.SetDefault("session.proxy", d.Session.Proxy)
	v.SetDefault("session.proxy_username", d.Session.ProxyUsername)
	v.SetDefault("session.proxy_password", d.Session.ProxyPassword)
	v.SetDefault("session.ca_certs_filename", d.Session.CACertsFilename)
	v.SetDefault("session.tracefile", d.Session.TraceFile)

	v.SetDefault("log.level", d.Log.Level)
}
