package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, APIVersion, cfg.Session.APIVersion)
	assert.Equal(t, "tmp", cfg.Session.CacheLocation)
	assert.Equal(t, "tmp", cfg.Session.SettingsLocation)
	assert.Equal(t, "spotify_appkey.key", cfg.Session.ApplicationKeyFile)
	assert.Equal(t, 10*time.Second, cfg.Library.LoadTimeout)
	assert.True(t, cfg.Library.EventLoop)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "appkey.key", "\x01\x02\x03")
	path := writeFile(t, dir, "spgo.toml", `
[library]
path = "/opt/libspotify/lib/libspotify.so.12"
load_timeout = "3s"
poll_interval = "5ms"
event_loop = false

[session]
cache_location = "/var/cache/spgo"
user_agent = "spgo-test"
application_key_file = "`+key+`"
compress_playlists = true

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/libspotify/lib/libspotify.so.12", cfg.Library.Path)
	assert.Equal(t, 3*time.Second, cfg.Library.LoadTimeout)
	assert.Equal(t, 5*time.Millisecond, cfg.Library.PollInterval)
	assert.False(t, cfg.Library.EventLoop)
	assert.Equal(t, "/var/cache/spgo", cfg.Session.CacheLocation)
	assert.Equal(t, "tmp", cfg.Session.SettingsLocation, "unset keys keep defaults")
	assert.Equal(t, "spgo-test", cfg.Session.UserAgent)
	assert.True(t, cfg.Session.CompressPlaylists)
	assert.Equal(t, []byte{1, 2, 3}, cfg.Session.ApplicationKey)
	assert.Equal(t, APIVersion, cfg.Session.APIVersion)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "spgo.toml", "[session]\nuser_agent = \"from-file\"\n")

	t.Setenv("SPGO_SESSION_USER_AGENT", "from-env")
	t.Setenv("SPGO_LIBRARY_LOAD_TIMEOUT", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.UserAgent)
	assert.Equal(t, 250*time.Millisecond, cfg.Library.LoadTimeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Session, cfg.Session)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "spgo.toml", "[session]\napi_version = 0\n[log]\nlevel = \"loud\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_version")
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Library.PollInterval = 0
	cfg.Library.LoadTimeout = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_interval")
	assert.Contains(t, err.Error(), "load_timeout")
	assert.Len(t, multierr.Errors(err), 2)
}

func TestReadApplicationKeyMissingFileIsFine(t *testing.T) {
	s := DefaultConfig().Session
	s.ApplicationKeyFile = filepath.Join(t.TempDir(), "absent.key")

	require.NoError(t, s.ReadApplicationKey())
	assert.Empty(t, s.ApplicationKey)
}

func TestLoggerLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
