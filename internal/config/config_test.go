package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/prefs"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, disclosure.NavWrap, cfg.NavPolicy())
	assert.Equal(t, 150*time.Millisecond, cfg.Transition())
	assert.Len(t, cfg.ListEngineNames(), 6)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: sqlite
preferences:
  width: {min: 48, max: 120}
  default_theme: dark
search:
  nav_policy: clamp
  engines:
    - name: DuckDuckGo
      url: https://duckduckgo.com/?q=
      icon: images/ddg.png
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, disclosure.NavClamp, cfg.NavPolicy())
	assert.Equal(t, []string{"DuckDuckGo"}, cfg.ListEngineNames())
	assert.Equal(t, "images/ddg.png", cfg.Search.Engines[0].Icon)
	assert.Equal(t, "startpage:settings", cfg.Preferences.Key, "untouched keys keep their default")

	opts := cfg.PrefsOptions()
	assert.Equal(t, prefs.Range{Min: 48, Max: 120}, opts.Width)
	assert.Equal(t, prefs.ThemeDark, opts.Defaults.Theme)
	assert.Equal(t, 48, opts.Defaults.IconWidth)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Appearance.Palette = "ember"

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"empty key", func(c *Config) { c.Preferences.Key = " " }, "preferences.key"},
		{"inverted range", func(c *Config) { c.Preferences.Height = prefs.Range{Min: 90, Max: 40} }, "preferences.height"},
		{"zero min", func(c *Config) { c.Preferences.Width.Min = 0 }, "preferences.width"},
		{"bad theme", func(c *Config) { c.Preferences.DefaultTheme = "sepia" }, "default_theme"},
		{"bad policy", func(c *Config) { c.Search.NavPolicy = "bounce" }, "nav_policy"},
		{"no engines", func(c *Config) { c.Search.Engines = nil }, "must not be empty"},
		{"engine without url", func(c *Config) { c.Search.Engines[1].URL = "" }, "search.engines[1]"},
		{"bad transition", func(c *Config) { c.Appearance.Transition = "soon" }, "appearance.transition"},
		{"negative timeout", func(c *Config) { c.Opener.Timeout = "-1s" }, "opener.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/tmp/custom.json"
	path, err := cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", path)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Storage.Path = "~/prefs.db"
	path, err = cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "prefs.db"), path)
}
