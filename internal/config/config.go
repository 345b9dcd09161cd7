// Package config handles configuration loading and validation for startpage
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/kv"
	"github.com/iiroan/startpage/internal/prefs"
)

// Config represents the main configuration for startpage
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Search      SearchConfig      `yaml:"search"`
	Appearance  AppearanceConfig  `yaml:"appearance"`
	Opener      OpenerConfig      `yaml:"opener"`

	// Links are the tiles shown below the search box
	Links []Link `yaml:"links"`
}

// StorageConfig selects the preference store backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite or memory
	Path    string `yaml:"path"`    // empty uses the per-user default
	Watch   bool   `yaml:"watch"`   // pick up changes made by other instances
}

// PreferencesConfig holds the settings record keys, bounds and defaults
type PreferencesConfig struct {
	Key           string      `yaml:"key"`
	LegacyKey     string      `yaml:"legacy_key"`
	Width         prefs.Range `yaml:"width"`
	Height        prefs.Range `yaml:"height"`
	DefaultWidth  int         `yaml:"default_width"`
	DefaultHeight int         `yaml:"default_height"`
	DefaultTheme  string      `yaml:"default_theme"`
	Step          int         `yaml:"step"`
}

// SearchConfig holds the search-engine picker settings
type SearchConfig struct {
	Key       string          `yaml:"key"`
	NavPolicy string          `yaml:"nav_policy"` // wrap or clamp
	Engines   []engine.Engine `yaml:"engines"`
}

// AppearanceConfig holds rendering settings
type AppearanceConfig struct {
	Palette    string `yaml:"palette"`
	Transition string `yaml:"transition"` // dropdown close animation, e.g. "150ms"
	// CellWidth and CellHeight are the pixel sizes of one terminal cell used to size tiles
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// OpenerConfig overrides how URLs are opened
type OpenerConfig struct {
	Command string   `yaml:"command"`        // empty uses the system browser
	Args    []string `yaml:"args,omitempty"` // "{url}" is replaced, otherwise the URL is appended
	Timeout string   `yaml:"timeout"`
}

// Link is one tile on the page
type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	defaults := prefs.DefaultOptions()
	return &Config{
		Storage: StorageConfig{
			Backend: kv.BackendFile,
			Watch:   true,
		},
		Preferences: PreferencesConfig{
			Key:           defaults.Key,
			LegacyKey:     defaults.LegacyKey,
			Width:         defaults.Width,
			Height:        defaults.Height,
			DefaultWidth:  defaults.Defaults.IconWidth,
			DefaultHeight: defaults.Defaults.IconHeight,
			DefaultTheme:  string(defaults.Defaults.Theme),
			Step:          4,
		},
		Search: SearchConfig{
			Key:       engine.DefaultKey,
			NavPolicy: disclosure.NavWrap.String(),
			Engines:   engine.Defaults(),
		},
		Appearance: AppearanceConfig{
			Palette:    "aurora",
			Transition: "150ms",
			CellWidth:  8,
			CellHeight: 16,
		},
		Opener: OpenerConfig{
			Timeout: "10s",
		},
		Links: []Link{
			{Name: "GitHub", URL: "https://github.com"},
			{Name: "Go Packages", URL: "https://pkg.go.dev"},
			{Name: "Go Blog", URL: "https://go.dev/blog"},
			{Name: "Stack Overflow", URL: "https://stackoverflow.com"},
			{Name: "Hacker News", URL: "https://news.ycombinator.com"},
			{Name: "Wikipedia", URL: "https://www.wikipedia.org"},
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q is not one of file, sqlite, memory", c.Storage.Backend)
	}

	p := c.Preferences
	if strings.TrimSpace(p.Key) == "" {
		return fmt.Errorf("preferences.key is required")
	}
	if p.Width.Min <= 0 || p.Width.Min > p.Width.Max {
		return fmt.Errorf("preferences.width: invalid range %d..%d", p.Width.Min, p.Width.Max)
	}
	if p.Height.Min <= 0 || p.Height.Min > p.Height.Max {
		return fmt.Errorf("preferences.height: invalid range %d..%d", p.Height.Min, p.Height.Max)
	}
	if _, ok := prefs.ParseTheme(p.DefaultTheme); !ok {
		return fmt.Errorf("preferences.default_theme %q is not one of light, dark, system", p.DefaultTheme)
	}

	if strings.TrimSpace(c.Search.Key) == "" {
		return fmt.Errorf("search.key is required")
	}
	if _, ok := disclosure.ParseNavPolicy(c.Search.NavPolicy); !ok {
		return fmt.Errorf("search.nav_policy %q is not one of wrap, clamp", c.Search.NavPolicy)
	}
	if len(c.Search.Engines) == 0 {
		return fmt.Errorf("search.engines must not be empty")
	}
	for i, e := range c.Search.Engines {
		if !e.Valid() {
			return fmt.Errorf("search.engines[%d]: name and url are required", i)
		}
	}

	if _, err := parseDuration(c.Appearance.Transition); err != nil {
		return fmt.Errorf("appearance.transition: %w", err)
	}
	if _, err := parseDuration(c.Opener.Timeout); err != nil {
		return fmt.Errorf("opener.timeout: %w", err)
	}
	return nil
}

// PrefsOptions converts the preference section for the preference store.
// Defaults outside their range are clamped.
func (c *Config) PrefsOptions() prefs.Options {
	p := c.Preferences
	theme, ok := prefs.ParseTheme(p.DefaultTheme)
	if !ok {
		theme = prefs.ThemeSystem
	}
	return prefs.Options{
		Key:       p.Key,
		LegacyKey: p.LegacyKey,
		Width:     p.Width,
		Height:    p.Height,
		Defaults: prefs.Settings{
			Theme:      theme,
			IconWidth:  p.Width.Clamp(float64(p.DefaultWidth)),
			IconHeight: p.Height.Clamp(float64(p.DefaultHeight)),
		},
	}
}

// NavPolicy returns the configured keyboard policy, wrap when unset or unknown
func (c *Config) NavPolicy() disclosure.NavPolicy {
	policy, _ := disclosure.ParseNavPolicy(c.Search.NavPolicy)
	return policy
}

// Transition returns the dropdown close animation length
func (c *Config) Transition() time.Duration {
	d, _ := parseDuration(c.Appearance.Transition)
	return d
}

// OpenerTimeout returns how long a custom opener may run
func (c *Config) OpenerTimeout() time.Duration {
	d, _ := parseDuration(c.Opener.Timeout)
	return d
}

// StoragePath returns the configured store path, or the per-user default for the backend
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path), nil
	}
	return kv.DefaultPath(c.Storage.Backend)
}

// GetConfigPath returns the default config file location
func GetConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "startpage", "config.yaml"), nil
}

// ListEngineNames returns the configured engine names
func (c *Config) ListEngineNames() []string {
	names := make([]string, len(c.Search.Engines))
	for i, e := range c.Search.Engines {
		names[i] = e.Name
	}
	return names
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", value)
	}
	return d, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
