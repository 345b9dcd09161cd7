// Package prefs reads and writes the display preference record and owns the legacy theme migration
package prefs

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/iiroan/startpage/internal/kv"
)

// Theme is the stored theme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme accepts the three theme literals; the empty string reads as ThemeSystem
func ParseTheme(value string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light":
		return ThemeLight, true
	case "dark":
		return ThemeDark, true
	case "system", "":
		return ThemeSystem, true
	default:
		return ThemeSystem, false
	}
}

// Explicit reports whether the preference pins a mode instead of following the system
func (t Theme) Explicit() bool {
	return t == ThemeLight || t == ThemeDark
}

// Range is a closed integer interval
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Clamp rounds v and clamps it into the range. Non-finite values clamp to Min.
func (r Range) Clamp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return r.Min
	}
	n := math.Round(v)
	if n < float64(r.Min) {
		return r.Min
	}
	if n > float64(r.Max) {
		return r.Max
	}
	return int(n)
}

// Contains reports whether v lies in the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Settings is the preference record
type Settings struct {
	Theme      Theme
	IconWidth  int
	IconHeight int
}

// Options configures a Store
type Options struct {
	Key       string
	LegacyKey string
	Width     Range
	Height    Range
	Defaults  Settings
}

// DefaultOptions mirrors the stock page: 32-96 px icons, 48 px default
func DefaultOptions() Options {
	return Options{
		Key:       "startpage:settings",
		LegacyKey: "theme",
		Width:     Range{Min: 32, Max: 96},
		Height:    Range{Min: 32, Max: 96},
		Defaults:  Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48},
	}
}

// Store is a fail-soft typed view over a kv.Store.
// Nothing it does returns an error: read problems yield defaults, write problems are logged.
type Store struct {
	kv     kv.Store
	opts   Options
	logger *log.Logger
}

// New wraps store. A nil store behaves as permanently unavailable storage.
func New(store kv.Store, opts Options, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts.Defaults = normalize(opts.Defaults, opts, opts.Width.Min, opts.Height.Min)
	return &Store{kv: store, opts: opts, logger: logger}
}

// Options returns the store configuration
func (s *Store) Options() Options { return s.opts }

// Defaults returns the default record
func (s *Store) Defaults() Settings { return s.opts.Defaults }

// Normalize clamps every field into range and maps unknown themes to ThemeSystem
func (s *Store) Normalize(settings Settings) Settings {
	return normalize(settings, s.opts, s.opts.Defaults.IconWidth, s.opts.Defaults.IconHeight)
}

func normalize(settings Settings, opts Options, fallbackWidth, fallbackHeight int) Settings {
	theme, ok := ParseTheme(string(settings.Theme))
	if !ok {
		theme = ThemeSystem
	}
	width, height := settings.IconWidth, settings.IconHeight
	if width == 0 {
		width = fallbackWidth
	}
	if height == 0 {
		height = fallbackHeight
	}
	return Settings{
		Theme:      theme,
		IconWidth:  opts.Width.Clamp(float64(width)),
		IconHeight: opts.Height.Clamp(float64(height)),
	}
}

// record is the on-disk shape. Theme is omitted when the preference follows the system.
type record struct {
	Theme      string `json:"theme,omitempty"`
	IconWidth  int    `json:"iconWidth"`
	IconHeight int    `json:"iconHeight"`
}

// Load returns the stored record with every field validated on its own.
// A missing or invalid theme falls back to the legacy key, then to the default.
func (s *Store) Load() Settings {
	settings := s.opts.Defaults
	themeFound := false

	var fields map[string]json.RawMessage
	if s.LoadJSON(s.opts.Key, &fields) {
		if raw, ok := fields["theme"]; ok {
			var value string
			if err := json.Unmarshal(raw, &value); err == nil {
				if theme, valid := ParseTheme(value); valid && value != "" {
					settings.Theme = theme
					themeFound = true
				}
			}
		}
		if width, ok := finiteNumber(fields["iconWidth"]); ok {
			settings.IconWidth = s.opts.Width.Clamp(width)
		} else if _, present := fields["iconWidth"]; present {
			s.logger.Debug("discarding stored icon width", "raw", string(fields["iconWidth"]))
		}
		if height, ok := finiteNumber(fields["iconHeight"]); ok {
			settings.IconHeight = s.opts.Height.Clamp(height)
		} else if _, present := fields["iconHeight"]; present {
			s.logger.Debug("discarding stored icon height", "raw", string(fields["iconHeight"]))
		}
	}

	if !themeFound {
		if theme, ok := s.MigrateLegacy(); ok {
			settings.Theme = theme
		}
	}

	return settings
}

// MigrateLegacy reads the legacy bare-string theme. It never deletes the key;
// Save does that once the current-format record is safely written.
func (s *Store) MigrateLegacy() (Theme, bool) {
	if s.kv == nil || s.opts.LegacyKey == "" {
		return ThemeSystem, false
	}
	value, ok, err := s.kv.Get(s.opts.LegacyKey)
	if err != nil {
		s.logger.Warn("could not read legacy theme", "key", s.opts.LegacyKey, "error", err)
		return ThemeSystem, false
	}
	if !ok {
		return ThemeSystem, false
	}
	switch Theme(value) {
	case ThemeLight, ThemeDark:
		return Theme(value), true
	default:
		return ThemeSystem, false
	}
}

// Save normalizes and writes the record, then retires the legacy key
func (s *Store) Save(settings Settings) {
	settings = s.Normalize(settings)
	rec := record{IconWidth: settings.IconWidth, IconHeight: settings.IconHeight}
	if settings.Theme.Explicit() {
		rec.Theme = string(settings.Theme)
	}
	if !s.SaveJSON(s.opts.Key, rec) {
		return
	}
	s.dropLegacy()
}

func (s *Store) dropLegacy() {
	if s.opts.LegacyKey == "" {
		return
	}
	if _, ok, err := s.kv.Get(s.opts.LegacyKey); err != nil || !ok {
		return
	}
	if err := s.kv.Delete(s.opts.LegacyKey); err != nil {
		s.logger.Warn("could not remove legacy theme", "key", s.opts.LegacyKey, "error", err)
		return
	}
	s.logger.Debug("migrated legacy theme", "key", s.opts.LegacyKey)
}

// Reset removes the stored record
func (s *Store) Reset() {
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(s.opts.Key); err != nil {
		s.logger.Warn("could not reset preferences", "key", s.opts.Key, "error", err)
	}
}

// LoadJSON decodes the value under key into v. It reports false on any absence or failure.
func (s *Store) LoadJSON(key string, v any) bool {
	if s.kv == nil {
		return false
	}
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn("could not read preference", "key", key, "error", err)
		return false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("ignoring corrupt preference", "key", key, "error", err)
		return false
	}
	return true
}

// SaveJSON encodes v under key. It reports whether the write succeeded.
func (s *Store) SaveJSON(key string, v any) bool {
	if s.kv == nil {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("could not encode preference", "key", key, "error", err)
		return false
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		s.logger.Warn("could not persist preference", "key", key, "error", err)
		return false
	}
	return true
}

// Raw returns the stored string under key, for diagnostics
func (s *Store) Raw(key string) (string, bool) {
	if s.kv == nil {
		return "", false
	}
	value, ok, err := s.kv.Get(key)
	if err != nil {
		return "", false
	}
	return value, ok
}

func finiteNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
