// Package theme resolves the effective light/dark mode from the stored preference and the system signal
package theme

import (
	"github.com/iiroan/startpage/internal/prefs"
)

// Mode is a resolved theme
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Dark reports whether m is the dark mode
func (m Mode) Dark() bool { return m == ModeDark }

// Signal is the live "system prefers dark" signal
type Signal interface {
	PrefersDark() bool
}

// Resolve returns an explicit preference verbatim and otherwise consults sig.
// A nil signal resolves to light.
func Resolve(pref prefs.Theme, sig Signal) Mode {
	switch pref {
	case prefs.ThemeDark:
		return ModeDark
	case prefs.ThemeLight:
		return ModeLight
	}
	if sig != nil && sig.PrefersDark() {
		return ModeDark
	}
	return ModeLight
}

// StateLabel describes the preference and, when following the system, what it resolved to
func StateLabel(pref prefs.Theme, resolved Mode) string {
	switch pref {
	case prefs.ThemeDark:
		return "Current: dark mode"
	case prefs.ThemeLight:
		return "Current: light mode"
	}
	if resolved.Dark() {
		return "Current: follow system (dark)"
	}
	return "Current: follow system (light)"
}

// Glyph is the indicator shown on the settings toggle
func Glyph(resolved Mode) string {
	if resolved.Dark() {
		return "☾"
	}
	return "☀"
}
