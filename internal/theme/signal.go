package theme

import (
	"sync"

	"github.com/muesli/termenv"
)

// Static is a fixed signal
type Static bool

func (s Static) PrefersDark() bool { return bool(s) }

// Live is a signal updated by the host, e.g. from terminal background color reports.
type Live struct {
	mu   sync.RWMutex
	dark bool
}

// NewLive returns a live signal with an initial value
func NewLive(dark bool) *Live {
	return &Live{dark: dark}
}

func (l *Live) PrefersDark() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dark
}

// Set stores a new value and reports whether it changed
func (l *Live) Set(dark bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := l.dark != dark
	l.dark = dark
	return changed
}

// Terminal queries the controlling terminal's background once per call
type Terminal struct{}

func (Terminal) PrefersDark() bool {
	return termenv.HasDarkBackground()
}
