package theme

import (
	"github.com/iiroan/startpage/internal/prefs"
)

// Surface carries the single dark/not-dark flag of the page root
type Surface interface {
	SetDark(dark bool)
}

// Indicator mirrors the theme state into controls: pressed buttons, a checkbox, a text label
type Indicator interface {
	SyncTheme(pref prefs.Theme, resolved Mode)
}

// Controller owns the theme preference for a page
type Controller struct {
	pref       prefs.Theme
	signal     Signal
	surfaces   []Surface
	indicators []Indicator
	persist    func(prefs.Theme)
	resolved   Mode
}

// NewController returns a controller for the initial preference. persist may be nil.
func NewController(pref prefs.Theme, signal Signal, persist func(prefs.Theme)) *Controller {
	if _, ok := prefs.ParseTheme(string(pref)); !ok {
		pref = prefs.ThemeSystem
	}
	return &Controller{
		pref:     pref,
		signal:   signal,
		persist:  persist,
		resolved: Resolve(pref, signal),
	}
}

// Attach adds a surface and applies the current state to it
func (c *Controller) Attach(surface Surface) {
	if surface == nil {
		return
	}
	c.surfaces = append(c.surfaces, surface)
	surface.SetDark(c.resolved.Dark())
}

// AttachIndicator adds an indicator and syncs it
func (c *Controller) AttachIndicator(indicator Indicator) {
	if indicator == nil {
		return
	}
	c.indicators = append(c.indicators, indicator)
	indicator.SyncTheme(c.pref, c.resolved)
}

// Preference returns the stored preference
func (c *Controller) Preference() prefs.Theme { return c.pref }

// Resolved returns the mode most recently applied
func (c *Controller) Resolved() Mode { return c.resolved }

// Apply recomputes the mode from the preference and the current signal and pushes it out
func (c *Controller) Apply() Mode {
	return c.apply(c.pref)
}

func (c *Controller) apply(pref prefs.Theme) Mode {
	resolved := Resolve(pref, c.signal)
	for _, s := range c.surfaces {
		s.SetDark(resolved.Dark())
	}
	for _, ind := range c.indicators {
		ind.SyncTheme(pref, resolved)
	}
	c.resolved = resolved
	return resolved
}

// SetPreference applies an explicit user change, then records it, then persists it.
// Unknown values are ignored.
func (c *Controller) SetPreference(pref prefs.Theme) {
	if _, ok := prefs.ParseTheme(string(pref)); !ok {
		return
	}
	c.apply(pref)
	c.pref = pref
	if c.persist != nil {
		c.persist(pref)
	}
}

// Toggle flips the resolved mode into an explicit preference, like a dark-mode checkbox
func (c *Controller) Toggle() {
	if c.resolved.Dark() {
		c.SetPreference(prefs.ThemeLight)
		return
	}
	c.SetPreference(prefs.ThemeDark)
}

// SystemChanged re-resolves after the system signal changed.
// It never overrides an explicit preference.
func (c *Controller) SystemChanged() {
	if c.pref.Explicit() {
		return
	}
	c.apply(c.pref)
}

// Reload adopts a preference written elsewhere without persisting it again
func (c *Controller) Reload(pref prefs.Theme) {
	if _, ok := prefs.ParseTheme(string(pref)); !ok {
		return
	}
	c.pref = pref
	c.apply(pref)
}
