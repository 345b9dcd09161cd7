package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/theme"
)

// Root is the rendered page state the controllers write into. The view reads it back.
//
// It implements theme.Surface, theme.Indicator, dimension.Properties, dimension.Display,
// dimension.Input, engine.View, disclosure.Focuser and disclosure.Scheduler.
type Root struct {
	dark  bool
	props map[string]string

	outputs [2]string
	inputs  [2]int

	options     []engine.Option
	toggleLabel string
	toggleIcon  string
	placeholder string

	themePref     prefs.Theme
	themeResolved theme.Mode

	focus   disclosure.Region
	onFocus func(disclosure.Region)

	timers    map[int]func()
	nextTimer int
	scheduled []scheduledTimer
}

type scheduledTimer struct {
	id    int
	delay time.Duration
}

// NewRoot returns an empty page root.
func NewRoot() *Root {
	return &Root{
		props:  map[string]string{},
		timers: map[int]func(){},
	}
}

// SetDark sets the root dark flag.
func (r *Root) SetDark(dark bool) { r.dark = dark }

// Dark reports the root dark flag.
func (r *Root) Dark() bool { return r.dark }

// SetProperty writes a custom property.
func (r *Root) SetProperty(name, value string) { r.props[name] = value }

// Property returns a custom property.
func (r *Root) Property(name string) string { return r.props[name] }

// PixelProperty reads a "<n>px" property, or fallback.
func (r *Root) PixelProperty(name string, fallback int) int {
	v := strings.TrimSuffix(r.props[name], "px")
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// SetOutput sets the value label next to a slider.
func (r *Root) SetOutput(axis dimension.Axis, text string) { r.outputs[axis] = text }

// Output returns the value label of a slider.
func (r *Root) Output(axis dimension.Axis) string { return r.outputs[axis] }

// SetInputValue writes a value back into a slider.
func (r *Root) SetInputValue(axis dimension.Axis, value int) { r.inputs[axis] = value }

// InputValue returns a slider position.
func (r *Root) InputValue(axis dimension.Axis) int { return r.inputs[axis] }

// RenderOptions replaces the engine option list.
func (r *Root) RenderOptions(options []engine.Option) { r.options = options }

// Options returns the engine option list.
func (r *Root) Options() []engine.Option { return r.options }

// SetToggle updates the engine toggle.
func (r *Root) SetToggle(label, icon string) {
	r.toggleLabel = label
	r.toggleIcon = icon
}

// SetPlaceholder updates the search input placeholder.
func (r *Root) SetPlaceholder(text string) { r.placeholder = text }

// Placeholder returns the search input placeholder.
func (r *Root) Placeholder() string { return r.placeholder }

// SyncTheme mirrors the theme state into the pressed buttons and the state label.
func (r *Root) SyncTheme(pref prefs.Theme, resolved theme.Mode) {
	r.themePref = pref
	r.themeResolved = resolved
}

// Pressed reports whether the button for pref is pressed.
func (r *Root) Pressed(pref prefs.Theme) bool { return r.themePref == pref }

// ThemeLabel returns the textual theme state.
func (r *Root) ThemeLabel() string {
	return theme.StateLabel(r.themePref, r.themeResolved)
}

// Focus moves keyboard focus.
func (r *Root) Focus(region disclosure.Region) {
	if region == "" {
		return
	}
	r.focus = region
	if r.onFocus != nil {
		r.onFocus(region)
	}
}

// Focused returns the region holding focus.
func (r *Root) Focused() disclosure.Region { return r.focus }

// After registers fn to run once after d. The page turns registrations into tea ticks.
func (r *Root) After(d time.Duration, fn func()) {
	r.nextTimer++
	r.timers[r.nextTimer] = fn
	r.scheduled = append(r.scheduled, scheduledTimer{id: r.nextTimer, delay: d})
}

func (r *Root) drainScheduled() []scheduledTimer {
	out := r.scheduled
	r.scheduled = nil
	return out
}

func (r *Root) fire(id int) {
	fn, ok := r.timers[id]
	if !ok {
		return
	}
	delete(r.timers, id)
	fn()
}
