// Package settings is the display-settings dropdown: theme choice and icon size
package settings

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/theme"
)

// Control is one focusable control inside the panel, in tab order
type Control int

const (
	ThemeLight Control = iota
	ThemeDark
	ThemeSystem
	WidthSlider
	HeightSlider
	CloseButton
)

// Controls lists every control in tab order
var Controls = []Control{ThemeLight, ThemeDark, ThemeSystem, WidthSlider, HeightSlider, CloseButton}

func (c Control) String() string {
	switch c {
	case ThemeLight:
		return "theme-light"
	case ThemeDark:
		return "theme-dark"
	case ThemeSystem:
		return "theme-system"
	case WidthSlider:
		return "icon-width"
	case HeightSlider:
		return "icon-height"
	case CloseButton:
		return "close"
	default:
		return "unknown"
	}
}

// Theme returns the preference a theme button selects
func (c Control) Theme() (prefs.Theme, bool) {
	switch c {
	case ThemeLight:
		return prefs.ThemeLight, true
	case ThemeDark:
		return prefs.ThemeDark, true
	case ThemeSystem:
		return prefs.ThemeSystem, true
	}
	return "", false
}

// Axis returns the dimension a slider drives
func (c Control) Axis() (dimension.Axis, bool) {
	switch c {
	case WidthSlider:
		return dimension.Width, true
	case HeightSlider:
		return dimension.Height, true
	}
	return 0, false
}

// DefaultStep is the slider nudge for one arrow key press
const DefaultStep = 4

// Options wires a Panel
type Options struct {
	Toggle disclosure.Region
	Body   disclosure.Region

	Transition time.Duration
	Scheduler  disclosure.Scheduler
	Focus      disclosure.Focuser

	Signal     theme.Signal
	Properties dimension.Properties
	Display    dimension.Display
	Input      dimension.Input

	// Step is the slider increment; zero uses DefaultStep.
	Step   int
	Logger *log.Logger
}

// Panel composes the theme and dimension controllers behind a disclosure widget
type Panel struct {
	store  *prefs.Store
	opts   Options
	logger *log.Logger

	current prefs.Settings
	theme   *theme.Controller
	dims    *dimension.Controller
	widget  *disclosure.Controller

	focused Control
	pending bool
}

// New loads the stored settings, applies them and registers the panel in group
func New(store *prefs.Store, group *disclosure.Group, opts Options) *Panel {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	p := &Panel{store: store, opts: opts, logger: logger}

	prefOpts := prefs.DefaultOptions()
	if store != nil {
		p.current = store.Load()
		prefOpts = store.Options()
	} else {
		p.current = prefOpts.Defaults
	}

	p.theme = theme.NewController(p.current.Theme, opts.Signal, p.persistTheme)
	p.dims = dimension.New(prefOpts.Width, prefOpts.Height, p.current.IconWidth, p.current.IconHeight, dimension.Options{
		Properties: opts.Properties,
		Display:    opts.Display,
		Input:      opts.Input,
		Commit:     p.persistDimensions,
	})
	p.widget = disclosure.New(group, disclosure.Options{
		ID:         "settings",
		Toggle:     opts.Toggle,
		Body:       opts.Body,
		Transition: opts.Transition,
		Scheduler:  opts.Scheduler,
		Focus:      opts.Focus,
		OnOpen:     p.onOpen,
		OnClose:    p.onClose,
	})
	return p
}

// Widget returns the panel's disclosure controller
func (p *Panel) Widget() *disclosure.Controller { return p.widget }

// Theme returns the theme controller
func (p *Panel) Theme() *theme.Controller { return p.theme }

// Dimensions returns the dimension controller
func (p *Panel) Dimensions() *dimension.Controller { return p.dims }

// Settings returns the in-memory settings as last applied
func (p *Panel) Settings() prefs.Settings {
	s := p.current
	s.Theme = p.theme.Preference()
	s.IconWidth = p.dims.Value(dimension.Width)
	s.IconHeight = p.dims.Value(dimension.Height)
	return s
}

// Focused returns the control holding focus while the panel is open
func (p *Panel) Focused() Control { return p.focused }

// Pending reports whether a slider moved without being committed yet
func (p *Panel) Pending() bool { return p.pending }

// Region returns the region of a control
func (p *Panel) Region(c Control) disclosure.Region {
	if p.opts.Body == "" {
		return ""
	}
	return p.opts.Body.Child(c.String())
}

// ControlAt maps a region inside the panel back to its control
func (p *Panel) ControlAt(target disclosure.Region) (Control, bool) {
	for _, c := range Controls {
		if target.Within(p.Region(c)) {
			return c, true
		}
	}
	return 0, false
}

// FocusControl moves focus to c, committing a slider that focus leaves
func (p *Panel) FocusControl(c Control) {
	if !p.widget.IsOpen() {
		return
	}
	if c != p.focused {
		p.commitPending()
	}
	p.focused = c
	if p.opts.Focus != nil {
		if region := p.Region(c); region != "" {
			p.opts.Focus.Focus(region)
		}
	}
}

// Activate performs the action of c: select a theme, commit a slider, or close the panel
func (p *Panel) Activate(c Control) {
	if pref, ok := c.Theme(); ok {
		p.theme.SetPreference(pref)
		return
	}
	if _, ok := c.Axis(); ok {
		p.commitPending()
		return
	}
	if c == CloseButton {
		p.widget.Dismiss()
	}
}

// ToggleTheme flips between explicit light and dark, like a dark-mode checkbox
func (p *Panel) ToggleTheme() {
	p.theme.Toggle()
}

// SliderInput is a live slider event: applied everywhere but not persisted
func (p *Panel) SliderInput(axis dimension.Axis, raw float64) int {
	p.pending = true
	return p.dims.Set(axis, raw, false)
}

// SliderChange is the terminal slider event that persists
func (p *Panel) SliderChange(axis dimension.Axis, raw float64) int {
	p.pending = false
	return p.dims.Set(axis, raw, true)
}

// HandleKey handles a key pressed while focus is inside the open panel
func (p *Panel) HandleKey(key string) bool {
	if !p.widget.IsOpen() {
		return false
	}
	switch key {
	case disclosure.KeyEscape:
		p.widget.Dismiss()
		return true
	case "tab", disclosure.KeyDown:
		p.FocusControl(p.shift(1))
		return true
	case "shift+tab", disclosure.KeyUp:
		p.FocusControl(p.shift(-1))
		return true
	case "left", "right":
		delta := p.opts.Step
		if key == "left" {
			delta = -delta
		}
		if axis, ok := p.focused.Axis(); ok {
			p.pending = true
			p.dims.Step(axis, delta, false)
			return true
		}
		if _, ok := p.focused.Theme(); ok {
			p.FocusControl(p.shiftTheme(delta))
			return true
		}
		return false
	case disclosure.KeyEnter, disclosure.KeySpace:
		p.Activate(p.focused)
		return true
	}
	return false
}

// Reload adopts settings another process wrote to the store
func (p *Panel) Reload() {
	if p.store == nil {
		return
	}
	p.current = p.store.Load()
	p.theme.Reload(p.current.Theme)
	p.dims.Set(dimension.Width, float64(p.current.IconWidth), false)
	p.dims.Set(dimension.Height, float64(p.current.IconHeight), false)
	p.pending = false
}

func (p *Panel) shift(delta int) Control {
	n := len(Controls)
	return Control(((int(p.focused)+delta)%n + n) % n)
}

func (p *Panel) shiftTheme(delta int) Control {
	if delta > 0 {
		delta = 1
	} else {
		delta = -1
	}
	return Control(((int(p.focused)+delta)%3 + 3) % 3)
}

func (p *Panel) commitPending() {
	if !p.pending {
		return
	}
	p.pending = false
	p.dims.Commit()
}

func (p *Panel) onOpen() {
	p.focused = ThemeSystem
	switch p.theme.Preference() {
	case prefs.ThemeLight:
		p.focused = ThemeLight
	case prefs.ThemeDark:
		p.focused = ThemeDark
	}
	if p.opts.Focus != nil {
		if region := p.Region(p.focused); region != "" {
			p.opts.Focus.Focus(region)
		}
	}
}

func (p *Panel) onClose() {
	p.commitPending()
}

func (p *Panel) persistTheme(pref prefs.Theme) {
	p.current.Theme = pref
	p.save()
}

func (p *Panel) persistDimensions(width, height int) {
	p.current.IconWidth = width
	p.current.IconHeight = height
	p.save()
}

func (p *Panel) save() {
	if p.store == nil {
		return
	}
	p.store.Save(p.Settings())
	p.logger.Debug("settings saved", "theme", p.current.Theme, "width", p.current.IconWidth, "height", p.current.IconHeight)
}
