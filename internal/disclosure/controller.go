package disclosure

import "time"

// Controller is one disclosure widget.
// A nil Controller, or one without toggle and body regions, ignores every call.
type Controller struct {
	opts  Options
	group *Group

	state   State
	visual  Visual
	focused int
	active  int
	hideGen int
}

// New creates a controller and registers it in group. group may be nil for a standalone widget.
func New(group *Group, opts Options) *Controller {
	if opts.HideFallback <= 0 && opts.Transition > 0 {
		opts.HideFallback = opts.Transition + 100*time.Millisecond
	}
	c := &Controller{
		opts:    opts,
		group:   group,
		state:   Closed,
		visual:  Hidden,
		focused: -1,
		active:  -1,
	}
	if group != nil {
		group.add(c)
	}
	return c
}

// Available reports whether the widget has the elements it needs
func (c *Controller) Available() bool {
	return c != nil && c.opts.Toggle != "" && c.opts.Body != ""
}

// ID returns the widget identifier
func (c *Controller) ID() string {
	if c == nil {
		return ""
	}
	return c.opts.ID
}

// ToggleRegion returns the region of the toggle control
func (c *Controller) ToggleRegion() Region {
	if c == nil {
		return ""
	}
	return c.opts.Toggle
}

// BodyRegion returns the region of the collapsible body
func (c *Controller) BodyRegion() Region {
	if c == nil {
		return ""
	}
	return c.opts.Body
}

// State returns the logical state
func (c *Controller) State() State {
	if c == nil {
		return Closed
	}
	return c.state
}

// IsOpen reports whether the widget is open. It doubles as the toggle's expanded flag.
func (c *Controller) IsOpen() bool { return c.State() == Open }

// Visual returns the presentation state
func (c *Controller) Visual() Visual {
	if c == nil {
		return Hidden
	}
	return c.visual
}

// Policy returns the keyboard wrap policy
func (c *Controller) Policy() NavPolicy {
	if c == nil {
		return NavWrap
	}
	return c.opts.Policy
}

// Contains reports whether target lies inside the widget body or its toggle
func (c *Controller) Contains(target Region) bool {
	if !c.Available() {
		return false
	}
	return target.Within(c.opts.Body) || target.Within(c.opts.Toggle)
}

// Focused returns the option holding roving focus, or -1
func (c *Controller) Focused() int {
	if c == nil {
		return -1
	}
	return c.focused
}

// ActiveDescendant returns the option region linked as active descendant, if any
func (c *Controller) ActiveDescendant() (Region, bool) {
	if !c.Available() || c.opts.List == nil || c.active < 0 {
		return "", false
	}
	return c.opts.List.OptionRegion(c.active), true
}

// Open reveals the widget after closing every other member of its group
func (c *Controller) Open() {
	if !c.Available() || c.state == Open {
		return
	}
	if c.group != nil {
		c.group.closeOthers(c)
	}

	c.state = Open
	c.visual = Shown
	c.hideGen++

	if list := c.opts.List; list != nil && list.Len() > 0 {
		target := list.Selected()
		if target < 0 || target >= list.Len() {
			target = 0
		}
		c.focusOption(target)
	}

	if c.opts.OnOpen != nil {
		c.opts.OnOpen()
	}
}

// Close hides the widget and clears the active descendant. Focus is left where it is.
func (c *Controller) Close() {
	if !c.Available() || c.state == Closed {
		return
	}
	c.state = Closed
	c.focused = -1
	c.active = -1

	c.hideGen++
	if c.opts.Transition > 0 && c.opts.Scheduler != nil {
		c.visual = Hiding
		gen := c.hideGen
		c.opts.Scheduler.After(c.opts.HideFallback, func() { c.finishHide(gen) })
	} else {
		c.visual = Hidden
	}

	if c.opts.OnClose != nil {
		c.opts.OnClose()
	}
}

// Dismiss closes the widget and returns focus to its toggle
func (c *Controller) Dismiss() {
	if !c.Available() || c.state == Closed {
		return
	}
	c.Close()
	c.focus(c.opts.Toggle)
}

// Toggle opens a closed widget and closes an open one
func (c *Controller) Toggle() {
	if c.IsOpen() {
		c.Close()
		return
	}
	c.Open()
}

// TransitionEnd finishes a pending hide when the close animation reports completion
func (c *Controller) TransitionEnd() {
	if c == nil {
		return
	}
	c.finishHide(c.hideGen)
}

func (c *Controller) finishHide(gen int) {
	if gen != c.hideGen || c.state != Closed || c.visual != Hiding {
		return
	}
	c.visual = Hidden
}

// HandleToggleKey handles a key pressed while the toggle has focus
func (c *Controller) HandleToggleKey(key string) bool {
	if !c.Available() {
		return false
	}
	switch key {
	case KeyDown, KeyUp:
		if !c.IsOpen() {
			c.Open()
			return true
		}
		if list := c.opts.List; list != nil && list.Len() > 0 {
			target := list.Selected()
			if target < 0 || target >= list.Len() {
				target = 0
			}
			c.focusOption(target)
		}
		return true
	case KeyEnter, KeySpace:
		c.Toggle()
		return true
	case KeyEscape:
		if c.IsOpen() {
			c.Dismiss()
			return true
		}
	}
	return false
}

// HandleListKey handles a key pressed while focus is inside an open list widget
func (c *Controller) HandleListKey(key string) bool {
	if !c.Available() || !c.IsOpen() {
		return false
	}
	switch key {
	case KeyEscape:
		c.Dismiss()
		return true
	}

	list := c.opts.List
	if list == nil || list.Len() == 0 {
		return false
	}
	switch key {
	case KeyDown:
		c.move(1)
		return true
	case KeyUp:
		c.move(-1)
		return true
	case KeyEnter, KeySpace:
		index := c.focused
		if index < 0 {
			index = list.Selected()
		}
		c.CommitOption(index)
		return true
	}
	return false
}

// CommitOption commits index as the selection; on success the widget closes and the toggle regains focus.
// A closed widget commits nothing.
func (c *Controller) CommitOption(index int) bool {
	if !c.Available() || !c.IsOpen() || c.opts.List == nil {
		return false
	}
	if !c.opts.List.Commit(index) {
		return false
	}
	c.Close()
	c.focus(c.opts.Toggle)
	return true
}

// FocusOption moves roving focus to index, clamped into the list
func (c *Controller) FocusOption(index int) {
	if !c.Available() || !c.IsOpen() || c.opts.List == nil {
		return
	}
	n := c.opts.List.Len()
	if n == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	c.focusOption(index)
}

func (c *Controller) move(delta int) {
	n := c.opts.List.Len()
	current := c.focused
	if current < 0 {
		current = c.opts.List.Selected()
		if current < 0 || current >= n {
			current = 0
		}
		c.focusOption(current)
		return
	}

	next := current + delta
	switch c.opts.Policy {
	case NavClamp:
		if next < 0 {
			next = 0
		}
		if next >= n {
			next = n - 1
		}
	default:
		next = ((next % n) + n) % n
	}
	c.focusOption(next)
}

func (c *Controller) focusOption(index int) {
	c.focused = index
	c.active = index
	c.focus(c.opts.List.OptionRegion(index))
}

func (c *Controller) focus(region Region) {
	if c.opts.Focus != nil && region != "" {
		c.opts.Focus.Focus(region)
	}
}
