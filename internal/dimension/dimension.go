// Package dimension applies the icon width and height preferences
package dimension

import (
	"math"
	"strconv"
	"strings"

	"github.com/iiroan/startpage/internal/prefs"
)

// Axis selects width or height
type Axis int

const (
	Width Axis = iota
	Height
)

func (a Axis) String() string {
	if a == Height {
		return "height"
	}
	return "width"
}

// Property is the custom property written for the axis
func (a Axis) Property() string {
	return "--icon-wrapper-" + a.String()
}

// Properties receives custom property writes on the page root
type Properties interface {
	SetProperty(name, value string)
}

// Display shows the applied value next to a control
type Display interface {
	SetOutput(axis Axis, text string)
}

// Input is the numeric control the value is written back into
type Input interface {
	SetInputValue(axis Axis, value int)
}

// Controller clamps and applies icon dimensions
type Controller struct {
	ranges [2]prefs.Range
	values [2]int

	props   Properties
	display Display
	input   Input
	commit  func(width, height int)
}

// Options wires the controller's collaborators. Every field may be left nil.
type Options struct {
	Properties Properties
	Display    Display
	Input      Input
	// Commit persists both values when a terminal change event arrives.
	Commit func(width, height int)
}

// New returns a controller with initial values, applying them once without persisting
func New(width, height prefs.Range, initialWidth, initialHeight int, opts Options) *Controller {
	c := &Controller{
		ranges:  [2]prefs.Range{width, height},
		props:   opts.Properties,
		display: opts.Display,
		input:   opts.Input,
		commit:  opts.Commit,
	}
	c.Set(Width, float64(initialWidth), false)
	c.Set(Height, float64(initialHeight), false)
	return c
}

// Range returns the bounds for axis
func (c *Controller) Range(axis Axis) prefs.Range { return c.ranges[axis] }

// Value returns the applied value for axis
func (c *Controller) Value(axis Axis) int { return c.values[axis] }

// Set clamps raw, applies it to every collaborator and persists when asked.
// Live input events pass persist=false; only the terminal change event persists.
func (c *Controller) Set(axis Axis, raw float64, persist bool) int {
	if axis != Width && axis != Height {
		return 0
	}
	clamped := c.ranges[axis].Clamp(raw)

	if c.props != nil {
		c.props.SetProperty(axis.Property(), strconv.Itoa(clamped)+"px")
	}
	if c.display != nil {
		c.display.SetOutput(axis, FormatPixels(clamped))
	}
	if c.input != nil {
		c.input.SetInputValue(axis, clamped)
	}

	c.values[axis] = clamped
	if persist && c.commit != nil {
		c.commit(c.values[Width], c.values[Height])
	}
	return clamped
}

// SetRaw coerces a textual control value; anything unparsable clamps to the minimum
func (c *Controller) SetRaw(axis Axis, raw string, persist bool) int {
	return c.Set(axis, ParseRaw(raw), persist)
}

// Step nudges axis by delta
func (c *Controller) Step(axis Axis, delta int, persist bool) int {
	return c.Set(axis, float64(c.values[axis]+delta), persist)
}

// Commit persists the current values, the change event that ends a drag
func (c *Controller) Commit() {
	if c.commit != nil {
		c.commit(c.values[Width], c.values[Height])
	}
}

// ParseRaw converts a control value to a number, NaN when it is not one
func ParseRaw(raw string) float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "px")
	n, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// FormatPixels renders the output text for a value
func FormatPixels(v int) string {
	return strconv.Itoa(v) + " px"
}

// Cells converts a pixel size to terminal cells for the given cell size, at least one
func Cells(px int, cellPx int) int {
	if cellPx <= 0 {
		return 1
	}
	n := int(math.Round(float64(px) / float64(cellPx)))
	if n < 1 {
		return 1
	}
	return n
}
