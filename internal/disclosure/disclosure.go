// Package disclosure implements the open/close state machine shared by the page's dropdown widgets.
//
// A Controller owns one widget: a toggle control and a collapsible body, optionally holding a
// navigable option list. Controllers registered in the same Group are mutually exclusive; the
// group also routes the page-wide dismissal triggers (Escape, outside pointer gestures).
package disclosure

import (
	"strings"
	"time"
)

// State is the logical state of a widget
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Visual tracks the presentation side of a close transition. It never feeds back into State.
type Visual int

const (
	Hidden Visual = iota
	Shown
	Hiding
)

// Region identifies a part of the page. Regions nest by path: "search/menu/option-2" lies within "search/menu".
type Region string

// Within reports whether r is parent or nested below it
func (r Region) Within(parent Region) bool {
	if r == "" || parent == "" {
		return false
	}
	return r == parent || strings.HasPrefix(string(r), string(parent)+"/")
}

// Child returns the region nested under r
func (r Region) Child(name string) Region {
	return Region(string(r) + "/" + name)
}

// NavPolicy decides what arrow keys do at the ends of an option list
type NavPolicy int

const (
	// NavWrap moves from the last option to the first and back. It is the default.
	NavWrap NavPolicy = iota
	// NavClamp stops at the first and last option.
	NavClamp
)

// ParseNavPolicy reads "wrap" or "clamp"
func ParseNavPolicy(value string) (NavPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "wrap":
		return NavWrap, true
	case "clamp":
		return NavClamp, true
	default:
		return NavWrap, false
	}
}

func (p NavPolicy) String() string {
	if p == NavClamp {
		return "clamp"
	}
	return "wrap"
}

// Key names understood by the keyboard handlers
const (
	KeyUp     = "up"
	KeyDown   = "down"
	KeyEnter  = "enter"
	KeySpace  = "space"
	KeyEscape = "esc"
)

// Focuser moves keyboard focus to a region
type Focuser interface {
	Focus(region Region)
}

// Scheduler runs fn once after d on the UI thread
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ListSource is the option list inside a list-type widget
type ListSource interface {
	Len() int
	// Selected returns the committed selection, or -1.
	Selected() int
	// Commit makes index the new selection and reports whether it was accepted.
	Commit(index int) bool
	OptionRegion(index int) Region
}

// Options configures a Controller
type Options struct {
	ID     string
	Toggle Region
	Body   Region

	Policy NavPolicy
	// Transition is the close animation length; zero hides immediately.
	Transition time.Duration
	// HideFallback bounds how long a closing widget may stay in Hiding. Defaults to Transition plus 100ms.
	HideFallback time.Duration

	List      ListSource
	Focus     Focuser
	Scheduler Scheduler

	OnOpen  func()
	OnClose func()
}
