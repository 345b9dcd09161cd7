package disclosure

// Group is the exclusivity registry: at most one member is open at a time.
// It also remembers where the current pointer gesture started.
type Group struct {
	members []*Controller

	pointerOrigin Region
	pointerDown   bool
}

// NewGroup returns an empty group
func NewGroup() *Group {
	return &Group{}
}

func (g *Group) add(c *Controller) {
	g.members = append(g.members, c)
}

// Members returns the registered controllers in registration order
func (g *Group) Members() []*Controller {
	out := make([]*Controller, len(g.members))
	copy(out, g.members)
	return out
}

// Active returns the open member, or nil
func (g *Group) Active() *Controller {
	for _, m := range g.members {
		if m.IsOpen() {
			return m
		}
	}
	return nil
}

func (g *Group) closeOthers(keep *Controller) {
	for _, m := range g.members {
		if m != keep {
			m.Close()
		}
	}
}

// Escape dismisses the open member and reports whether there was one
func (g *Group) Escape() bool {
	active := g.Active()
	if active == nil {
		return false
	}
	active.Dismiss()
	return true
}

// PointerDown records where a gesture started
func (g *Group) PointerDown(target Region) {
	g.pointerOrigin = target
	g.pointerDown = true
}

// PointerUp completes a gesture. The click is attributed to where the gesture started, so a
// drag that ends outside an open widget does not dismiss it. Open members that do not contain
// the origin are closed. The attributed target is returned for the host to dispatch.
func (g *Group) PointerUp(target Region) Region {
	origin := target
	if g.pointerDown {
		origin = g.pointerOrigin
	}
	g.pointerOrigin = ""
	g.pointerDown = false

	for _, m := range g.members {
		if m.IsOpen() && !m.Contains(origin) {
			m.Close()
		}
	}
	return origin
}
