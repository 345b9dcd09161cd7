package disclosure

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeList struct {
	n        int
	selected int
	commits  []int
}

func (l *fakeList) Len() int      { return l.n }
func (l *fakeList) Selected() int { return l.selected }
func (l *fakeList) Commit(i int) bool {
	if i < 0 || i >= l.n {
		return false
	}
	l.selected = i
	l.commits = append(l.commits, i)
	return true
}
func (l *fakeList) OptionRegion(i int) Region {
	return Region(fmt.Sprintf("search/menu/option-%d", i))
}

type fakeFocus struct{ last Region }

func (f *fakeFocus) Focus(r Region) { f.last = r }

type fakeScheduler struct {
	pending []func()
	delays  []time.Duration
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, fn)
}

func (s *fakeScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type fixture struct {
	group    *Group
	settings *Controller
	search   *Controller
	list     *fakeList
	focus    *fakeFocus
}

func newFixture(policy NavPolicy) *fixture {
	f := &fixture{
		group: NewGroup(),
		list:  &fakeList{n: 6, selected: 2},
		focus: &fakeFocus{},
	}
	f.settings = New(f.group, Options{
		ID:     "settings",
		Toggle: "settings/toggle",
		Body:   "settings/panel",
		Focus:  f.focus,
	})
	f.search = New(f.group, Options{
		ID:     "search",
		Toggle: "search/toggle",
		Body:   "search/menu",
		Policy: policy,
		List:   f.list,
		Focus:  f.focus,
	})
	return f
}

func TestOpenCloseToggle(t *testing.T) {
	f := newFixture(NavWrap)

	f.settings.Open()
	assert.True(t, f.settings.IsOpen())
	assert.Equal(t, Shown, f.settings.Visual())

	f.settings.Open()
	assert.True(t, f.settings.IsOpen(), "open is idempotent")

	f.settings.Toggle()
	assert.False(t, f.settings.IsOpen())
	assert.Equal(t, Hidden, f.settings.Visual())

	f.settings.Close()
	assert.Equal(t, Closed, f.settings.State(), "close is idempotent")
}

func TestExclusivity(t *testing.T) {
	f := newFixture(NavWrap)

	f.search.Open()
	f.settings.Open()
	assert.True(t, f.settings.IsOpen())
	assert.False(t, f.search.IsOpen())
	assert.Same(t, f.settings, f.group.Active())

	f.search.Toggle()
	assert.True(t, f.search.IsOpen())
	assert.False(t, f.settings.IsOpen())

	open := 0
	for _, m := range f.group.Members() {
		if m.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestOpenFocusesSelectedOption(t *testing.T) {
	f := newFixture(NavWrap)

	f.search.Open()
	assert.Equal(t, 2, f.search.Focused())
	assert.Equal(t, Region("search/menu/option-2"), f.focus.last)
	active, ok := f.search.ActiveDescendant()
	require.True(t, ok)
	assert.Equal(t, Region("search/menu/option-2"), active)

	f.search.Close()
	_, ok = f.search.ActiveDescendant()
	assert.False(t, ok, "close clears the active descendant")
	assert.Equal(t, -1, f.search.Focused())

	f.list.selected = -1
	f.search.Open()
	assert.Equal(t, 0, f.search.Focused(), "no selection focuses the first option")
}

func TestKeyboardWrap(t *testing.T) {
	f := newFixture(NavWrap)
	f.list.selected = 5
	f.search.Open()

	f.search.HandleListKey(KeyDown)
	assert.Equal(t, 0, f.search.Focused())

	f.search.HandleListKey(KeyUp)
	assert.Equal(t, 5, f.search.Focused())
}

func TestKeyboardClamp(t *testing.T) {
	f := newFixture(NavClamp)
	f.list.selected = 5
	f.search.Open()

	f.search.HandleListKey(KeyDown)
	assert.Equal(t, 5, f.search.Focused())

	f.search.FocusOption(0)
	f.search.HandleListKey(KeyUp)
	assert.Equal(t, 0, f.search.Focused())
}

func TestCommitClosesAndRefocusesToggle(t *testing.T) {
	f := newFixture(NavWrap)
	f.search.Open()
	f.search.HandleListKey(KeyDown)

	assert.True(t, f.search.HandleListKey(KeyEnter))
	assert.Equal(t, []int{3}, f.list.commits)
	assert.False(t, f.search.IsOpen())
	assert.Equal(t, Region("search/toggle"), f.focus.last)

	f.search.Open()
	f.search.HandleListKey(KeySpace)
	assert.Equal(t, []int{3, 3}, f.list.commits)
}

func TestClosedWidgetCommitsNothing(t *testing.T) {
	f := newFixture(NavWrap)

	assert.False(t, f.search.CommitOption(1))

	f.search.Open()
	f.search.Close()
	assert.False(t, f.search.CommitOption(1))
	assert.Empty(t, f.list.commits)
}

func TestToggleKeys(t *testing.T) {
	f := newFixture(NavWrap)

	assert.True(t, f.search.HandleToggleKey(KeyDown))
	assert.True(t, f.search.IsOpen())

	assert.True(t, f.search.HandleToggleKey(KeyEnter))
	assert.False(t, f.search.IsOpen())

	assert.True(t, f.search.HandleToggleKey(KeySpace))
	assert.True(t, f.search.IsOpen())

	assert.True(t, f.search.HandleToggleKey(KeyEscape))
	assert.False(t, f.search.IsOpen())
	assert.False(t, f.search.HandleToggleKey(KeyEscape))
}

func TestEscape(t *testing.T) {
	f := newFixture(NavWrap)
	assert.False(t, f.group.Escape())

	f.settings.Open()
	assert.True(t, f.group.Escape())
	assert.False(t, f.settings.IsOpen())
	assert.Equal(t, Region("settings/toggle"), f.focus.last)
}

func TestPointerDismissal(t *testing.T) {
	t.Run("outside gesture closes", func(t *testing.T) {
		f := newFixture(NavWrap)
		f.search.Open()

		f.group.PointerDown("page/tiles")
		origin := f.group.PointerUp("page/tiles")
		assert.Equal(t, Region("page/tiles"), origin)
		assert.False(t, f.search.IsOpen())
	})

	t.Run("inside gesture keeps open", func(t *testing.T) {
		f := newFixture(NavWrap)
		f.settings.Open()

		f.group.PointerDown("settings/panel/theme-dark")
		f.group.PointerUp("settings/panel/theme-dark")
		assert.True(t, f.settings.IsOpen())
	})

	t.Run("drag from inside to outside is attributed to the start", func(t *testing.T) {
		f := newFixture(NavWrap)
		f.settings.Open()

		f.group.PointerDown("settings/panel/width")
		origin := f.group.PointerUp("page/search-input")
		assert.Equal(t, Region("settings/panel/width"), origin)
		assert.True(t, f.settings.IsOpen())
	})

	t.Run("drag from outside to inside still closes", func(t *testing.T) {
		f := newFixture(NavWrap)
		f.settings.Open()

		f.group.PointerDown("page")
		f.group.PointerUp("settings/panel")
		assert.False(t, f.settings.IsOpen())
	})

	t.Run("toggle counts as inside", func(t *testing.T) {
		f := newFixture(NavWrap)
		f.search.Open()

		f.group.PointerDown("search/toggle/icon")
		f.group.PointerUp("search/toggle/icon")
		assert.True(t, f.search.IsOpen())
	})
}

func TestTransitionBookkeeping(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(nil, Options{
		ID:         "menu",
		Toggle:     "menu/toggle",
		Body:       "menu/body",
		Transition: 150 * time.Millisecond,
		Scheduler:  sched,
	})

	c.Open()
	c.Close()
	assert.Equal(t, Closed, c.State())
	assert.Equal(t, Hiding, c.Visual())
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, sched.delays)

	c.TransitionEnd()
	assert.Equal(t, Hidden, c.Visual())

	sched.fire()
	assert.Equal(t, Hidden, c.Visual(), "late fallback is harmless")

	c.Open()
	c.Close()
	c.Open()
	sched.fire()
	assert.Equal(t, Shown, c.Visual(), "fallback from an earlier close never hides a reopened widget")
	assert.True(t, c.IsOpen())

	c.Close()
	sched.fire()
	assert.Equal(t, Hidden, c.Visual(), "fallback finishes a hide whose transition end never came")
}

func TestMissingElementsAreNoOps(t *testing.T) {
	var nilCtrl *Controller
	assert.NotPanics(t, func() {
		nilCtrl.Open()
		nilCtrl.Close()
		nilCtrl.Toggle()
		nilCtrl.HandleListKey(KeyDown)
		nilCtrl.TransitionEnd()
	})
	assert.False(t, nilCtrl.IsOpen())

	group := NewGroup()
	bodyless := New(group, Options{ID: "broken", Toggle: "x/toggle"})
	bodyless.Open()
	assert.False(t, bodyless.IsOpen())
	assert.False(t, bodyless.Available())
	assert.Nil(t, group.Active())
}

func TestRegionWithin(t *testing.T) {
	assert.True(t, Region("a/b/c").Within("a/b"))
	assert.True(t, Region("a/b").Within("a/b"))
	assert.False(t, Region("a/bc").Within("a/b"))
	assert.False(t, Region("").Within("a"))
	assert.Equal(t, Region("a/b"), Region("a").Child("b"))
}

func TestParseNavPolicy(t *testing.T) {
	p, ok := ParseNavPolicy("Clamp")
	assert.True(t, ok)
	assert.Equal(t, NavClamp, p)

	p, ok = ParseNavPolicy("")
	assert.True(t, ok)
	assert.Equal(t, NavWrap, p)

	_, ok = ParseNavPolicy("bounce")
	assert.False(t, ok)
}
