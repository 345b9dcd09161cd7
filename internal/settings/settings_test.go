package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/kv"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/theme"
)

type fakeFocus struct{ last disclosure.Region }

func (f *fakeFocus) Focus(r disclosure.Region) { f.last = r }

type fakeRoot struct {
	dark  bool
	props map[string]string
}

func (r *fakeRoot) SetDark(dark bool)              { r.dark = dark }
func (r *fakeRoot) SetProperty(name, value string) { r.props[name] = value }

type fixture struct {
	mem   *kv.Memory
	store *prefs.Store
	group *disclosure.Group
	focus *fakeFocus
	root  *fakeRoot
	live  *theme.Live
	panel *Panel
}

func newFixture(t *testing.T, stored string) *fixture {
	t.Helper()
	f := &fixture{
		mem:   kv.NewMemory(),
		group: disclosure.NewGroup(),
		focus: &fakeFocus{},
		root:  &fakeRoot{props: map[string]string{}},
		live:  theme.NewLive(false),
	}
	if stored != "" {
		require.NoError(t, f.mem.Set(prefs.DefaultOptions().Key, stored))
	}
	f.store = prefs.New(f.mem, prefs.DefaultOptions(), nil)
	f.panel = New(f.store, f.group, Options{
		Toggle:     "settings/toggle",
		Body:       "settings/panel",
		Focus:      f.focus,
		Signal:     f.live,
		Properties: f.root,
	})
	f.panel.Theme().Attach(f.root)
	return f
}

func (f *fixture) stored(t *testing.T) string {
	t.Helper()
	raw, ok, err := f.mem.Get(prefs.DefaultOptions().Key)
	require.NoError(t, err)
	require.True(t, ok)
	return raw
}

func TestNewAppliesStoredSettings(t *testing.T) {
	f := newFixture(t, `{"theme":"dark","iconWidth":64,"iconHeight":40}`)

	assert.True(t, f.root.dark)
	assert.Equal(t, "64px", f.root.props["--icon-wrapper-width"])
	assert.Equal(t, "40px", f.root.props["--icon-wrapper-height"])
	_, ok, _ := f.mem.Get(prefs.DefaultOptions().Key)
	assert.True(t, ok)
}

func TestOpenFocusesCurrentThemeButton(t *testing.T) {
	f := newFixture(t, `{"theme":"light","iconWidth":48,"iconHeight":48}`)

	f.panel.Widget().Open()
	assert.Equal(t, ThemeLight, f.panel.Focused())
	assert.Equal(t, disclosure.Region("settings/panel/theme-light"), f.focus.last)
}

func TestThemeButtonsPersist(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()

	f.panel.Activate(ThemeDark)
	assert.True(t, f.root.dark)
	assert.JSONEq(t, `{"theme":"dark","iconWidth":48,"iconHeight":48}`, f.stored(t))

	f.panel.Activate(ThemeSystem)
	assert.False(t, f.root.dark, "system follows the light signal")
	assert.JSONEq(t, `{"iconWidth":48,"iconHeight":48}`, f.stored(t))

	f.live.Set(true)
	f.panel.Theme().SystemChanged()
	assert.True(t, f.root.dark)
}

func TestToggleTheme(t *testing.T) {
	f := newFixture(t, "")
	f.panel.ToggleTheme()
	assert.Equal(t, prefs.ThemeDark, f.panel.Theme().Preference())
	f.panel.ToggleTheme()
	assert.Equal(t, prefs.ThemeLight, f.panel.Theme().Preference())
}

func TestSliderInputDoesNotPersistUntilChange(t *testing.T) {
	f := newFixture(t, `{"iconWidth":48,"iconHeight":48}`)
	f.panel.Widget().Open()
	f.panel.FocusControl(WidthSlider)

	require.True(t, f.panel.HandleKey("right"))
	require.True(t, f.panel.HandleKey("right"))
	assert.Equal(t, "56px", f.root.props["--icon-wrapper-width"])
	assert.True(t, f.panel.Pending())
	assert.JSONEq(t, `{"iconWidth":48,"iconHeight":48}`, f.stored(t), "live input is not persisted")

	require.True(t, f.panel.HandleKey(disclosure.KeyEnter))
	assert.False(t, f.panel.Pending())
	assert.JSONEq(t, `{"iconWidth":56,"iconHeight":48}`, f.stored(t))
}

func TestLeavingSliderCommits(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()
	f.panel.FocusControl(HeightSlider)
	f.panel.HandleKey("left")

	f.panel.HandleKey("tab")
	assert.Equal(t, CloseButton, f.panel.Focused())
	assert.JSONEq(t, `{"iconWidth":48,"iconHeight":44}`, f.stored(t))
}

func TestClosingCommitsPendingSlider(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()
	f.panel.SliderInput(dimension.Width, 500)

	f.group.Escape()
	assert.False(t, f.panel.Widget().IsOpen())
	assert.Equal(t, disclosure.Region("settings/toggle"), f.focus.last)
	assert.JSONEq(t, `{"iconWidth":96,"iconHeight":48}`, f.stored(t))
}

func TestSliderChangeClamps(t *testing.T) {
	f := newFixture(t, "")
	got := f.panel.SliderChange(dimension.Height, 3)
	assert.Equal(t, 32, got)
	assert.JSONEq(t, `{"iconWidth":48,"iconHeight":32}`, f.stored(t))
}

func TestFocusWraps(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()
	f.panel.FocusControl(CloseButton)

	f.panel.HandleKey("tab")
	assert.Equal(t, ThemeLight, f.panel.Focused())
	f.panel.HandleKey("shift+tab")
	assert.Equal(t, CloseButton, f.panel.Focused())
}

func TestThemeButtonsArrowWithinGroup(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()
	f.panel.FocusControl(ThemeSystem)

	f.panel.HandleKey("right")
	assert.Equal(t, ThemeLight, f.panel.Focused())
	f.panel.HandleKey("left")
	assert.Equal(t, ThemeSystem, f.panel.Focused())
}

func TestCloseButton(t *testing.T) {
	f := newFixture(t, "")
	f.panel.Widget().Open()
	f.panel.FocusControl(CloseButton)

	f.panel.HandleKey(disclosure.KeySpace)
	assert.False(t, f.panel.Widget().IsOpen())
	assert.Equal(t, disclosure.Region("settings/toggle"), f.focus.last)
}

func TestKeysIgnoredWhenClosed(t *testing.T) {
	f := newFixture(t, "")
	assert.False(t, f.panel.HandleKey("right"))
}

func TestControlAt(t *testing.T) {
	f := newFixture(t, "")
	c, ok := f.panel.ControlAt("settings/panel/icon-width/track")
	require.True(t, ok)
	assert.Equal(t, WidthSlider, c)

	_, ok = f.panel.ControlAt("settings/panel")
	assert.False(t, ok)
}

func TestReload(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.mem.Set(prefs.DefaultOptions().Key, `{"theme":"dark","iconWidth":80,"iconHeight":80}`))

	f.panel.Reload()
	assert.True(t, f.root.dark)
	assert.Equal(t, "80px", f.root.props["--icon-wrapper-width"])
	assert.Equal(t, prefs.ThemeDark, f.panel.Settings().Theme)
}

func TestWithoutStore(t *testing.T) {
	p := New(nil, nil, Options{Toggle: "s/toggle", Body: "s/panel"})
	assert.NotPanics(t, func() {
		p.Widget().Open()
		p.Activate(ThemeDark)
		p.SliderChange(dimension.Width, 60)
	})
	assert.Equal(t, 60, p.Settings().IconWidth)
}
