package ui

import (
	"math"
	"net/url"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/settings"
	"github.com/iiroan/startpage/internal/theme"
)

const (
	sliderWidth = 24
	tileGap     = 1
	panelIndent = "  "
)

type pageStyles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	key     lipgloss.Style
	accent  lipgloss.Style
	focus   lipgloss.Style
	pressed lipgloss.Style
	errText lipgloss.Style
	okText  lipgloss.Style
	border  lipgloss.Style
	active  lipgloss.Style
}

func newPageStyles(p Palette) pageStyles {
	if p.Disabled {
		plain := lipgloss.NewStyle()
		return pageStyles{
			title:   plain.Bold(true),
			muted:   plain,
			key:     plain,
			accent:  plain.Bold(true),
			focus:   plain.Reverse(true),
			pressed: plain.Bold(true),
			errText: plain,
			okText:  plain,
			border:  plain,
			active:  plain,
		}
	}
	c := func(v string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(v))
	}
	return pageStyles{
		title:   c(string(p.Primary)).Bold(true),
		muted:   c(string(p.Muted)),
		key:     c(string(p.Highlight)),
		accent:  c(string(p.Accent)).Bold(true),
		focus:   c(string(p.Background)).Background(lipgloss.Color(string(p.Highlight))),
		pressed: c(string(p.Secondary)).Bold(true),
		errText: c(string(p.Error)),
		okText:  c(string(p.Success)),
		border:  c(string(p.Border)),
		active:  c(string(p.Highlight)),
	}
}

// zone maps a screen rectangle to a page region. x1 is exclusive, y1 inclusive.
type zone struct {
	x0, x1 int
	y0, y1 int
	region disclosure.Region
}

func (z zone) contains(x, y int) bool {
	return x >= z.x0 && x < z.x1 && y >= z.y0 && y <= z.y1
}

type frame struct {
	lines  []string
	zones  []zone
	tracks map[dimension.Axis]zone
}

func (f *frame) String() string {
	return strings.Join(f.lines, "\n")
}

func (f *frame) y() int { return len(f.lines) }

// line appends a finished row.
func (f *frame) line(s string) { f.lines = append(f.lines, s) }

// row collects the cells of one line and the zones they cover.
type row struct {
	f     *frame
	b     strings.Builder
	x     int
	zones []zone
}

func (f *frame) row() *row { return &row{f: f} }

func (r *row) text(s string) *row {
	r.b.WriteString(s)
	r.x += lipgloss.Width(s)
	return r
}

func (r *row) region(s string, region disclosure.Region) *row {
	start := r.x
	r.text(s)
	r.zones = append(r.zones, zone{x0: start, x1: r.x, region: region})
	return r
}

func (r *row) done() {
	y := r.f.y()
	for _, z := range r.zones {
		z.y0, z.y1 = y, y
		r.f.zones = append(r.f.zones, z)
	}
	r.f.line(r.b.String())
}

func (m *Page) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return terminalWidth()
}

func (m *Page) render() *frame {
	f := &frame{tracks: map[dimension.Axis]zone{}}
	st := m.styles
	focus := m.root.Focused()

	m.renderHeader(f)
	f.row().text(st.muted.Render(m.root.ThemeLabel())).done()

	panelTop := f.y()
	if m.panel.Widget().Visual() != disclosure.Hidden {
		m.renderPanel(f)
		f.zones = append([]zone{{x0: 0, x1: m.contentWidth(), y0: panelTop, y1: f.y() - 1, region: m.panel.Widget().BodyRegion()}}, f.zones...)
	}

	f.line("")
	m.renderSearch(f)

	menuTop := f.y()
	if m.selector.Menu().Visual() != disclosure.Hidden {
		m.renderOptions(f)
		f.zones = append([]zone{{x0: 0, x1: m.contentWidth(), y0: menuTop, y1: f.y() - 1, region: m.selector.Menu().BodyRegion()}}, f.zones...)
	}

	f.line("")
	m.renderTiles(f)

	f.line("")
	status := m.status
	if focus == regionEngineToggle {
		status = m.root.toggleLabel
	}
	switch {
	case status == "":
		f.line("")
	case m.failed:
		f.line(st.errText.Render(status))
	default:
		f.line(st.muted.Render(status))
	}
	f.line(m.help.View(m.keys))
	return f
}

func (m *Page) renderHeader(f *frame) {
	st := m.styles
	r := f.row()
	r.text(st.title.Render("startpage"))
	r.text("  ")

	arrow := "▾"
	if m.panel.Widget().IsOpen() {
		arrow = "▴"
	}
	label := "[" + theme.Glyph(m.root.themeResolved) + " Display " + arrow + "]"
	r.region(m.focusable(label, regionSettingsToggle), regionSettingsToggle)

	clock := m.now.Format("Mon 02 Jan 15:04")
	if m.version.Version != "" {
		clock = clock + "  " + m.version.Version
	}
	gap := m.contentWidth() - r.x - lipgloss.Width(clock)
	if gap < 2 {
		gap = 2
	}
	r.text(strings.Repeat(" ", gap))
	r.text(st.muted.Render(clock))
	r.done()
}

func (m *Page) focusable(s string, region disclosure.Region) string {
	if m.root.Focused() == region {
		return m.styles.focus.Render(s)
	}
	return s
}

func (m *Page) panelStyle(s string) string {
	if m.panel.Widget().Visual() == disclosure.Hiding {
		return m.styles.muted.Render(ansi.Strip(s))
	}
	return s
}

func (m *Page) renderPanel(f *frame) {
	st := m.styles

	r := f.row().text(panelIndent + "Theme   ")
	for i, c := range []settings.Control{settings.ThemeLight, settings.ThemeDark, settings.ThemeSystem} {
		if i > 0 {
			r.text(" ")
		}
		pref, _ := c.Theme()
		label := "[ " + themeButtonLabel(pref) + " ]"
		if m.root.Pressed(pref) {
			label = "[●" + themeButtonLabel(pref) + " ]"
			label = st.pressed.Render(label)
		}
		region := m.panel.Region(c)
		r.region(m.panelStyle(m.focusable(label, region)), region)
	}
	r.done()

	for _, axis := range []dimension.Axis{dimension.Width, dimension.Height} {
		c := settings.WidthSlider
		name := "Width   "
		if axis == dimension.Height {
			c = settings.HeightSlider
			name = "Height  "
		}
		region := m.panel.Region(c)
		r := f.row().text(panelIndent + name)
		start := r.x
		r.region(m.panelStyle(m.focusable(m.sliderTrack(axis), region)), region)
		f.tracks[axis] = zone{x0: start, x1: start + sliderWidth, region: region}
		r.text(" " + m.panelStyle(st.key.Render(m.root.Output(axis))))
		r.done()
	}

	region := m.panel.Region(settings.CloseButton)
	f.row().text(panelIndent).region(m.panelStyle(m.focusable("[ Close ]", region)), region).done()
}

func themeButtonLabel(pref prefs.Theme) string {
	switch pref {
	case prefs.ThemeLight:
		return "Light"
	case prefs.ThemeDark:
		return "Dark"
	default:
		return "System"
	}
}

func (m *Page) sliderTrack(axis dimension.Axis) string {
	rng := m.panel.Dimensions().Range(axis)
	value := m.root.InputValue(axis)
	knob := 0
	if span := rng.Max - rng.Min; span > 0 {
		knob = int(math.Round(float64(value-rng.Min) * float64(sliderWidth-1) / float64(span)))
	}
	knob = max(0, min(sliderWidth-1, knob))
	return strings.Repeat("━", knob) + "●" + strings.Repeat("─", sliderWidth-1-knob)
}

// sliderValue maps a column on the slider track to a raw slider value.
func (m *Page) sliderValue(axis dimension.Axis, x int) float64 {
	rng := m.panel.Dimensions().Range(axis)
	track, ok := m.render().tracks[axis]
	if !ok {
		return float64(m.root.InputValue(axis))
	}
	pos := max(0, min(sliderWidth-1, x-track.x0))
	return float64(rng.Min) + float64(pos)*float64(rng.Max-rng.Min)/float64(sliderWidth-1)
}

func (m *Page) renderSearch(f *frame) {
	active := m.selector.ActiveEngine()
	arrow := "▾"
	if m.selector.Menu().IsOpen() {
		arrow = "▴"
	}
	toggle := "[" + engine.Short(active) + " " + active.Name + " " + arrow + "]"

	r := f.row()
	r.region(m.focusable(toggle, regionEngineToggle), regionEngineToggle)
	r.text(" ")
	inputWidth := max(10, m.contentWidth()-r.x-4)
	m.input.SetWidth(inputWidth)
	r.region(m.input.View(), regionSearchInput)
	r.done()
}

func (m *Page) renderOptions(f *frame) {
	st := m.styles
	hiding := m.selector.Menu().Visual() == disclosure.Hiding
	focused := m.selector.Menu().Focused()
	for _, opt := range m.root.Options() {
		marker := "  "
		if opt.Selected {
			marker = "● "
		}
		label := " " + marker + engine.Short(engine.Engine{Name: opt.Name}) + " " + opt.Name + " "
		switch {
		case hiding:
			label = st.muted.Render(label)
		case opt.Index == focused && m.root.Focused().Within(regionEngineMenu):
			label = st.focus.Render(label)
		case opt.Selected:
			label = st.active.Render(label)
		}
		f.row().text(panelIndent).region(label, opt.Region).done()
	}
}

func (m *Page) tileSize() (int, int) {
	w := dimension.Cells(m.root.PixelProperty(dimension.Width.Property(), m.cfg.Preferences.DefaultWidth), m.cfg.Appearance.CellWidth)
	h := dimension.Cells(m.root.PixelProperty(dimension.Height.Property(), m.cfg.Preferences.DefaultHeight), m.cfg.Appearance.CellHeight)
	return w, h
}

func (m *Page) tileColumns() int {
	w, _ := m.tileSize()
	cols := (m.contentWidth() + tileGap) / (w + 2 + tileGap)
	return max(1, cols)
}

func (m *Page) renderTiles(f *frame) {
	links := m.cfg.Links
	if len(links) == 0 {
		return
	}
	w, h := m.tileSize()
	cols := m.tileColumns()
	focus := m.root.Focused()

	for start := 0; start < len(links); start += cols {
		end := min(start+cols, len(links))
		top := f.y()
		lines := make([]strings.Builder, h+2)
		for i := start; i < end; i++ {
			col := i - start
			if col > 0 {
				for j := range lines {
					lines[j].WriteString(strings.Repeat(" ", tileGap))
				}
			}
			border := m.styles.border
			if focus == tileRegion(i) {
				border = m.styles.active
			}
			for j, s := range tileBox(links[i].Name, tileHost(links[i].URL), w, h) {
				if j == 0 || j == h+1 {
					lines[j].WriteString(border.Render(s))
					continue
				}
				lines[j].WriteString(border.Render("│") + s + border.Render("│"))
			}
			x0 := col * (w + 2 + tileGap)
			f.zones = append(f.zones, zone{x0: x0, x1: x0 + w + 2, y0: top, y1: top + h + 1, region: tileRegion(i)})
		}
		for j := range lines {
			f.line(lines[j].String())
		}
	}
}

// tileBox draws a w by h tile. Border rows come back whole; content rows without their side borders.
func tileBox(name, host string, w, h int) []string {
	out := make([]string, 0, h+2)
	out = append(out, "╭"+strings.Repeat("─", w)+"╮")
	content := []string{name}
	if h >= 3 && host != "" {
		content = append(content, host)
	}
	pad := (h - len(content)) / 2
	for i := 0; i < h; i++ {
		text := ""
		if k := i - pad; k >= 0 && k < len(content) {
			text = content[k]
		}
		out = append(out, lipgloss.PlaceHorizontal(w, lipgloss.Center, ansi.Truncate(text, w, "…")))
	}
	return append(out, "╰"+strings.Repeat("─", w)+"╯")
}

func tileHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// hitTest returns the innermost region under a screen cell.
func (m *Page) hitTest(x, y int) disclosure.Region {
	f := m.render()
	for i := len(f.zones) - 1; i >= 0; i-- {
		if f.zones[i].contains(x, y) {
			return f.zones[i].region
		}
	}
	return regionPage
}
