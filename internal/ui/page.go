package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/settings"
	"github.com/iiroan/startpage/internal/theme"
	"github.com/iiroan/startpage/internal/version"
)

const (
	regionPage           disclosure.Region = "page"
	regionSettingsToggle disclosure.Region = "settings/toggle"
	regionSettingsPanel  disclosure.Region = "settings/panel"
	regionEngineToggle   disclosure.Region = "search/toggle"
	regionEngineMenu     disclosure.Region = "search/menu"
	regionSearchInput    disclosure.Region = "page/search-input"
	regionTiles          disclosure.Region = "page/tiles"
)

func tileRegion(i int) disclosure.Region {
	return regionTiles.Child(strconv.Itoa(i))
}

func tileIndex(r disclosure.Region) (int, bool) {
	if !r.Within(regionTiles) || r == regionTiles {
		return 0, false
	}
	rest := strings.TrimPrefix(string(r), string(regionTiles)+"/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func optionIndex(r disclosure.Region) (int, bool) {
	if !r.Within(regionEngineMenu) || r == regionEngineMenu {
		return 0, false
	}
	rest := strings.TrimPrefix(string(r), string(regionEngineMenu)+"/option-")
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Navigator opens URLs outside the UI.
type Navigator interface {
	Open(url string) error
}

// PageOptions wires a Page.
type PageOptions struct {
	Config  *config.Config
	Store   *prefs.Store
	Signal  *theme.Live
	Opener  Navigator
	Version version.Info
	Logger  *log.Logger
	// Watch delivers a value whenever another process changed the store. It may be nil.
	Watch <-chan struct{}
}

type (
	clockMsg         time.Time
	timerMsg         struct{ id int }
	storeChangedMsg  struct{}
	storeClosedMsg   struct{}
	transitionEndMsg struct {
		widget *disclosure.Controller
		seq    int
	}
	openedMsg struct {
		url string
		err error
	}
)

// Page is the start page model.
type Page struct {
	cfg    *config.Config
	logger *log.Logger

	root     *Root
	live     *theme.Live
	group    *disclosure.Group
	panel    *settings.Panel
	selector *engine.Selector

	opener Navigator
	queued []string
	watch  <-chan struct{}

	input textinput.Model
	help  help.Model
	keys  pageKeyMap

	hiding    map[*disclosure.Controller]int
	hidingSeq int

	tile     int
	dragging bool
	dragAxis dimension.Axis

	width   int
	height  int
	now     time.Time
	version version.Info
	status  string
	failed  bool

	styles     pageStyles
	stylesDark bool
	stylesInit bool

	quitting bool
}

type queueNavigator struct{ page *Page }

func (q queueNavigator) Open(url string) error {
	q.page.queued = append(q.page.queued, url)
	return nil
}

// NewPage builds the page and its controllers from the stored preferences.
func NewPage(opts PageOptions) *Page {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	live := opts.Signal
	if live == nil {
		live = theme.NewLive(true)
	}

	m := &Page{
		cfg:     cfg,
		logger:  logger,
		root:    NewRoot(),
		live:    live,
		group:   disclosure.NewGroup(),
		opener:  opts.Opener,
		watch:   opts.Watch,
		keys:    newPageKeyMap(),
		hiding:  map[*disclosure.Controller]int{},
		now:     time.Now(),
		version: opts.Version,
	}

	m.panel = settings.New(opts.Store, m.group, settings.Options{
		Toggle:     regionSettingsToggle,
		Body:       regionSettingsPanel,
		Transition: cfg.Transition(),
		Scheduler:  m.root,
		Focus:      m.root,
		Signal:     live,
		Properties: m.root,
		Display:    m.root,
		Input:      m.root,
		Step:       cfg.Preferences.Step,
		Logger:     logger,
	})
	m.panel.Theme().Attach(m.root)
	m.panel.Theme().AttachIndicator(m.root)

	m.selector = engine.NewSelector(opts.Store, m.group, engine.Options{
		Key:        cfg.Search.Key,
		Engines:    cfg.Search.Engines,
		Toggle:     regionEngineToggle,
		Body:       regionEngineMenu,
		Input:      regionSearchInput,
		Policy:     cfg.NavPolicy(),
		Transition: cfg.Transition(),
		Focus:      m.root,
		Scheduler:  m.root,
		View:       m.root,
		Navigator:  queueNavigator{page: m},
		Logger:     logger,
	})
	m.selector.Render()

	m.root.onFocus = m.focusChanged

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.CharLimit = 512
	m.root.Focus(regionSearchInput)

	m.help = help.New()
	m.applyMode()
	m.syncInput()
	return m
}

// Selector returns the engine selector.
func (m *Page) Selector() *engine.Selector { return m.selector }

// Panel returns the settings panel.
func (m *Page) Panel() *settings.Panel { return m.panel }

// Root returns the rendered page state.
func (m *Page) Root() *Root { return m.root }

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func waitForStore(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

func (m *Page) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.RequestBackgroundColor, clockTick(), textinput.Blink}
	if m.watch != nil {
		cmds = append(cmds, waitForStore(m.watch))
	}
	return tea.Batch(cmds...)
}

func (m *Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
	case clockMsg:
		m.now = time.Time(msg)
		cmds = append(cmds, clockTick())
	case tea.BackgroundColorMsg:
		if m.live.Set(msg.IsDark()) {
			m.logger.Debug("system color scheme changed", "dark", msg.IsDark())
			m.panel.Theme().SystemChanged()
		}
	case tea.FocusMsg:
		cmds = append(cmds, tea.RequestBackgroundColor)
	case timerMsg:
		m.root.fire(msg.id)
	case transitionEndMsg:
		if seq, ok := m.hiding[msg.widget]; ok && seq == msg.seq {
			msg.widget.TransitionEnd()
			delete(m.hiding, msg.widget)
		}
	case storeChangedMsg:
		m.logger.Debug("preferences changed by another instance")
		m.panel.Reload()
		m.selector.Reload()
		if m.watch != nil {
			cmds = append(cmds, waitForStore(m.watch))
		}
	case storeClosedMsg:
		m.watch = nil
	case openedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("could not open %s: %v", msg.url, msg.err), true)
		} else {
			m.setStatus("opened "+msg.url, false)
		}
	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseClickMsg:
		m.handlePointerDown(msg.Mouse())
	case tea.MouseMotionMsg:
		m.handlePointerMove(msg.Mouse())
	case tea.MouseReleaseMsg:
		m.handlePointerUp(msg.Mouse())
	default:
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.quitting {
		return m, tea.Quit
	}
	cmds = append(cmds, m.settle()...)
	return m, tea.Batch(cmds...)
}

// settle turns the side effects of an update into commands and keeps derived state in sync.
func (m *Page) settle() []tea.Cmd {
	var cmds []tea.Cmd

	for _, t := range m.root.drainScheduled() {
		id := t.id
		cmds = append(cmds, tea.Tick(t.delay, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	}

	transition := m.cfg.Transition()
	for _, w := range []*disclosure.Controller{m.panel.Widget(), m.selector.Menu()} {
		if w.Visual() != disclosure.Hiding {
			delete(m.hiding, w)
			continue
		}
		if _, ok := m.hiding[w]; ok {
			continue
		}
		m.hidingSeq++
		seq := m.hidingSeq
		m.hiding[w] = seq
		widget := w
		cmds = append(cmds, tea.Tick(transition, func(time.Time) tea.Msg {
			return transitionEndMsg{widget: widget, seq: seq}
		}))
	}

	for _, url := range m.queued {
		cmds = append(cmds, m.openCmd(url))
	}
	m.queued = nil

	m.applyMode()
	if cmd := m.syncInput(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (m *Page) openCmd(url string) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		if opener == nil {
			return openedMsg{url: url, err: fmt.Errorf("no opener configured")}
		}
		return openedMsg{url: url, err: opener.Open(url)}
	}
}

func (m *Page) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

// focusChanged runs whenever a controller or the page moves focus.
func (m *Page) focusChanged(region disclosure.Region) {
	if region == regionSearchInput {
		m.selector.Menu().Close()
	}
	if i, ok := tileIndex(region); ok {
		m.tile = i
	}
}

func (m *Page) syncInput() tea.Cmd {
	m.input.Placeholder = m.root.Placeholder()
	if m.root.Focused() == regionSearchInput {
		if !m.input.Focused() {
			return m.input.Focus()
		}
		return nil
	}
	if m.input.Focused() {
		m.input.Blur()
	}
	return nil
}

func (m *Page) applyMode() {
	dark := m.root.Dark()
	if m.stylesInit && m.stylesDark == dark {
		return
	}
	palette := PaletteByName(m.cfg.Appearance.Palette, dark)
	palette.Disabled = CurrentPreferences.NoColor
	m.styles = newPageStyles(palette)
	m.stylesDark = dark
	m.stylesInit = true

	m.input.SetStyles(textinput.DefaultStyles(dark))
	m.help.Styles = help.DefaultStyles(dark)
	m.help.Styles.ShortKey = m.styles.key
	m.help.Styles.FullKey = m.styles.key
	m.help.Styles.ShortDesc = m.styles.muted
	m.help.Styles.FullDesc = m.styles.muted
	m.help.Styles.Ellipsis = m.styles.muted
}

func (m *Page) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQ) {
		m.quitting = true
		return nil
	}

	s := msg.String()
	focus := m.root.Focused()
	panelWidget := m.panel.Widget()
	menu := m.selector.Menu()

	if panelWidget.IsOpen() && focus.Within(regionSettingsPanel) && m.panel.HandleKey(s) {
		return nil
	}
	if menu.IsOpen() && focus.Within(regionEngineMenu) && menu.HandleListKey(s) {
		return nil
	}

	switch focus {
	case regionSettingsToggle:
		if panelWidget.IsOpen() && (s == disclosure.KeyDown || s == disclosure.KeyUp) {
			m.panel.FocusControl(m.panel.Focused())
			return nil
		}
		if panelWidget.HandleToggleKey(s) {
			return nil
		}
	case regionEngineToggle:
		if menu.HandleToggleKey(s) {
			return nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Theme):
		m.panel.ToggleTheme()
		return nil
	case key.Matches(msg, m.keys.Settings):
		m.toggleWidget(panelWidget)
		return nil
	case key.Matches(msg, m.keys.Engines):
		m.toggleWidget(menu)
		return nil
	case key.Matches(msg, m.keys.Close):
		if m.group.Escape() {
			return nil
		}
		if focus == regionSearchInput && m.input.Value() != "" {
			m.input.Reset()
		}
		return nil
	case key.Matches(msg, m.keys.Next):
		m.cycleFocus(1)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleFocus(-1)
		return nil
	}

	if focus == regionSearchInput {
		switch s {
		case "enter":
			if target, ok := m.selector.PerformSearch(m.input.Value()); ok {
				m.setStatus("searching "+m.selector.ActiveEngine().Name+": "+target, false)
			}
			return nil
		case disclosure.KeyDown:
			menu.Open()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	if focus.Within(regionTiles) {
		if m.handleTileKey(s) {
			return nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.root.Focus(regionSearchInput)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
	}
	return nil
}

func (m *Page) toggleWidget(w *disclosure.Controller) {
	if w.IsOpen() {
		w.Dismiss()
		return
	}
	m.root.Focus(w.ToggleRegion())
	w.Open()
}

func (m *Page) focusOrder() []disclosure.Region {
	order := []disclosure.Region{regionSettingsToggle, regionEngineToggle, regionSearchInput}
	if len(m.cfg.Links) > 0 {
		order = append(order, tileRegion(m.tile))
	}
	return order
}

func (m *Page) cycleFocus(delta int) {
	order := m.focusOrder()
	focus := m.root.Focused()
	current := -1
	for i, r := range order {
		if focus.Within(r) || (r.Within(regionTiles) && focus.Within(regionTiles)) {
			current = i
			break
		}
	}
	switch {
	case focus.Within(regionSettingsPanel):
		current = 0
	case focus.Within(regionEngineMenu):
		current = 1
	}
	next := 0
	if current >= 0 {
		n := len(order)
		next = ((current+delta)%n + n) % n
	}
	m.root.Focus(order[next])
}

func (m *Page) handleTileKey(s string) bool {
	n := len(m.cfg.Links)
	if n == 0 {
		return false
	}
	cols := m.tileColumns()
	next := m.tile
	switch s {
	case "left":
		next--
	case "right":
		next++
	case "up":
		next -= cols
	case "down":
		next += cols
	case "enter", "space":
		m.openLink(m.tile)
		return true
	default:
		return false
	}
	if next < 0 || next >= n {
		return true
	}
	m.root.Focus(tileRegion(next))
	return true
}

func (m *Page) openLink(i int) {
	if i < 0 || i >= len(m.cfg.Links) {
		return
	}
	link := m.cfg.Links[i]
	m.queued = append(m.queued, link.URL)
	m.setStatus("opening "+link.Name, false)
}

func (m *Page) handlePointerDown(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft {
		return
	}
	target := m.hitTest(mouse.X, mouse.Y)
	m.group.PointerDown(target)

	if c, ok := m.panel.ControlAt(target); ok {
		if axis, ok := c.Axis(); ok {
			m.panel.FocusControl(c)
			m.dragging = true
			m.dragAxis = axis
			m.panel.SliderInput(axis, m.sliderValue(axis, mouse.X))
		}
	}
}

func (m *Page) handlePointerMove(mouse tea.Mouse) {
	if !m.dragging {
		return
	}
	m.panel.SliderInput(m.dragAxis, m.sliderValue(m.dragAxis, mouse.X))
}

func (m *Page) handlePointerUp(mouse tea.Mouse) {
	target := m.hitTest(mouse.X, mouse.Y)
	origin := m.group.PointerUp(target)

	if m.dragging {
		m.dragging = false
		m.panel.SliderChange(m.dragAxis, m.sliderValue(m.dragAxis, mouse.X))
		return
	}
	m.click(origin)
}

// click dispatches a completed pointer gesture to the control where it started.
// A body that is still fading out after closing takes no clicks.
func (m *Page) click(origin disclosure.Region) {
	menu := m.selector.Menu()
	switch {
	case origin.Within(regionSettingsToggle):
		m.root.Focus(regionSettingsToggle)
		m.panel.Widget().Toggle()
	case origin.Within(regionEngineToggle):
		m.root.Focus(regionEngineToggle)
		menu.Toggle()
	case origin.Within(regionEngineMenu):
		if i, ok := optionIndex(origin); ok && menu.IsOpen() {
			menu.CommitOption(i)
		}
	case origin.Within(regionSettingsPanel):
		if !m.panel.Widget().IsOpen() {
			return
		}
		if c, ok := m.panel.ControlAt(origin); ok {
			m.panel.FocusControl(c)
			m.panel.Activate(c)
		}
	case origin.Within(regionSearchInput):
		m.root.Focus(regionSearchInput)
	case origin.Within(regionTiles):
		if i, ok := tileIndex(origin); ok {
			m.root.Focus(tileRegion(i))
			m.openLink(i)
		}
	}
}

func (m *Page) View() tea.View {
	if m.quitting {
		return tea.View{}
	}
	frame := m.render()
	v := tea.NewView(frame.String())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	return v
}

// Run starts the page as a full-screen program and blocks until it exits.
func Run(ctx context.Context, page *Page) error {
	if !IsInteractiveTerminal() {
		return fmt.Errorf("non-interactive terminal")
	}
	program := tea.NewProgram(page, tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil {
		return fmt.Errorf("running start page: %w", err)
	}
	return nil
}
