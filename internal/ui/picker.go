package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// PickCancelled is returned as the choice when the picker is dismissed.
const PickCancelled = "__cancelled__"

// PickItem is one row of a picker.
type PickItem struct {
	ID        string
	TitleText string
	Details   string
	// Current marks the row that reflects the stored state.
	Current bool
}

// Title returns the row label.
func (p PickItem) Title() string { return p.TitleText }

// Description returns the row details.
func (p PickItem) Description() string { return p.Details }

// FilterValue returns the filterable text.
func (p PickItem) FilterValue() string { return p.TitleText + " " + p.Details + " " + p.ID }

type pickKeyMap struct {
	Select key.Binding
	Filter key.Binding
	Jump   key.Binding
	Quit   key.Binding
}

func newPickKeyMap() pickKeyMap {
	return pickKeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "quick pick"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "cancel"),
		),
	}
}

func (k pickKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Jump, k.Filter, k.Quit}
}

func (k pickKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Select, k.Jump, k.Filter}, {k.Quit}}
}

type pickDelegate struct {
	slot     lipgloss.Style
	title    lipgloss.Style
	selected lipgloss.Style
	current  lipgloss.Style
}

func newPickDelegate() pickDelegate {
	return pickDelegate{
		slot:     lipgloss.NewStyle().Foreground(lipgloss.Color(string(Muted))),
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color(string(Foreground))),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color(string(Primary))).Bold(true),
		current:  lipgloss.NewStyle().Foreground(lipgloss.Color(string(Accent))),
	}
}

func (d pickDelegate) Height() int { return 1 }

func (d pickDelegate) Spacing() int { return 0 }

func (d pickDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d pickDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(PickItem)
	if !ok || m.Width() <= 0 {
		return
	}

	content := row.TitleText
	if row.Details != "" && m.Width() > 60 {
		content += " - " + row.Details
	}
	content = ansi.Truncate(content, max(14, m.Width()-8), "...")

	marker := "  "
	if row.Current {
		marker = d.current.Render("● ")
	}
	slot := fmt.Sprintf("%d.", index+1)

	if index == m.Index() && m.FilterState() != list.Filtering {
		fmt.Fprint(w, "> "+d.selected.Render(slot)+" "+marker+d.selected.Render(content)) //nolint:errcheck
		return
	}
	fmt.Fprint(w, "  "+d.slot.Render(slot)+" "+marker+d.title.Render(content)) //nolint:errcheck
}

type pickModel struct {
	list     list.Model
	title    string
	choice   string
	quitting bool
	help     help.Model
	keys     pickKeyMap
	width    int
	height   int
}

func newPickModel(title string, items []PickItem) pickModel {
	listItems := make([]list.Item, len(items))
	initial := 0
	for i, item := range items {
		listItems[i] = item
		if item.Current {
			initial = i
		}
	}

	l := list.New(listItems, newPickDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Select(initial)

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(string(Accent))).Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(string(Muted)))
	h.Styles.Ellipsis = h.Styles.ShortDesc

	m := pickModel{
		list:  l,
		title: title,
		help:  h,
		keys:  newPickKeyMap(),
	}
	m.resize()
	return m
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyPressMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch msg.String() {
		case "enter":
			if filtering {
				break
			}
			if item, ok := m.list.SelectedItem().(PickItem); ok {
				m.choice = item.ID
				m.quitting = true
				return m, tea.Quit
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if !filtering && m.selectByNumber(msg.String()) {
				m.quitting = true
				return m, tea.Quit
			}
		case "q", "esc":
			if filtering {
				break
			}
			m.choice = PickCancelled
			m.quitting = true
			return m, tea.Quit
		case "ctrl+c":
			m.choice = PickCancelled
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickModel) selectByNumber(keyNum string) bool {
	slot := int(keyNum[0] - '0')
	visible := m.list.VisibleItems()
	start := max(0, m.list.Index()-m.list.Cursor())
	target := start + slot - 1
	if target < 0 || target >= len(visible) {
		return false
	}
	m.list.Select(target)
	if item, ok := visible[target].(PickItem); ok {
		m.choice = item.ID
		return true
	}
	return false
}

func (m *pickModel) resize() {
	width := m.width
	if width <= 0 {
		width = terminalWidth()
	}
	height := m.height
	if height <= 0 {
		height = 20
	}
	m.list.SetSize(max(20, width-2), max(3, min(len(m.list.Items()), height-6)))
}

func (m pickModel) View() tea.View {
	if m.quitting {
		return tea.View{}
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color(string(Primary))).Bold(true).Render(m.title),
		"",
		m.list.View(),
		"",
		m.help.View(m.keys),
	)
	return tea.NewView(body)
}

// Pick shows an inline list and returns the ID of the chosen row, or PickCancelled.
func Pick(title string, items []PickItem) (string, error) {
	if len(items) == 0 {
		return PickCancelled, fmt.Errorf("nothing to pick from")
	}
	if !IsInteractiveTerminal() {
		return PickCancelled, fmt.Errorf("picker needs an interactive terminal")
	}
	final, err := tea.NewProgram(newPickModel(strings.TrimSpace(title), items)).Run()
	if err != nil {
		return PickCancelled, fmt.Errorf("running picker: %w", err)
	}
	m, ok := final.(pickModel)
	if !ok || m.choice == "" {
		return PickCancelled, nil
	}
	return m.choice, nil
}
