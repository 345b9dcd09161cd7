// Package ui provides Charm-based UI components for startpage.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Active palette colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Info       lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color

	// Text styles
	Bold = lipgloss.NewStyle().Bold(true)

	Title        lipgloss.Style
	Tagline      lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	AccentStyle  lipgloss.Style
	KeyStyle     lipgloss.Style

	// Box styles
	InfoBox  lipgloss.Style
	ErrorBox lipgloss.Style

	HeaderStyle lipgloss.Style

	// Status indicators
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	StatusActive  lipgloss.Style

	activePalette Palette
)

func init() {
	ApplyPalette(DefaultPalette(true))
}

// ApplyPalette rebuilds the package styles from p. A disabled palette renders without color.
func ApplyPalette(p Palette) {
	activePalette = p
	if p.Disabled {
		p = Palette{Name: p.Name, Dark: p.Dark, Disabled: true}
	}

	Primary = p.Primary
	Secondary = p.Secondary
	Accent = p.Accent
	Info = p.Info
	Success = p.Success
	Warning = p.Warning
	Error = p.Error
	Muted = p.Muted
	Background = p.Background
	Foreground = p.Foreground
	Border = p.Border
	Highlight = p.Highlight

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Tagline = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	AccentStyle = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
		Foreground(Highlight)

	InfoBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(Background).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	StatusSuccess = lipgloss.NewStyle().
		Foreground(Success).
		SetString("✓")

	StatusError = lipgloss.NewStyle().
		Foreground(Error).
		SetString("✗")

	StatusPending = lipgloss.NewStyle().
		Foreground(Muted).
		SetString("○")

	StatusActive = lipgloss.NewStyle().
		Foreground(Accent).
		SetString("●")
}

// Header renders a title bar.
func Header(title string) string {
	return HeaderStyle.Render(title)
}

// KeyValue renders an aligned "key: value" line.
func KeyValue(key string, value string) string {
	return MutedStyle.Render(padRight(key+":", 12)) + " " + value
}

func padRight(s string, width int) string {
	for lipgloss.Width(s) < width {
		s += " "
	}
	return s
}
