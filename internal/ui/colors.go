package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines the TUI color palette.
type Palette struct {
	Name       string
	Dark       bool
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
	Disabled   bool
}

const defaultThemeName = "aurora"

// ThemeNames returns supported palette names.
func ThemeNames() []string {
	return []string{"aurora", "ember", "mono"}
}

// PaletteByName returns the dark or light variant of a palette.
func PaletteByName(name string, dark bool) Palette {
	var p Palette
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ember":
		p = emberPalette(dark)
	case "mono":
		p = monoPalette(dark)
	default:
		p = auroraPalette(dark)
	}
	p.Dark = dark
	return p
}

// DefaultPalette returns the default theme palette.
func DefaultPalette(dark bool) Palette {
	return PaletteByName(defaultThemeName, dark)
}

func auroraPalette(dark bool) Palette {
	if dark {
		return Palette{
			Name:       "aurora",
			Primary:    lipgloss.Color("#22D3EE"),
			Secondary:  lipgloss.Color("#A78BFA"),
			Accent:     lipgloss.Color("#38BDF8"),
			Info:       lipgloss.Color("#60A5FA"),
			Success:    lipgloss.Color("#34D399"),
			Warning:    lipgloss.Color("#FBBF24"),
			Error:      lipgloss.Color("#F87171"),
			Muted:      lipgloss.Color("#94A3B8"),
			Background: lipgloss.Color("#0B1120"),
			Foreground: lipgloss.Color("#E2E8F0"),
			Border:     lipgloss.Color("#334155"),
			Highlight:  lipgloss.Color("#7DD3FC"),
		}
	}
	return Palette{
		Name:       "aurora",
		Primary:    lipgloss.Color("#0E7490"),
		Secondary:  lipgloss.Color("#6D28D9"),
		Accent:     lipgloss.Color("#0369A1"),
		Info:       lipgloss.Color("#1D4ED8"),
		Success:    lipgloss.Color("#047857"),
		Warning:    lipgloss.Color("#B45309"),
		Error:      lipgloss.Color("#B91C1C"),
		Muted:      lipgloss.Color("#64748B"),
		Background: lipgloss.Color("#F8FAFC"),
		Foreground: lipgloss.Color("#0F172A"),
		Border:     lipgloss.Color("#CBD5E1"),
		Highlight:  lipgloss.Color("#0284C7"),
	}
}

func emberPalette(dark bool) Palette {
	if dark {
		return Palette{
			Name:       "ember",
			Primary:    lipgloss.Color("#F97316"),
			Secondary:  lipgloss.Color("#F43F5E"),
			Accent:     lipgloss.Color("#FACC15"),
			Info:       lipgloss.Color("#38BDF8"),
			Success:    lipgloss.Color("#22C55E"),
			Warning:    lipgloss.Color("#F59E0B"),
			Error:      lipgloss.Color("#EF4444"),
			Muted:      lipgloss.Color("#94A3B8"),
			Background: lipgloss.Color("#0F172A"),
			Foreground: lipgloss.Color("#E2E8F0"),
			Border:     lipgloss.Color("#475569"),
			Highlight:  lipgloss.Color("#FDBA74"),
		}
	}
	return Palette{
		Name:       "ember",
		Primary:    lipgloss.Color("#C2410C"),
		Secondary:  lipgloss.Color("#BE123C"),
		Accent:     lipgloss.Color("#A16207"),
		Info:       lipgloss.Color("#0369A1"),
		Success:    lipgloss.Color("#15803D"),
		Warning:    lipgloss.Color("#B45309"),
		Error:      lipgloss.Color("#B91C1C"),
		Muted:      lipgloss.Color("#78716C"),
		Background: lipgloss.Color("#FFF7ED"),
		Foreground: lipgloss.Color("#1C1917"),
		Border:     lipgloss.Color("#FED7AA"),
		Highlight:  lipgloss.Color("#EA580C"),
	}
}

func monoPalette(dark bool) Palette {
	if dark {
		return Palette{
			Name:       "mono",
			Primary:    lipgloss.Color("#E2E8F0"),
			Secondary:  lipgloss.Color("#CBD5F5"),
			Accent:     lipgloss.Color("#94A3B8"),
			Info:       lipgloss.Color("#E2E8F0"),
			Success:    lipgloss.Color("#E2E8F0"),
			Warning:    lipgloss.Color("#94A3B8"),
			Error:      lipgloss.Color("#CBD5F5"),
			Muted:      lipgloss.Color("#94A3B8"),
			Background: lipgloss.Color("#0B1220"),
			Foreground: lipgloss.Color("#E2E8F0"),
			Border:     lipgloss.Color("#64748B"),
			Highlight:  lipgloss.Color("#F8FAFC"),
		}
	}
	return Palette{
		Name:       "mono",
		Primary:    lipgloss.Color("#1E293B"),
		Secondary:  lipgloss.Color("#334155"),
		Accent:     lipgloss.Color("#475569"),
		Info:       lipgloss.Color("#1E293B"),
		Success:    lipgloss.Color("#1E293B"),
		Warning:    lipgloss.Color("#475569"),
		Error:      lipgloss.Color("#334155"),
		Muted:      lipgloss.Color("#64748B"),
		Background: lipgloss.Color("#FFFFFF"),
		Foreground: lipgloss.Color("#0F172A"),
		Border:     lipgloss.Color("#94A3B8"),
		Highlight:  lipgloss.Color("#020617"),
	}
}
