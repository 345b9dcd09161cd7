package ui

// Preferences controls runtime UI settings.
type Preferences struct {
	Palette string
	NoColor bool
}

// CurrentPreferences holds the active UI preferences.
var CurrentPreferences = Preferences{
	Palette: defaultThemeName,
}

// ApplyPreferences updates UI preferences and the active palette for the given mode.
func ApplyPreferences(p Preferences, dark bool) {
	if p.Palette == "" {
		p.Palette = defaultThemeName
	}
	CurrentPreferences = p
	ApplyTheme(p.Palette, dark, p.NoColor)
}

// ApplyTheme switches the color palette for the TUI.
func ApplyTheme(name string, dark bool, noColor bool) {
	palette := PaletteByName(name, dark)
	palette.Disabled = noColor
	ApplyPalette(palette)
}
