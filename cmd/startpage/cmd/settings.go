package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/dimension"
	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/prefs"
	"github.com/iiroan/startpage/internal/settings"
	"github.com/iiroan/startpage/internal/theme"
	"github.com/iiroan/startpage/internal/ui"
)

var (
	settingsTheme  string
	settingsWidth  string
	settingsHeight string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Change the theme and icon size",
	Long: `Change the display settings shared with the page: theme (light, dark or
system) and icon width and height in pixels.

With flags the values are applied directly; otherwise a form is shown.
Sizes outside the allowed range are clamped.`,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&settingsTheme, "theme", "", "Theme: light, dark or system")
	settingsCmd.Flags().StringVar(&settingsWidth, "width", "", "Icon width in pixels")
	settingsCmd.Flags().StringVar(&settingsHeight, "height", "", "Icon height in pixels")
}

func runSettings(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	panel := settings.New(st.prefs, disclosure.NewGroup(), settings.Options{
		Signal: theme.Terminal{},
		Logger: logger,
	})
	current := panel.Settings()

	themeValue := string(current.Theme)
	width := strconv.Itoa(current.IconWidth)
	height := strconv.Itoa(current.IconHeight)

	flagged := cmd.Flags().Changed("theme") || cmd.Flags().Changed("width") || cmd.Flags().Changed("height")
	if flagged {
		if cmd.Flags().Changed("theme") {
			themeValue = settingsTheme
		}
		if cmd.Flags().Changed("width") {
			width = settingsWidth
		}
		if cmd.Flags().Changed("height") {
			height = settingsHeight
		}
	} else {
		if !ui.IsInteractiveTerminal() {
			printSettings(panel)
			return nil
		}
		if err := settingsForm(st.prefs.Options(), &themeValue, &width, &height); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	pref, ok := prefs.ParseTheme(themeValue)
	if !ok {
		return fmt.Errorf("unknown theme %q (expected light, dark or system)", themeValue)
	}
	panel.Theme().SetPreference(pref)
	panel.Dimensions().SetRaw(dimension.Width, width, true)
	panel.Dimensions().SetRaw(dimension.Height, height, true)

	printSettings(panel)
	return nil
}

func settingsForm(opts prefs.Options, themeValue, width, height *string) error {
	sizeCheck := func(r prefs.Range) func(string) error {
		return func(s string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("enter a whole number between %d and %d", r.Min, r.Max)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Description("System follows the terminal background").
				Options(
					huh.NewOption("Light", string(prefs.ThemeLight)),
					huh.NewOption("Dark", string(prefs.ThemeDark)),
					huh.NewOption("System", string(prefs.ThemeSystem)),
				).
				Value(themeValue),
			huh.NewInput().
				Title("Icon width").
				Description(fmt.Sprintf("Pixels, %d to %d", opts.Width.Min, opts.Width.Max)).
				Validate(sizeCheck(opts.Width)).
				Value(width),
			huh.NewInput().
				Title("Icon height").
				Description(fmt.Sprintf("Pixels, %d to %d", opts.Height.Min, opts.Height.Max)).
				Validate(sizeCheck(opts.Height)).
				Value(height),
		),
	).WithTheme(ui.HuhTheme())
	return form.Run()
}

func printSettings(panel *settings.Panel) {
	s := panel.Settings()
	fmt.Println(ui.Header("Display settings"))
	fmt.Println(ui.KeyValue("Theme", theme.StateLabel(s.Theme, panel.Theme().Resolved())))
	fmt.Println(ui.KeyValue("Icon width", dimension.FormatPixels(s.IconWidth)))
	fmt.Println(ui.KeyValue("Icon height", dimension.FormatPixels(s.IconHeight)))
}
