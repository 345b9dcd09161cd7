package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/ui"
)

var prefsYes bool

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and maintain stored preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the raw stored records",
	RunE:  runPrefsShow,
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored display settings",
	RunE:  runPrefsReset,
}

var prefsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Carry a legacy theme value over into the settings record",
	RunE:  runPrefsMigrate,
}

func init() {
	prefsResetCmd.Flags().BoolVarP(&prefsYes, "yes", "y", false, "Do not ask for confirmation")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsResetCmd)
	prefsCmd.AddCommand(prefsMigrateCmd)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	opts := st.prefs.Options()
	fmt.Println(ui.Header("Stored preferences"))
	fmt.Println(ui.KeyValue("Backend", cfg.Storage.Backend))
	fmt.Println(ui.KeyValue("Path", st.path))
	for _, key := range []string{opts.Key, opts.LegacyKey, cfg.Search.Key} {
		if key == "" {
			continue
		}
		value, ok := st.prefs.Raw(key)
		if !ok {
			value = ui.MutedStyle.Render("(not set)")
		}
		fmt.Println(ui.KeyValue(key, value))
	}

	s := st.prefs.Load()
	fmt.Println()
	fmt.Println(ui.KeyValue("Effective", fmt.Sprintf("theme=%s width=%d height=%d", s.Theme, s.IconWidth, s.IconHeight)))
	return nil
}

func runPrefsReset(cmd *cobra.Command, args []string) error {
	if !prefsYes {
		if !ui.IsInteractiveTerminal() {
			return fmt.Errorf("refusing to reset without --yes on a non-interactive terminal")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset display settings?").
			Description("Theme and icon size go back to their defaults.").
			Value(&confirmed).
			WithTheme(ui.HuhTheme()).
			Run()
		if err != nil || !confirmed {
			return nil
		}
	}

	st := openStore(cmd.Context(), false)
	defer st.Close()

	st.prefs.Reset()
	fmt.Println(ui.StatusSuccess.String() + " Display settings reset")
	return nil
}

func runPrefsMigrate(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	legacy, ok := st.prefs.MigrateLegacy()
	if !ok {
		fmt.Println(ui.MutedStyle.Render("No legacy theme value to migrate."))
		return nil
	}

	// Load already prefers the legacy value when no record exists, so saving it is enough.
	s := st.prefs.Load()
	st.prefs.Save(s)
	fmt.Printf("%s Migrated legacy theme %q, now stored as %s\n", ui.StatusSuccess.String(), legacy, s.Theme)
	return nil
}
