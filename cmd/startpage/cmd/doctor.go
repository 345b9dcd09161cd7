package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/ui"
	"github.com/iiroan/startpage/internal/validate"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, storage and browser access",
	Long: `Check that startpage can run here:
  - Configuration file
  - Preference storage (writes and deletes a probe key)
  - Stored settings and search engine records
  - Opening links (custom opener or system browser)`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var total validate.Result

	path, err := configPath()
	if err != nil {
		return err
	}
	section("Configuration", validate.Config(ctx, path), &total)

	storePath, err := cfg.StoragePath()
	if err != nil {
		return err
	}
	section("Storage", validate.Storage(ctx, cfg.Storage.Backend, storePath), &total)

	st := openStore(ctx, false)
	records := validate.Records(ctx, st.kv, st.prefs.Options(), cfg.Search.Key)
	st.Close()
	section("Records", records, &total)

	section("Opener", validate.Opener(ctx, cfg.Opener), &total)

	fmt.Println()
	switch {
	case !total.OK():
		fmt.Println(ui.ErrorBox.Render(fmt.Sprintf("%d problem(s) found", len(total.Errors))))
		return fmt.Errorf("doctor found %d problem(s)", len(total.Errors))
	case len(total.Warnings) > 0:
		fmt.Println(ui.InfoBox.Render(fmt.Sprintf("OK with %d warning(s)", len(total.Warnings))))
	default:
		fmt.Println(ui.InfoBox.Render("All checks passed"))
	}
	return nil
}

func section(title string, r validate.Result, total *validate.Result) {
	fmt.Println(ui.Title.Render(title))
	for _, item := range r.Items {
		line := fmt.Sprintf("  %s %s", statusMark(item.Status), item.Name)
		if item.Details != "" {
			line += ui.MutedStyle.Render(": " + item.Details)
		}
		fmt.Println(line)
	}
	total.Merge(r)
}

func statusMark(s validate.Status) string {
	switch s {
	case validate.StatusSuccess:
		return ui.StatusSuccess.String()
	case validate.StatusError:
		return ui.StatusError.String()
	case validate.StatusWarning:
		return ui.WarningStyle.Render("!")
	default:
		return ui.StatusPending.String()
	}
}
