package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/ui"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List or switch search engines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnginesList(cmd, args)
	},
}

var enginesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List search engines and mark the active one",
	RunE:  runEnginesList,
}

var enginesUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Make a search engine the active one",
	Long: `Make a search engine the active one. The choice is stored exactly as the
page stores it, so the page picks it up on its next start.

Without a name, an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnginesUse,
}

func init() {
	enginesCmd.AddCommand(enginesListCmd)
	enginesCmd.AddCommand(enginesUseCmd)
}

func engineNames(engines []engine.Engine) []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name
	}
	return names
}

func runEnginesList(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	sel := newSelector(st)
	fmt.Println(ui.Header("Search engines"))
	for i, e := range sel.Engines() {
		marker := ui.StatusPending.String()
		name := e.Name
		if i == sel.Active() {
			marker = ui.StatusActive.String()
			name = ui.AccentStyle.Render(name)
		}
		fmt.Printf("  %s %d. %s  %s\n", marker, i+1, name, ui.MutedStyle.Render(e.URL))
	}
	if sel.Restored() {
		fmt.Println()
		fmt.Println(ui.MutedStyle.Render("The list was restored from storage."))
	}
	return nil
}

func runEnginesUse(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	sel := newSelector(st)

	if len(args) == 1 {
		if !sel.SelectByName(args[0]) {
			return fmt.Errorf("unknown engine %q", args[0])
		}
		printActive(sel.ActiveEngine())
		return nil
	}

	index, err := pickEngine(sel.Engines(), sel.Active())
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	if index < 0 {
		return nil
	}
	sel.Select(index)
	printActive(sel.ActiveEngine())
	return nil
}

// pickEngine shows the list picker, falling back to a form select when the picker cannot run.
// A negative index means the user backed out.
func pickEngine(engines []engine.Engine, active int) (int, error) {
	items := make([]ui.PickItem, len(engines))
	for i, e := range engines {
		items[i] = ui.PickItem{ID: strconv.Itoa(i), TitleText: e.Name, Details: e.URL, Current: i == active}
	}

	choice, err := ui.Pick("Search engine", items)
	if err == nil {
		if choice == ui.PickCancelled {
			return -1, nil
		}
		return strconv.Atoi(choice)
	}
	logger.Debug("picker unavailable, using form", "error", err)

	options := make([]huh.Option[int], len(engines))
	for i, e := range engines {
		options[i] = huh.NewOption(e.Name, i)
	}
	index := active
	err = huh.NewSelect[int]().
		Title("Search engine").
		Description("Used by the search box and 'startpage search'").
		Options(options...).
		Value(&index).
		WithTheme(ui.HuhTheme()).
		Run()
	if err != nil {
		return -1, err
	}
	return index, nil
}

func printActive(e engine.Engine) {
	fmt.Println(ui.StatusSuccess.String() + " " + engine.Placeholder(e))
}
