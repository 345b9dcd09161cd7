package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/launch"
	"github.com/iiroan/startpage/internal/ui"
)

var (
	searchEngine string
	searchPrint  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search with the active engine",
	Long: `Search with the active search engine and open the results in a browser.

--engine picks an engine by name for this search without changing the stored choice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchEngine, "engine", "e", "", "Engine name to use for this search")
	searchCmd.Flags().BoolVarP(&searchPrint, "print", "p", false, "Print the search URL instead of opening it")
}

func runSearch(cmd *cobra.Command, args []string) error {
	st := openStore(cmd.Context(), false)
	defer st.Close()

	sel := newSelector(st)
	active := sel.ActiveEngine()
	if searchEngine != "" {
		found := false
		for _, e := range sel.Engines() {
			if strings.EqualFold(e.Name, strings.TrimSpace(searchEngine)) {
				active = e
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown engine %q (available: %s)", searchEngine, strings.Join(engineNames(sel.Engines()), ", "))
		}
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("empty query")
	}
	target := engine.SearchURL(active.URL, query)

	if searchPrint {
		fmt.Println(target)
		return nil
	}

	launch.Quiet()
	opener := launch.New(cfg.Opener, cfg.OpenerTimeout(), logger)
	return ui.RunWithSpinner("Searching "+active.Name, func() error {
		return opener.OpenContext(cmd.Context(), target)
	})
}
