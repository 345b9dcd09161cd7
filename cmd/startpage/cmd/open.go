package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/launch"
	"github.com/iiroan/startpage/internal/ui"
)

var openCmd = &cobra.Command{
	Use:   "open [name]",
	Short: "Open one of the page's link tiles",
	Long: `Open one of the page's link tiles in a browser. The name matches
case-insensitively, and a unique prefix is enough. Without a name, a picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	if len(cfg.Links) == 0 {
		return fmt.Errorf("no links configured")
	}

	var link config.Link
	if len(args) == 1 {
		found, err := findLink(cfg.Links, args[0])
		if err != nil {
			return err
		}
		link = found
	} else {
		items := make([]ui.PickItem, len(cfg.Links))
		for i, l := range cfg.Links {
			items[i] = ui.PickItem{ID: strconv.Itoa(i), TitleText: l.Name, Details: l.URL}
		}
		choice, err := ui.Pick("Open link", items)
		if err != nil {
			return err
		}
		if choice == ui.PickCancelled {
			return nil
		}
		i, err := strconv.Atoi(choice)
		if err != nil {
			return err
		}
		link = cfg.Links[i]
	}

	launch.Quiet()
	opener := launch.New(cfg.Opener, cfg.OpenerTimeout(), logger)
	return ui.RunWithSpinner("Opening "+link.Name, func() error {
		return opener.OpenContext(cmd.Context(), link.URL)
	})
}

func findLink(links []config.Link, name string) (config.Link, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var matches []config.Link
	for _, l := range links {
		lower := strings.ToLower(l.Name)
		if lower == name {
			return l, nil
		}
		if strings.HasPrefix(lower, name) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return config.Link{}, fmt.Errorf("no link named %q", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, l := range matches {
			names[i] = l.Name
		}
		return config.Link{}, fmt.Errorf("%q is ambiguous: %s", name, strings.Join(names, ", "))
	}
}
