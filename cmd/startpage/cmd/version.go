package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/ui"
	"github.com/iiroan/startpage/internal/version"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information about startpage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Current()
		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(ui.Header("startpage"))
		fmt.Println(ui.KeyValue("Version", info.Version))
		if info.Commit != "" {
			commit := info.ShortCommit()
			if info.Dirty {
				commit += " (dirty)"
			}
			fmt.Println(ui.KeyValue("Commit", commit))
		}
		if !info.BuildDate.IsZero() {
			fmt.Println(ui.KeyValue("Build Date", info.BuildDate.Format("2006-01-02 15:04")))
		}
		fmt.Println(ui.KeyValue("Go Version", info.GoVersion))
		fmt.Println(ui.KeyValue("OS/Arch", info.Platform))

		labels := info.Labels()
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			fields = append(fields, k, labels[k])
		}
		logger.Debug("build", fields...)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print as JSON")
}
