package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/launch"
	"github.com/iiroan/startpage/internal/theme"
	"github.com/iiroan/startpage/internal/ui"
	"github.com/iiroan/startpage/internal/version"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	cfgFile string
	logger  *log.Logger
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "startpage",
	Short: "A terminal start page",
	Long: `startpage is a terminal start page: a search box with a switchable
search engine, link tiles, and display settings for theme and icon size.

Run without arguments to open the page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		if cmd.Name() != "version" && cmd.Name() != "help" {
			path, err := configPath()
			if err == nil {
				cfg, err = config.Load(path)
			}
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Warn("could not load config, using defaults", "error", err)
				cfg = config.DefaultConfig()
			}
		}

		applyUISettings()
		setupLogger()
		if cfg != nil && cfg.Appearance.Palette != "" && !slices.Contains(ui.ThemeNames(), cfg.Appearance.Palette) {
			logger.Warn("unknown palette, using default", "palette", cfg.Appearance.Palette, "known", ui.ThemeNames())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		if !ui.IsInteractiveTerminal() {
			return fmt.Errorf("the start page needs an interactive terminal; try 'startpage search'")
		}
		return runPage()
	},
}

func runPage() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The page owns the screen; log lines go to a file when asked for, otherwise nowhere.
	out, closeLog := pageLogOutput()
	defer closeLog()
	logger.SetOutput(out)

	st := openStore(ctx, true)
	defer st.Close()

	launch.Quiet()
	opener := launch.New(cfg.Opener, cfg.OpenerTimeout(), logger)

	page := ui.NewPage(ui.PageOptions{
		Config:  cfg,
		Store:   st.prefs,
		Signal:  theme.NewLive(theme.Terminal{}.PrefersDark()),
		Opener:  opener,
		Version: version.Current(),
		Logger:  logger,
		Watch:   st.watch,
	})
	return ui.Run(ctx, page)
}

func pageLogOutput() (io.Writer, func()) {
	if !verbose {
		return io.Discard, func() {}
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return io.Discard, func() {}
	}
	path := filepath.Join(dir, "startpage", "startpage.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.GetConfigPath()
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && logger != nil {
		logger.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/startpage/config.yaml)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func applyUISettings() {
	palette := ""
	if cfg != nil {
		palette = cfg.Appearance.Palette
	}
	ui.ApplyPreferences(ui.Preferences{
		Palette: palette,
		NoColor: noColor || ui.ColorDisabled(),
	}, theme.Terminal{}.PrefersDark())
}

func setupLogger() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.WarnLevel
	}

	styles := log.DefaultStyles()
	if !noColor && !ui.ColorDisabled() {
		styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
			SetString("DEBUG").
			Foreground(ui.Muted).
			Bold(true)
		styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
			SetString("INFO").
			Foreground(ui.Primary).
			Bold(true)
		styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
			SetString("WARN").
			Foreground(ui.Warning).
			Bold(true)
		styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
			SetString("ERROR").
			Foreground(ui.Error).
			Bold(true)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
	logger.SetStyles(styles)
}
