package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/FluidXR/droidlog/internal/config"
	"github.com/FluidXR/droidlog/internal/logging"
)

// Version of droidlog.
const Version = "0.1.0"

var (
	settingsPath string
	verbose      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "droidlog",
	Short:   "Device helper for Android logcat sessions",
	Version: Version,
	Long: `droidlog wraps adb to list devices, resolve package process ids, capture
screenshots, and keep the logcat session state (selected device and package,
priority, tags, filter) in a JSON settings file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		level := logging.ParseLevel(cfg.LogLevel)
		if verbose {
			level = zerolog.DebugLevel
		}
		logging.Init(level, os.Stderr)
		return nil
	},
}

// resolvedSettingsPath returns the --settings flag value or the configured path.
func resolvedSettingsPath() string {
	if settingsPath != "" {
		return config.ExpandPath(settingsPath)
	}
	return config.ExpandPath(cfg.SettingsPath)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings file (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
