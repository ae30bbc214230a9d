package cmd

import (
	"fmt"
	"os"

	"deluge-submit/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where .env and config.yaml are looked up.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "deluge-submit",
	Short: "Deluge Submission Service",
	Long: `deluge-submit hands staged torrent files to a Deluge daemon, applies
per-torrent options once the daemon has assigned an id, and reports
which entries were added, already present or failed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding .env and config.yaml")
}
