package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"deluge-submit/core/config"
	"deluge-submit/core/database"
	"deluge-submit/core/deluge"
	"deluge-submit/core/deluge/memory"
	"deluge-submit/core/logger"
	"deluge-submit/core/storage"
	"deluge-submit/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkTest    bool
	checkFix     bool
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the daemon, archive bucket and history table",
	Long: `Runs the integrity checks concurrently: detects the installed deluge client and
opens one session, checks the archive bucket when archiving is enabled and compares
the submissions table with the history model when history is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		opts := integrity.Options{
			Prober: deluge.Default(),
			Deluge: cfg.Deluge,
			Bucket: cfg.Storage.Bucket,
			Region: cfg.Storage.Region,
			Prefix: cfg.Archive.Prefix,
		}
		if checkTest {
			reg := deluge.NewRegistry()
			memory.NewDaemon().Install(reg, true, true)
			opts.Prober = reg
		}

		// 3. Connect optional backends
		if cfg.Archive.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
			opts.Storage = store
		}
		if cfg.History.Enabled {
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			opts.DB = db
		}

		svc := integrity.NewService(opts, logg)

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		if checkFix && opts.Storage != nil {
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
		}

		// 4. Run
		report, runErr := svc.RunAll(ctx)
		for name, res := range report {
			fields := []zap.Field{zap.String("check", name), zap.String("status", res.Status)}
			if res.Error != "" {
				logg.Error("Check failed", append(fields, zap.String("error", res.Error))...)
				continue
			}
			logg.Info("Check completed", fields...)
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return runErr
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkTest, "test", false, "check against an in-memory daemon instead of the installed client")
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "create the archive bucket when missing")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "overall deadline for the checks")
}
