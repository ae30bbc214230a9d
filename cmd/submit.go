package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deluge-submit/core/config"
	"deluge-submit/core/deluge"
	"deluge-submit/core/deluge/memory"
	"deluge-submit/core/logger"
	"deluge-submit/core/manifest"
	"deluge-submit/core/reconcile"
	"deluge-submit/feature/dump"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	submitTest   bool
	submitLearn  bool
	submitDump   []string
	submitSettle time.Duration
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit <manifest.yaml>",
	Short: "Submit the entries of a batch manifest to deluge",
	Long: `Reads a batch manifest, hands every accepted entry's staged torrent file to the
installed deluge client and applies move-on-complete, label and queue options.
Entries the daemon already knows are reported as duplicates.`,
	Args: cobra.ExactArgs(1),
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

		var dumpOpts dump.Options
		if cmd.Flags().Changed("dump") {
			if dumpOpts, err = dump.ParseOptions(submitDump); err != nil {
				return err
			}
		}

		// 3. Read Manifest
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		delugeCfg, err := m.Config(cfg.Deluge)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("settle") {
			delugeCfg.SettleDelay = submitSettle
		}
		task := m.Task()
		if submitLearn {
			task.Learn = true
		}

		// 4. Select Client Registry
		registry := deluge.Default()
		if submitTest {
			registry = deluge.NewRegistry()
			memory.NewDaemon().Install(registry, true, true)
			logg.Info("Test mode, using the in-memory daemon")
		}

		// 5. Wire Optional Features
		feats, err := openFeatures(cfg, logg)
		if err != nil {
			return err
		}
		opts := []reconcile.Option{reconcile.WithLogger(logg)}
		if feats.archive.IsEnabled() {
			opts = append(opts, reconcile.WithArchiver(feats.archive.Service()))
		}
		if feats.history.IsEnabled() {
			if cfg.History.AutoMigrate {
				if err := feats.history.Service().Migrate(); err != nil {
					return err
				}
			}
			opts = append(opts, reconcile.WithRecorder(feats.history.Service()))
		}

		logg.Info("Submitting batch",
			zap.String("task", task.Name),
			zap.String("plugin", reconcile.Plugin.Name),
			zap.String("phase", reconcile.Plugin.Phase),
			zap.Int("entries", len(task.Accepted())),
			zap.String("address", delugeCfg.Address()),
		)

		// 6. Run
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, runErr := reconcile.NewDriver(registry, opts...).Run(ctx, task, delugeCfg)

		if cmd.Flags().Changed("dump") && result != nil {
			if err := dump.Dump(cmd.OutOrStdout(), result, dumpOpts); err != nil {
				return err
			}
		}
		if runErr != nil {
			return fmt.Errorf("batch failed: %w", runErr)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(submitCmd)
	submitCmd.Flags().BoolVar(&submitTest, "test", false, "submit to an in-memory daemon instead of the installed client")
	submitCmd.Flags().BoolVar(&submitLearn, "learn", false, "record the run without adding anything")
	submitCmd.Flags().StringSliceVar(&submitDump, "dump", nil, "print the batch result; accepts all, title or state names")
	submitCmd.Flags().Lookup("dump").NoOptDefVal = "all"
	submitCmd.Flags().DurationVar(&submitSettle, "settle", deluge.DefaultSettleDelay, "legacy client wait between add and second snapshot")
}
