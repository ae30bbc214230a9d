package reconcile

import (
	"context"
	"fmt"

	"deluge-submit/core/deluge"
	"deluge-submit/core/entry"
	"deluge-submit/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registration describes where the engine sits in a run: the output phase at
// priority 1, after staging and before cleanup.
type Registration struct {
	Name     string
	Phase    string
	Priority int
	After    []string
	Before   []string
}

// Plugin is the engine's registration.
var Plugin = Registration{
	Name:     "deluge",
	Phase:    "output",
	Priority: 1,
	After:    []string{StagingPlugin},
	Before:   []string{"cleanup"},
}

// Prober detects the installed client generation.
type Prober interface {
	Probe(ctx context.Context) (deluge.Capability, error)
}

// Recorder persists the outcome of a batch.
type Recorder interface {
	Record(ctx context.Context, result *BatchResult) error
}

// Driver routes accepted entries of a run to the installed client generation.
type Driver struct {
	prober   Prober
	logger   *zap.Logger
	archiver Archiver
	recorder Recorder
	newID    func() string
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithArchiver keeps a copy of each staged file before it is deleted.
func WithArchiver(a Archiver) Option {
	return func(d *Driver) { d.archiver = a }
}

// WithRecorder persists every batch result.
func WithRecorder(r Recorder) Option {
	return func(d *Driver) { d.recorder = r }
}

// NewDriver creates a driver. prober is usually deluge.Default().
func NewDriver(prober Prober, opts ...Option) *Driver {
	d := &Driver{prober: prober, logger: zap.NewNop(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run submits the accepted entries of task. Disabled configs, empty runs and learn
// runs are skipped without touching the daemon. A connection failure fails every
// item and is returned wrapped in ErrConnection together with the result.
func (d *Driver) Run(ctx context.Context, task *entry.Task, cfg deluge.Config) (*BatchResult, error) {
	batchID := d.newID()
	log := logger.WithBatch(d.logger, batchID)
	result := &BatchResult{BatchID: batchID, Mode: ModeSkipped}

	accepted := task.Accepted()
	switch {
	case !cfg.Enabled:
		log.Debug("Deluge output disabled")
		return result, nil
	case len(accepted) == 0:
		log.Debug("No accepted entries")
		return result, nil
	case task.Learn:
		log.Info("Learn mode, not adding torrents", zap.Int("accepted", len(accepted)))
		return result, nil
	}

	capability, err := d.prober.Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect deluge client: %w", err)
	}
	log = log.With(zap.String("generation", capability.Generation.String()))

	items := make([]*StagedItem, 0, len(accepted))
	for _, e := range accepted {
		items = append(items, NewItem(e, cfg))
	}
	batch := NewBatch(batchID, items)
	reporter := NewReporter(batch, task, log)
	t := &tracker{
		batch:    batch,
		reporter: reporter,
		files:    NewTempFiles(OwnsStaging(task), reporter, d.archiver, log),
	}
	result.Items = items

	var runErr error
	switch capability.Generation {
	case deluge.GenerationLegacy:
		result.Mode = ModeSync
		runErr = d.runSync(ctx, t, capability, cfg, task.StagingDir, log)
	case deluge.GenerationRPC:
		result.Mode = ModeAsync
		result.Loop, runErr = d.runAsync(ctx, t, capability, cfg, log)
	default:
		return nil, deluge.ErrNoClient
	}

	result.Summary = batch.Summary()
	log.Info("Batch finished",
		zap.String("mode", string(result.Mode)),
		zap.Int("total", result.Summary.Total),
		zap.Int("confirmed", result.Summary.Confirmed),
		zap.Int("duplicate", result.Summary.Duplicate),
		zap.Int("failed", result.Summary.Failed),
	)

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, result); err != nil {
			log.Warn("Failed to record batch", zap.Error(err))
		}
	}
	return result, runErr
}

func (d *Driver) runSync(ctx context.Context, t *tracker, c deluge.Capability, cfg deluge.Config, stagingDir string, log *zap.Logger) error {
	client, err := c.NewSync(cfg)
	if err != nil {
		log.Warn("Connect to deluge daemon failed", zap.String("address", cfg.Address()), zap.Error(err))
		t.abandon(ctx, ReasonConnect)
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close deluge session", zap.Error(err))
		}
	}()

	r := NewSyncReconciler(client, NewPollDiff(client, cfg.SettleDelay), log, stagingDir)
	return r.Run(ctx, t)
}

func (d *Driver) runAsync(ctx context.Context, t *tracker, c deluge.Capability, cfg deluge.Config, log *zap.Logger) (LoopState, error) {
	client, err := c.NewAsync(cfg)
	if err != nil {
		log.Warn("Failed to create deluge client", zap.Error(err))
		t.abandon(ctx, ReasonConnect)
		return LoopAborted, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return NewPipeline(client, cfg, log).Run(ctx, NewLoop(), t)
}
