package reconcile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"deluge-submit/core/deluge"

	"go.uber.org/zap"
)

// labelPlugin is the daemon plugin that owns labels on the legacy generation.
const labelPlugin = "label"

// SyncReconciler submits a batch through a blocking client, one item at a time.
type SyncReconciler struct {
	client     deluge.SyncClient
	resolver   Resolver
	logger     *zap.Logger
	stagingDir string
}

// NewSyncReconciler creates a reconciler. The resolver defaults to poll-diff over client.
func NewSyncReconciler(client deluge.SyncClient, resolver Resolver, logger *zap.Logger, stagingDir string) *SyncReconciler {
	if resolver == nil {
		resolver = NewPollDiff(client, deluge.DefaultSettleDelay)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncReconciler{client: client, resolver: resolver, logger: logger, stagingDir: stagingDir}
}

// Run processes every pending item in order. A communication failure aborts the
// remaining items and is returned.
func (s *SyncReconciler) Run(ctx context.Context, t *tracker) error {
	for _, item := range t.batch.Items {
		if item.Status.IsTerminal() {
			continue
		}
		if err := s.process(ctx, t, item); err != nil {
			s.logger.Error("Lost connection to deluge daemon", zap.String("title", item.Title), zap.Error(err))
			t.abort(ctx, ErrCommunication.Error())
			return err
		}
	}
	return nil
}

func (s *SyncReconciler) process(ctx context.Context, t *tracker, item *StagedItem) error {
	if !staged(item) {
		dir := s.stagingDir
		if dir == "" && item.File != "" {
			dir = filepath.Dir(item.File)
		}
		s.logger.Debug("Staged file missing",
			zap.String("title", item.Title),
			zap.String("file", item.File),
			zap.String("staging", stagingListing(dir)),
		)
		t.fail(ctx, item, fmt.Sprintf("%s: %s", ReasonStagedMissing, item.File))
		return nil
	}

	addOpts, err := addOptions(item)
	if err != nil {
		t.fail(ctx, item, err.Error())
		return nil
	}
	postOpts, err := postAddOptions(item)
	if err != nil {
		t.fail(ctx, item, err.Error())
		return nil
	}

	if err := t.submit(item); err != nil {
		return err
	}
	res, err := s.resolver.Resolve(ctx, item, addOpts)
	if err != nil {
		if errors.Is(err, ErrCommunication) {
			return err
		}
		t.fail(ctx, item, fmt.Sprintf("could not be added to service: %v", err))
		return nil
	}
	s.logger.Info("Torrent added to deluge",
		zap.String("title", item.Title),
		zap.String("download_location", addOpts.DownloadLocation),
	)

	if res.Duplicate() {
		s.logger.Info("Torrent is already loaded in deluge, cannot set movedone, label or queuetotop",
			zap.String("title", item.Title))
		return t.finish(ctx, item, StatusDuplicate)
	}
	if len(res.Candidates) > 1 {
		s.logger.Warn("Several torrents appeared during one add, picking the first",
			zap.String("title", item.Title),
			zap.Strings("candidates", res.Candidates),
			zap.String("id", res.ID),
		)
	}
	if !item.resolved {
		item.ID = res.ID
		item.resolved = true
	}

	s.apply(ctx, item, postOpts)
	return t.finish(ctx, item, StatusConfirmed)
}

// apply sets the post-add options on a resolved item. Failures are logged and the
// item stays confirmed.
func (s *SyncReconciler) apply(ctx context.Context, item *StagedItem, opts PostAddOptions) {
	log := s.logger.With(zap.String("title", item.Title), zap.String("id", item.ID))

	if opts.MoveDone != "" {
		if err := s.setMoveDone(ctx, item.ID, opts.MoveDone); err != nil {
			log.Warn("Failed to set move on complete", zap.String("movedone", opts.MoveDone), zap.Error(err))
		} else {
			log.Debug("Move on complete set", zap.String("movedone", opts.MoveDone))
		}
	}

	if opts.Label != "" {
		if err := s.setLabel(ctx, item.ID, opts.Label); err != nil {
			log.Warn("Failed to set label", zap.String("label", opts.Label), zap.Error(err))
		} else {
			log.Debug("Label set", zap.String("label", opts.Label))
		}
	}

	if opts.QueueToTop {
		if err := s.client.QueueTop(ctx, []string{item.ID}); err != nil {
			log.Warn("Failed to move torrent to top of queue", zap.Error(err))
		} else {
			log.Debug("Moved to top of queue")
		}
	}
}

func (s *SyncReconciler) setMoveDone(ctx context.Context, id, path string) error {
	if err := s.client.SetMoveCompleted(ctx, id, true); err != nil {
		return err
	}
	return s.client.SetMoveCompletedPath(ctx, id, path)
}

func (s *SyncReconciler) setLabel(ctx context.Context, id, label string) error {
	plugins, err := s.client.EnabledPlugins(ctx)
	if err != nil {
		return err
	}
	if !contains(plugins, labelPlugin) {
		if err := s.client.EnablePlugin(ctx, labelPlugin); err != nil {
			return err
		}
	}

	labels, err := s.client.Labels(ctx)
	if err != nil {
		return err
	}
	if !contains(labels, label) {
		if err := s.client.AddLabel(ctx, label); err != nil {
			return err
		}
	}
	return s.client.SetTorrentLabel(ctx, id, label)
}
