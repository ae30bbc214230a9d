package reconcile

import (
	"deluge-submit/core/entry"

	"go.uber.org/zap"
)

// Failer is the run-level sink that records a failed entry.
type Failer interface {
	Fail(e *entry.Entry, reason string)
}

// Reporter is the single channel through which items are marked failed.
// It never returns an error and never aborts the batch.
type Reporter struct {
	batch  *Batch
	sink   Failer
	logger *zap.Logger
}

// NewReporter creates a reporter for a batch. sink may be nil.
func NewReporter(batch *Batch, sink Failer, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{batch: batch, sink: sink, logger: logger}
}

// Fail records reason on item and moves it to Failed unless it is already terminal.
// A terminal item keeps its status and reason; the late failure is only logged.
func (r *Reporter) Fail(item *StagedItem, reason string) {
	if item.Status.IsTerminal() {
		r.logger.Warn("Ignoring failure for finished item",
			zap.String("title", item.Title),
			zap.String("status", item.Status.String()),
			zap.String("reason", reason),
		)
		return
	}

	if err := r.batch.transition(item, StatusFailed); err != nil {
		r.logger.Error("Failed to mark item failed", zap.String("title", item.Title), zap.Error(err))
		return
	}
	item.Reason = reason
	r.logger.Info("Item failed", zap.String("title", item.Title), zap.String("reason", reason))

	if r.sink != nil && item.Entry != nil {
		r.sink.Fail(item.Entry, reason)
	}
}

// AbortPending fails every non-terminal item of the batch with one shared reason
// and returns the items it failed.
func (r *Reporter) AbortPending(reason string) []*StagedItem {
	pending := r.batch.Pending()
	for _, item := range pending {
		r.Fail(item, reason)
	}
	return pending
}
