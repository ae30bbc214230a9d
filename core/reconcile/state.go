package reconcile

import (
	"context"
	"fmt"
)

// transition moves item to status to, keeping the batch counters in step.
// Allowed: Pending -> Submitted, Pending -> Failed, Submitted -> {Confirmed, Duplicate, Failed}.
func (b *Batch) transition(item *StagedItem, to Status) error {
	from := item.Status
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w for %q: %s -> %s", ErrInvalidTransition, item.Title, from, to)
	}
	item.Status = to

	switch to {
	case StatusSubmitted:
		b.summary.Submitted++
	case StatusConfirmed:
		b.summary.Confirmed++
	case StatusDuplicate:
		b.summary.Duplicate++
	case StatusFailed:
		b.summary.Failed++
	}
	return nil
}

func isAllowedTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusSubmitted || to == StatusFailed
	case StatusSubmitted:
		return to == StatusConfirmed || to == StatusDuplicate || to == StatusFailed
	default:
		return false
	}
}

// tracker bundles the per-batch collaborators both submission paths share.
type tracker struct {
	batch    *Batch
	reporter *Reporter
	files    *TempFiles
}

// submit marks item as handed to the daemon.
func (t *tracker) submit(item *StagedItem) error {
	return t.batch.transition(item, StatusSubmitted)
}

// finish moves a submitted item to Confirmed or Duplicate and releases its file.
func (t *tracker) finish(ctx context.Context, item *StagedItem, to Status) error {
	if err := t.batch.transition(item, to); err != nil {
		return err
	}
	t.files.Release(ctx, item)
	return nil
}

// fail reports item as failed. The staged file is released only when the item had
// already been handed to the daemon; an item that never left Pending keeps its file.
func (t *tracker) fail(ctx context.Context, item *StagedItem, reason string) {
	submitted := item.Status == StatusSubmitted
	t.reporter.Fail(item, reason)
	if submitted {
		t.files.Release(ctx, item)
	}
}

// abort fails every pending item with reason. Files are released for submitted
// items only.
func (t *tracker) abort(ctx context.Context, reason string) {
	t.abortPending(ctx, reason, false)
}

// abandon fails every pending item with reason and releases all of their files.
// Used when the daemon could not be reached at all.
func (t *tracker) abandon(ctx context.Context, reason string) {
	t.abortPending(ctx, reason, true)
}

func (t *tracker) abortPending(ctx context.Context, reason string, releaseAll bool) {
	submitted := make(map[*StagedItem]bool)
	for _, item := range t.batch.Pending() {
		submitted[item] = item.Status == StatusSubmitted
	}
	for _, item := range t.reporter.AbortPending(reason) {
		if releaseAll || submitted[item] {
			t.files.Release(ctx, item)
		}
	}
}
