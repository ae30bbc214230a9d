package reconcile

import (
	"fmt"
	"sort"

	"deluge-submit/core/entry"
)

// Status is the lifecycle state of a staged item.
type Status int

const (
	StatusPending Status = iota
	StatusSubmitted
	StatusConfirmed
	StatusDuplicate
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSubmitted:
		return "submitted"
	case StatusConfirmed:
		return "confirmed"
	case StatusDuplicate:
		return "duplicate"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusDuplicate, StatusFailed:
		return true
	default:
		return false
	}
}

// StagedItem is one downloaded torrent waiting to be handed to the daemon.
type StagedItem struct {
	// Entry is the run entry this item was built from. Templates render against its fields.
	Entry *entry.Entry `json:"-"`

	// Title is the display name of the item.
	Title string `json:"title"`

	// File is the local path of the staged torrent file. Cleared once the file is released.
	File string `json:"file,omitempty"`

	// Path is the download location template.
	Path string `json:"-"`

	// MoveDone is the move-on-complete template.
	MoveDone string `json:"-"`

	// Label is the label template.
	Label string `json:"-"`

	// QueueToTop requests a move to the top of the queue.
	QueueToTop bool `json:"-"`

	// ID is the identifier the daemon assigned. Empty until resolved.
	ID string `json:"id,omitempty"`

	// Status is the current lifecycle state.
	Status Status `json:"-"`

	// Reason is the failure reason for failed items.
	Reason string `json:"reason,omitempty"`

	released bool
	resolved bool
}

// Snapshot is the set of torrent ids the daemon reported at one instant.
// It is never modified after creation.
type Snapshot struct {
	ids map[string]struct{}
}

// NewSnapshot captures a set of ids.
func NewSnapshot(ids []string) Snapshot {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Snapshot{ids: set}
}

// Len returns the number of ids in the snapshot.
func (s Snapshot) Len() int {
	return len(s.ids)
}

// Contains reports whether id is in the snapshot.
func (s Snapshot) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Diff returns the ids present in after but not in s, sorted ascending.
func (s Snapshot) Diff(after Snapshot) []string {
	var added []string
	for id := range after.ids {
		if _, ok := s.ids[id]; !ok {
			added = append(added, id)
		}
	}
	sort.Strings(added)
	return added
}

// PostAddOptions are the options applied to a torrent once its id is known.
type PostAddOptions struct {
	// MoveDone is the rendered move-on-complete path. Empty disables the step.
	MoveDone string
	// Label is the rendered, lower-cased label. Empty disables the step.
	Label string
	// QueueToTop moves the torrent to the top of the queue.
	QueueToTop bool
}

// Summary provides aggregate counts for a batch.
type Summary struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Confirmed int `json:"confirmed"`
	Duplicate int `json:"duplicate"`
	Failed    int `json:"failed"`
}

// Batch is the ordered set of items handled by one run.
type Batch struct {
	// ID correlates log lines and history rows of one run.
	ID string

	Items []*StagedItem

	summary Summary
}

// NewBatch creates a batch over items.
func NewBatch(id string, items []*StagedItem) *Batch {
	return &Batch{ID: id, Items: items, summary: Summary{Total: len(items)}}
}

// Summary returns the current counters.
func (b *Batch) Summary() Summary {
	return b.summary
}

// Complete reports whether every item has reached a terminal status.
func (b *Batch) Complete() bool {
	for _, item := range b.Items {
		if !item.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Pending returns the items that are not terminal yet.
func (b *Batch) Pending() []*StagedItem {
	var out []*StagedItem
	for _, item := range b.Items {
		if !item.Status.IsTerminal() {
			out = append(out, item)
		}
	}
	return out
}

// Mode identifies which path handled a batch.
type Mode string

const (
	ModeSkipped Mode = "skipped"
	ModeSync    Mode = "sync"
	ModeAsync   Mode = "async"
)

// BatchResult is what Driver.Run reports for one batch.
type BatchResult struct {
	BatchID string        `json:"batch_id"`
	Mode    Mode          `json:"mode"`
	Loop    LoopState     `json:"loop"`
	Items   []*StagedItem `json:"items"`
	Summary Summary       `json:"summary"`
}
