package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"deluge-submit/core/entry"

	"go.uber.org/zap"
)

// StagingPlugin is the plugin that, when active for a run, keeps ownership of staged files.
const StagingPlugin = "download"

// OwnsStaging reports whether this engine is responsible for deleting staged files
// of the task's run.
func OwnsStaging(task *entry.Task) bool {
	return task == nil || !task.HasPlugin(StagingPlugin)
}

// Archiver keeps a copy of a staged file before it is deleted.
type Archiver interface {
	Archive(ctx context.Context, item *StagedItem) error
}

// TempFiles deletes staged files the engine owns, once per item.
type TempFiles struct {
	owned    bool
	reporter *Reporter
	archiver Archiver
	logger   *zap.Logger
}

// NewTempFiles creates the lifecycle manager for one batch. archiver may be nil.
func NewTempFiles(owned bool, reporter *Reporter, archiver Archiver, logger *zap.Logger) *TempFiles {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TempFiles{owned: owned, reporter: reporter, archiver: archiver, logger: logger}
}

// Owned reports whether files are deleted by this manager.
func (m *TempFiles) Owned() bool {
	return m.owned
}

// Release deletes the staged file of item and clears its path. Only the first call per
// item does anything. A file that is already gone fails the item through the reporter.
func (m *TempFiles) Release(ctx context.Context, item *StagedItem) {
	if !m.owned || item.released {
		return
	}
	item.released = true

	if item.File == "" {
		return
	}

	if _, err := os.Stat(item.File); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.reporter.Fail(item, fmt.Sprintf("%s: %s", ReasonStagedMissing, item.File))
			return
		}
		m.logger.Warn("Failed to stat staged file", zap.String("file", item.File), zap.Error(err))
		return
	}

	if m.archiver != nil {
		if err := m.archiver.Archive(ctx, item); err != nil {
			m.logger.Warn("Failed to archive staged file",
				zap.String("title", item.Title),
				zap.String("file", item.File),
				zap.Error(err),
			)
		}
	}

	if err := os.Remove(item.File); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("Failed to remove staged file", zap.String("file", item.File), zap.Error(err))
		return
	}
	m.logger.Debug("Removed staged file", zap.String("title", item.Title), zap.String("file", item.File))

	item.File = ""
	if item.Entry != nil {
		item.Entry.Delete("file")
	}
}
