package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"deluge-submit/core/entry"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stage writes a staged torrent file and returns its path.
func stage(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newEntry(title, file string, extra map[string]any) *entry.Entry {
	fields := map[string]any{"title": title, "file": file}
	for k, v := range extra {
		fields[k] = v
	}
	return entry.New(fields)
}

func newTestTracker(task *entry.Task, items ...*StagedItem) *tracker {
	batch := NewBatch("test", items)
	reporter := NewReporter(batch, task, zap.NewNop())
	return &tracker{
		batch:    batch,
		reporter: reporter,
		files:    NewTempFiles(true, reporter, nil, zap.NewNop()),
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
