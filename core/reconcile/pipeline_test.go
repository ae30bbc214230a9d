package reconcile

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"deluge-submit/core/deluge"
	"deluge-submit/core/deluge/mocks"
	"deluge-submit/core/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func done() *deluge.Future[struct{}] {
	return deluge.Resolved(struct{}{})
}

func TestPipeline_AppliesOptionsInOrder(t *testing.T) {
	dir := t.TempDir()
	movedone := dir + "/done"
	e := newEntry("Show.S01E01", stage(t, dir, "a.torrent", "alpha"), map[string]any{
		"movedone":   movedone,
		"label":      "TV",
		"queuetotop": true,
	})
	item := NewItem(e, deluge.Defaults())
	tr := newTestTracker(entry.NewTask("tv", e), item)

	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { calls = append(calls, name) }
	}

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, deluge.ConnectOptions{Host: "localhost", Port: 58846}).Return(done()).Once()
	client.On("AddTorrentFile", mock.Anything, "Show.S01E01", base64.StdEncoding.EncodeToString([]byte("alpha")), deluge.AddOptions{}).
		Run(func(mock.Arguments) {
			// The item is marked submitted before the add leaves.
			assert.Equal(t, StatusSubmitted, item.Status)
			calls = append(calls, "add")
		}).
		Return(deluge.Resolved("abc")).Once()
	client.On("SetMoveCompleted", mock.Anything, "abc", true).Run(record("move")).Return(done()).Once()
	client.On("SetMoveCompletedPath", mock.Anything, "abc", movedone).Run(record("path")).Return(done()).Once()
	client.On("EnablePlugin", mock.Anything, "Label").Run(record("plugin")).Return(done()).Once()
	client.On("Labels", mock.Anything).Return(deluge.Resolved([]string{"tv"})).Once()
	client.On("SetTorrentLabel", mock.Anything, "abc", "tv").Run(record("label")).Return(done()).Once()
	client.On("QueueTop", mock.Anything, []string{"abc"}).Run(record("queue")).Return(done()).Once()
	client.On("Disconnect", mock.Anything).Return(done()).Once()

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(context.Background(), NewLoop(), tr)
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.Equal(t, StatusConfirmed, item.Status)
	assert.Equal(t, "abc", item.ID)
	assert.Equal(t, []string{"add", "move", "path", "plugin", "label", "queue"}, calls)
	assert.DirExists(t, movedone)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "AddLabel", mock.Anything, mock.Anything)
}

func TestPipeline_OptionFailureKeepsConfirmed(t *testing.T) {
	dir := t.TempDir()
	e := newEntry("A", stage(t, dir, "a.torrent", "alpha"), map[string]any{"label": "hd"})
	item := NewItem(e, deluge.Defaults())
	tr := newTestTracker(entry.NewTask("tv", e), item)

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, mock.Anything).Return(done())
	client.On("AddTorrentFile", mock.Anything, "A", mock.Anything, mock.Anything).Return(deluge.Resolved("abc"))
	client.On("EnablePlugin", mock.Anything, "Label").Return(deluge.Rejected[struct{}](errors.New("no such plugin")))
	client.On("Labels", mock.Anything).Return(deluge.Resolved([]string{}))
	client.On("AddLabel", mock.Anything, "hd").Return(done()).Once()
	client.On("SetTorrentLabel", mock.Anything, "abc", "hd").Return(deluge.Rejected[struct{}](errors.New("boom")))
	client.On("Disconnect", mock.Anything).Return(done()).Once()

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(context.Background(), NewLoop(), tr)
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.Equal(t, StatusConfirmed, item.Status)
	client.AssertNumberOfCalls(t, "Disconnect", 1)
}

func TestPipeline_ConnectFailure(t *testing.T) {
	dir := t.TempDir()
	f := stage(t, dir, "a.torrent", "alpha")
	e := newEntry("A", f, nil)
	item := NewItem(e, deluge.Defaults())
	task := entry.NewTask("tv", e)
	tr := newTestTracker(task, item)

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, mock.Anything).Return(deluge.Rejected[struct{}](errors.New("bad credentials")))

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(context.Background(), NewLoop(), tr)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "bad credentials")
	assert.Equal(t, LoopAborted, state)
	assert.Equal(t, StatusFailed, item.Status)
	assert.Equal(t, ReasonConnect, item.Reason)
	assert.False(t, fileExists(f))
	assert.Len(t, task.Failed(), 1)

	client.AssertNotCalled(t, "AddTorrentFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "Disconnect", mock.Anything)
}

func TestPipeline_Stalled(t *testing.T) {
	dir := t.TempDir()
	submitted := stage(t, dir, "a.torrent", "alpha")
	e := newEntry("A", submitted, nil)
	item := NewItem(e, deluge.Defaults())
	tr := newTestTracker(entry.NewTask("tv", e), item)

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, mock.Anything).Return(done())
	client.On("AddTorrentFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(deluge.NewFuture[string]())
	client.On("Disconnect", mock.Anything).Return(done()).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(ctx, NewLoop(), tr)
	assert.ErrorIs(t, err, ErrLoopStalled)
	assert.Equal(t, LoopAborted, state)
	assert.Equal(t, StatusFailed, item.Status)
	assert.Equal(t, ReasonStalled, item.Reason)
	assert.False(t, fileExists(submitted))
	client.AssertNumberOfCalls(t, "Disconnect", 1)
}

func TestPipeline_RenderErrorKeepsFile(t *testing.T) {
	dir := t.TempDir()
	bad := stage(t, dir, "bad.torrent", "bad")
	good := stage(t, dir, "good.torrent", "good")
	e1 := newEntry("Bad", bad, map[string]any{"path": "/tv/{{.series}}"})
	e2 := newEntry("Good", good, nil)
	i1, i2 := NewItem(e1, deluge.Defaults()), NewItem(e2, deluge.Defaults())
	tr := newTestTracker(entry.NewTask("tv", e1, e2), i1, i2)

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, mock.Anything).Return(done())
	client.On("AddTorrentFile", mock.Anything, "Good", mock.Anything, mock.Anything).Return(deluge.Resolved("abc")).Once()
	client.On("Disconnect", mock.Anything).Return(done()).Once()

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(context.Background(), NewLoop(), tr)
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)

	assert.Equal(t, StatusFailed, i1.Status)
	assert.Contains(t, i1.Reason, "series")
	assert.True(t, fileExists(bad))
	assert.Equal(t, StatusConfirmed, i2.Status)
	assert.False(t, fileExists(good))
	client.AssertExpectations(t)
}

func TestPipeline_EmptyAfterFailures(t *testing.T) {
	dir := t.TempDir()
	e := newEntry("Gone", dir+"/missing.torrent", nil)
	item := NewItem(e, deluge.Defaults())
	tr := newTestTracker(entry.NewTask("tv", e), item)

	client := new(mocks.AsyncClient)
	client.On("Connect", mock.Anything, mock.Anything).Return(done())
	client.On("Disconnect", mock.Anything).Return(deluge.Rejected[struct{}](errors.New("already closed"))).Once()

	state, err := NewPipeline(client, deluge.Defaults(), zap.NewNop()).Run(context.Background(), NewLoop(), tr)
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.Equal(t, StatusFailed, item.Status)
	assert.Contains(t, item.Reason, ReasonStagedMissing)
	client.AssertExpectations(t)
}
