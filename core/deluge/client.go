package deluge

import "context"

// AddOptions are sent with an add call.
type AddOptions struct {
	// DownloadLocation overrides the daemon's download directory when non-empty.
	DownloadLocation string
}

// ConnectOptions identify the daemon session to open.
type ConnectOptions struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SyncClient is the legacy, blocking client generation.
// Its add call does not report the identifier of the added torrent; callers
// discover it by diffing SessionState before and after the add.
type SyncClient interface {
	// SessionState returns the ids of every torrent the daemon currently knows.
	SessionState(ctx context.Context) ([]string, error)
	// AddTorrentFile adds a torrent from a local file path.
	AddTorrentFile(ctx context.Context, path string, opts AddOptions) error
	// SetMoveCompleted toggles move-on-complete for a torrent.
	SetMoveCompleted(ctx context.Context, id string, enabled bool) error
	// SetMoveCompletedPath sets the move-on-complete destination for a torrent.
	SetMoveCompletedPath(ctx context.Context, id, path string) error
	// EnabledPlugins lists the daemon plugins currently enabled.
	EnabledPlugins(ctx context.Context) ([]string, error)
	// EnablePlugin enables a daemon plugin.
	EnablePlugin(ctx context.Context, name string) error
	// Labels lists the labels known to the label plugin.
	Labels(ctx context.Context) ([]string, error)
	// AddLabel creates a label.
	AddLabel(ctx context.Context, label string) error
	// SetTorrentLabel assigns a label to a torrent.
	SetTorrentLabel(ctx context.Context, id, label string) error
	// QueueTop moves torrents to the top of the queue.
	QueueTop(ctx context.Context, ids []string) error
	// Close releases the session.
	Close() error
}

// AsyncClient is the RPC client generation. Every call is non-blocking and
// returns a Future; AddTorrentFile resolves with the new torrent id, or with an
// empty id when the daemon already holds the same torrent.
type AsyncClient interface {
	Connect(ctx context.Context, opts ConnectOptions) *Future[struct{}]
	AddTorrentFile(ctx context.Context, filename, filedump string, opts AddOptions) *Future[string]
	SetMoveCompleted(ctx context.Context, id string, enabled bool) *Future[struct{}]
	SetMoveCompletedPath(ctx context.Context, id, path string) *Future[struct{}]
	EnablePlugin(ctx context.Context, name string) *Future[struct{}]
	Labels(ctx context.Context) *Future[[]string]
	AddLabel(ctx context.Context, label string) *Future[struct{}]
	SetTorrentLabel(ctx context.Context, id, label string) *Future[struct{}]
	QueueTop(ctx context.Context, ids []string) *Future[struct{}]
	Disconnect(ctx context.Context) *Future[struct{}]
}
