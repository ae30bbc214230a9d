package reconcile

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"deluge-submit/core/deluge"
)

// Resolution is the outcome of submitting one item.
type Resolution struct {
	// ID is the identifier the daemon assigned. Empty means the daemon already had the torrent.
	ID string
	// Candidates lists every id that could have belonged to the item. More than one
	// means the choice of ID was ambiguous.
	Candidates []string
}

// Duplicate reports whether the daemon did not accept a new torrent.
func (r Resolution) Duplicate() bool {
	return r.ID == ""
}

// Resolver submits an item and discovers the identifier the daemon assigned to it.
// Errors wrapping ErrCommunication abort the batch, any other error fails only the item.
type Resolver interface {
	Resolve(ctx context.Context, item *StagedItem, opts deluge.AddOptions) (Resolution, error)
}

// PollDiff resolves ids for clients whose add call returns nothing: it snapshots the
// session before and after the add and takes the difference.
type PollDiff struct {
	client deluge.SyncClient
	settle time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPollDiff creates a poll-diff resolver that waits settle between add and second poll.
func NewPollDiff(client deluge.SyncClient, settle time.Duration) *PollDiff {
	return &PollDiff{client: client, settle: settle, sleep: sleepContext}
}

// Resolve implements Resolver.
func (p *PollDiff) Resolve(ctx context.Context, item *StagedItem, opts deluge.AddOptions) (Resolution, error) {
	before, err := p.snapshot(ctx)
	if err != nil {
		return Resolution{}, err
	}

	if err := p.client.AddTorrentFile(ctx, item.File, opts); err != nil {
		return Resolution{}, fmt.Errorf("%w: add %q: %v", ErrCommunication, item.Title, err)
	}

	if err := p.sleep(ctx, p.settle); err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrCommunication, err)
	}

	after, err := p.snapshot(ctx)
	if err != nil {
		return Resolution{}, err
	}

	added := before.Diff(after)
	if len(added) == 0 {
		return Resolution{}, nil
	}
	return Resolution{ID: added[0], Candidates: added}, nil
}

func (p *PollDiff) snapshot(ctx context.Context) (Snapshot, error) {
	ids, err := p.client.SessionState(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCommunication, err)
	}
	return NewSnapshot(ids), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DirectReturn resolves ids for clients whose add call yields the id.
type DirectReturn struct {
	client deluge.AsyncClient
}

// NewDirectReturn creates a direct-return resolver over client.
func NewDirectReturn(client deluge.AsyncClient) *DirectReturn {
	return &DirectReturn{client: client}
}

// Begin issues the add call for item and returns the pending id.
// The file content travels base64 encoded under the item's title.
func (d *DirectReturn) Begin(ctx context.Context, item *StagedItem, opts deluge.AddOptions) *deluge.Future[string] {
	content, err := os.ReadFile(item.File)
	if err != nil {
		return deluge.Rejected[string](fmt.Errorf("failed to read staged file: %w", err))
	}
	return d.client.AddTorrentFile(ctx, item.Title, base64.StdEncoding.EncodeToString(content), opts)
}

// Resolve implements Resolver by waiting for Begin's result.
func (d *DirectReturn) Resolve(ctx context.Context, item *StagedItem, opts deluge.AddOptions) (Resolution, error) {
	f := d.Begin(ctx, item, opts)
	select {
	case <-ctx.Done():
		return Resolution{}, fmt.Errorf("%w: %v", ErrCommunication, ctx.Err())
	case <-f.Done():
	}

	id, err := f.Result()
	if err != nil {
		return Resolution{}, err
	}
	if id == "" {
		return Resolution{}, nil
	}
	return Resolution{ID: id, Candidates: []string{id}}, nil
}
