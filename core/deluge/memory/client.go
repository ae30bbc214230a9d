package memory

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"deluge-submit/core/deluge"
)

// LegacyClient implements deluge.SyncClient against a Daemon.
type LegacyClient struct {
	d      *Daemon
	mu     sync.Mutex
	closed bool
}

// Legacy opens a legacy session on the daemon.
func (d *Daemon) Legacy() *LegacyClient {
	return &LegacyClient{d: d}
}

var _ deluge.SyncClient = (*LegacyClient)(nil)

func (c *LegacyClient) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return deluge.ErrNotConnected
	}
	return nil
}

func (c *LegacyClient) SessionState(ctx context.Context) ([]string, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return c.d.sessionState(), nil
}

func (c *LegacyClient) AddTorrentFile(ctx context.Context, path string, opts deluge.AddOptions) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read torrent file: %w", err)
	}
	name := filepath.Base(path)

	if c.d.RegisterDelay <= 0 {
		_, err := c.d.add(name, content, opts.DownloadLocation)
		return err
	}

	c.d.mu.Lock()
	failErr, fail := c.d.FailAdd[name]
	c.d.mu.Unlock()
	if fail {
		return failErr
	}
	time.AfterFunc(c.d.RegisterDelay, func() {
		_, _ = c.d.add(name, content, opts.DownloadLocation)
	})
	return nil
}

func (c *LegacyClient) SetMoveCompleted(ctx context.Context, id string, enabled bool) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	return c.d.withTorrent(id, func(t *Torrent) error {
		t.MoveCompleted = enabled
		return nil
	})
}

func (c *LegacyClient) SetMoveCompletedPath(ctx context.Context, id, path string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	return c.d.withTorrent(id, func(t *Torrent) error {
		t.MoveCompletedPath = path
		return nil
	})
}

func (c *LegacyClient) EnabledPlugins(ctx context.Context) ([]string, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return c.d.enabledPlugins(), nil
}

func (c *LegacyClient) EnablePlugin(ctx context.Context, name string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	c.d.enablePlugin(name)
	return nil
}

func (c *LegacyClient) Labels(ctx context.Context) ([]string, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	return c.d.labelList()
}

func (c *LegacyClient) AddLabel(ctx context.Context, label string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	return c.d.addLabel(label)
}

func (c *LegacyClient) SetTorrentLabel(ctx context.Context, id, label string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	return c.d.setLabel(id, label)
}

func (c *LegacyClient) QueueTop(ctx context.Context, ids []string) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	return c.d.queueTop(ids)
}

func (c *LegacyClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// RPCClient implements deluge.AsyncClient against a Daemon. Every call completes
// on its own goroutine.
type RPCClient struct {
	d         *Daemon
	mu        sync.Mutex
	connected bool
}

// RPC returns an unconnected RPC client for the daemon.
func (d *Daemon) RPC() *RPCClient {
	return &RPCClient{d: d}
}

var _ deluge.AsyncClient = (*RPCClient)(nil)

func (c *RPCClient) session() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return deluge.ErrNotConnected
	}
	return nil
}

// call runs fn asynchronously once the session is confirmed open.
func call[T any](ctx context.Context, c *RPCClient, fn func() (T, error)) *deluge.Future[T] {
	return deluge.Go(func() (T, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if err := c.session(); err != nil {
			return zero, err
		}
		return fn()
	})
}

func (c *RPCClient) Connect(ctx context.Context, opts deluge.ConnectOptions) *deluge.Future[struct{}] {
	return deluge.Go(func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, err
		}
		if err := c.d.connect(opts.Username, opts.Password); err != nil {
			return struct{}{}, err
		}
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		return struct{}{}, nil
	})
}

func (c *RPCClient) AddTorrentFile(ctx context.Context, filename, filedump string, opts deluge.AddOptions) *deluge.Future[string] {
	return call(ctx, c, func() (string, error) {
		content, err := base64.StdEncoding.DecodeString(filedump)
		if err != nil {
			return "", fmt.Errorf("invalid torrent payload: %w", err)
		}
		return c.d.add(filename, content, opts.DownloadLocation)
	})
}

func (c *RPCClient) SetMoveCompleted(ctx context.Context, id string, enabled bool) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.d.withTorrent(id, func(t *Torrent) error {
			t.MoveCompleted = enabled
			return nil
		})
	})
}

func (c *RPCClient) SetMoveCompletedPath(ctx context.Context, id, path string) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.d.withTorrent(id, func(t *Torrent) error {
			t.MoveCompletedPath = path
			return nil
		})
	})
}

func (c *RPCClient) EnablePlugin(ctx context.Context, name string) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		c.d.enablePlugin(strings.ToLower(name))
		return struct{}{}, nil
	})
}

func (c *RPCClient) Labels(ctx context.Context) *deluge.Future[[]string] {
	return call(ctx, c, func() ([]string, error) {
		return c.d.labelList()
	})
}

func (c *RPCClient) AddLabel(ctx context.Context, label string) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.d.addLabel(label)
	})
}

func (c *RPCClient) SetTorrentLabel(ctx context.Context, id, label string) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.d.setLabel(id, label)
	})
}

func (c *RPCClient) QueueTop(ctx context.Context, ids []string) *deluge.Future[struct{}] {
	return call(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.d.queueTop(ids)
	})
}

func (c *RPCClient) Disconnect(ctx context.Context) *deluge.Future[struct{}] {
	return deluge.Go(func() (struct{}, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.connected {
			return struct{}{}, deluge.ErrNotConnected
		}
		c.connected = false
		c.d.disconnect()
		return struct{}{}, nil
	})
}

// Install registers both client generations of the daemon on a registry.
// Pass only one of legacy/rpc to force a generation.
func (d *Daemon) Install(reg *deluge.Registry, legacy, rpc bool) {
	if legacy {
		reg.RegisterSync(func(cfg deluge.Config) (deluge.SyncClient, error) {
			if err := d.dial(); err != nil {
				return nil, err
			}
			return d.Legacy(), nil
		})
	}
	if rpc {
		reg.RegisterAsync(func(cfg deluge.Config) (deluge.AsyncClient, error) {
			return d.RPC(), nil
		})
	}
}
