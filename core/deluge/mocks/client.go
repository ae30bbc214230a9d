package mocks

import (
	"context"

	"deluge-submit/core/deluge"

	"github.com/stretchr/testify/mock"
)

// SyncClient is a mock implementation of deluge.SyncClient
type SyncClient struct {
	mock.Mock
}

func (m *SyncClient) SessionState(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SyncClient) AddTorrentFile(ctx context.Context, path string, opts deluge.AddOptions) error {
	args := m.Called(ctx, path, opts)
	return args.Error(0)
}

func (m *SyncClient) SetMoveCompleted(ctx context.Context, id string, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *SyncClient) SetMoveCompletedPath(ctx context.Context, id, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *SyncClient) EnabledPlugins(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SyncClient) EnablePlugin(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *SyncClient) Labels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if labels, ok := args.Get(0).([]string); ok {
		return labels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SyncClient) AddLabel(ctx context.Context, label string) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *SyncClient) SetTorrentLabel(ctx context.Context, id, label string) error {
	args := m.Called(ctx, id, label)
	return args.Error(0)
}

func (m *SyncClient) QueueTop(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *SyncClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// AsyncClient is a mock implementation of deluge.AsyncClient.
// Return values must be futures; use deluge.Resolved and deluge.Rejected.
type AsyncClient struct {
	mock.Mock
}

func (m *AsyncClient) Connect(ctx context.Context, opts deluge.ConnectOptions) *deluge.Future[struct{}] {
	args := m.Called(ctx, opts)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) AddTorrentFile(ctx context.Context, filename, filedump string, opts deluge.AddOptions) *deluge.Future[string] {
	args := m.Called(ctx, filename, filedump, opts)
	return args.Get(0).(*deluge.Future[string])
}

func (m *AsyncClient) SetMoveCompleted(ctx context.Context, id string, enabled bool) *deluge.Future[struct{}] {
	args := m.Called(ctx, id, enabled)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) SetMoveCompletedPath(ctx context.Context, id, path string) *deluge.Future[struct{}] {
	args := m.Called(ctx, id, path)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) EnablePlugin(ctx context.Context, name string) *deluge.Future[struct{}] {
	args := m.Called(ctx, name)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) Labels(ctx context.Context) *deluge.Future[[]string] {
	args := m.Called(ctx)
	return args.Get(0).(*deluge.Future[[]string])
}

func (m *AsyncClient) AddLabel(ctx context.Context, label string) *deluge.Future[struct{}] {
	args := m.Called(ctx, label)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) SetTorrentLabel(ctx context.Context, id, label string) *deluge.Future[struct{}] {
	args := m.Called(ctx, id, label)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) QueueTop(ctx context.Context, ids []string) *deluge.Future[struct{}] {
	args := m.Called(ctx, ids)
	return args.Get(0).(*deluge.Future[struct{}])
}

func (m *AsyncClient) Disconnect(ctx context.Context) *deluge.Future[struct{}] {
	args := m.Called(ctx)
	return args.Get(0).(*deluge.Future[struct{}])
}
