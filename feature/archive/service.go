package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"deluge-submit/core/reconcile"
	"deluge-submit/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const contentType = "application/x-bittorrent"

// Object describes one archived torrent file.
type Object struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Service copies staged torrent files into object storage.
type Service struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger

	mu      sync.Mutex
	ensured bool
}

// NewService creates a new archive service.
func NewService(client storage.Client, bucket, region string, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}
}

var _ reconcile.Archiver = (*Service)(nil)

// ObjectName returns the object name an item's file is archived under.
func (s *Service) ObjectName(title string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(title))
	if name == "" {
		name = "untitled"
	}
	return path.Join(s.prefix, name+".torrent")
}

// Archive uploads the staged file of item. The bucket is created on first use.
func (s *Service) Archive(ctx context.Context, item *reconcile.StagedItem) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	f, err := os.Open(item.File)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat staged file: %w", err)
	}

	name := s.ObjectName(item.Title)
	_, err = s.client.PutObject(ctx, s.bucket, name, f, info.Size(), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"status": item.Status.String()},
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	s.logger.Debug("Archived staged file", zap.String("title", item.Title), zap.String("object", name))
	return nil
}

// List returns the archived objects, sorted by storage order.
func (s *Service) List(ctx context.Context) ([]Object, error) {
	opts := minio.ListObjectsOptions{Recursive: true}
	if s.prefix != "" {
		opts.Prefix = s.prefix + "/"
	}

	var out []Object
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		out = append(out, Object{Name: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return out, nil
}

// Remove deletes an archived object by its name relative to the prefix.
func (s *Service) Remove(ctx context.Context, name string) error {
	if name == "" || strings.Contains(name, "..") {
		return fmt.Errorf("invalid object name: %q", name)
	}
	key := path.Join(s.prefix, name)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Service) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	created, err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("Created archive bucket", zap.String("bucket", s.bucket))
	}
	s.ensured = true
	return nil
}
