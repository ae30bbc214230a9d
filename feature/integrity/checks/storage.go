package checks

import (
	"context"
	"fmt"

	"deluge-submit/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the archive bucket.
type StorageReport struct {
	Bucket  string `json:"bucket"`
	Prefix  string `json:"prefix"`
	Objects int    `json:"objects"`
}

// CheckStorage verifies the bucket exists and counts the archived objects under prefix.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	opts := minio.ListObjectsOptions{Recursive: true}
	if prefix != "" {
		opts.Prefix = prefix + "/"
	}

	report := &StorageReport{Bucket: bucket, Prefix: prefix}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, obj.Err)
		}
		report.Objects++
	}

	return report, nil
}

// FixStorage creates the bucket when it is missing.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	created, err := storage.EnsureBucket(ctx, client, bucket, region)
	if err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	if created {
		logger.Info("Created missing bucket", zap.String("bucket", bucket))
	}
	return nil
}
