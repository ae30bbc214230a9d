package history

import (
	"context"
	"errors"
	"fmt"

	"deluge-submit/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a batch has no recorded submissions.
var ErrNotFound = errors.New("batch not found")

// Service reads and writes submission history.
type Service struct {
	db       *gorm.DB
	pageSize int
	logger   *zap.Logger
}

// NewService creates a new history service.
func NewService(db *gorm.DB, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Service{db: db, pageSize: pageSize, logger: logger}
}

var _ reconcile.Recorder = (*Service)(nil)

// Migrate creates or updates the submissions table.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&Submission{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// Record stores one row per item of a finished batch. Skipped batches are not stored.
func (s *Service) Record(ctx context.Context, result *reconcile.BatchResult) error {
	if result == nil || len(result.Items) == 0 {
		return nil
	}

	rows := make([]Submission, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, Submission{
			BatchID:   result.BatchID,
			Title:     item.Title,
			TorrentID: item.ID,
			Status:    item.Status.String(),
			Reason:    item.Reason,
			Mode:      string(result.Mode),
		})
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to record batch %s: %w", result.BatchID, err)
	}
	s.logger.Debug("Recorded batch", zap.String("batch_id", result.BatchID), zap.Int("rows", len(rows)))
	return nil
}

// List returns the most recent submissions, newest first. limit <= 0 uses the page size.
func (s *Service) List(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	var rows []Submission
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return rows, nil
}

// Batch returns the submissions of one batch in insertion order.
func (s *Service) Batch(ctx context.Context, batchID string) ([]Submission, error) {
	var rows []Submission
	if err := s.db.WithContext(ctx).Where("batch_id = ?", batchID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}
