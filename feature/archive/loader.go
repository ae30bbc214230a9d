package archive

import (
	"deluge-submit/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cfg     Config
	service *Service
	handler *Handler
}

// NewFeature creates a new archive feature.
func NewFeature(client storage.Client, bucket, region string, cfg Config, logger *zap.Logger) *Feature {
	svc := NewService(client, bucket, region, cfg, logger)
	return &Feature{cfg: cfg, service: svc, handler: NewHandler(svc)}
}

// Service returns the archive service, for use as the engine's archiver.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "archive"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.Enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
