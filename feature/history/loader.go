package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cfg     Config
	db      *gorm.DB
	service *Service
	handler *Handler
}

// NewFeature creates a new history feature. db may be nil, which disables it.
func NewFeature(db *gorm.DB, cfg Config, logger *zap.Logger) *Feature {
	f := &Feature{cfg: cfg, db: db}
	if db != nil {
		f.service = NewService(db, cfg, logger)
		f.handler = NewHandler(f.service)
	}
	return f
}

// Service returns the history service, or nil without a database.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "history"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.Enabled && f.db != nil
}

// Load migrates the table when configured and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.cfg.AutoMigrate {
		if err := f.service.Migrate(); err != nil {
			return err
		}
	}
	f.handler.RegisterRoutes(app)
	return nil
}
