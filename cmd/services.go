package cmd

import (
	"deluge-submit/core/config"
	"deluge-submit/core/database"
	"deluge-submit/core/deluge"
	"deluge-submit/core/storage"
	"deluge-submit/feature/archive"
	"deluge-submit/feature/history"
	"deluge-submit/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// features holds the optional features shared by submit and serve, and the
// backends they were built over.
type features struct {
	archive *archive.Feature
	history *history.Feature

	store storage.Client
	db    *gorm.DB
}

// openFeatures builds the archive and history features. Backends are only
// contacted for enabled features; an unreachable database disables history
// with a warning, the same way the server treats it as optional.
func openFeatures(cfg *config.Config, logg *zap.Logger) (*features, error) {
	var store storage.Client
	if cfg.Archive.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		store = client
	}

	var db *gorm.DB
	if cfg.History.Enabled {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, history disabled", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}
	}

	return &features{
		archive: archive.NewFeature(store, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Archive, logg),
		history: history.NewFeature(db, cfg.History, logg),
		store:   store,
		db:      db,
	}, nil
}

// integrity builds the integrity feature over the backends the other features use.
func (f *features) integrity(cfg *config.Config, logg *zap.Logger) *integrity.Feature {
	return integrity.NewFeature(integrity.Options{
		Prober:  deluge.Default(),
		Deluge:  cfg.Deluge,
		Storage: f.store,
		Bucket:  cfg.Storage.Bucket,
		Region:  cfg.Storage.Region,
		Prefix:  cfg.Archive.Prefix,
		DB:      f.db,
	}, logg)
}
