package cmd

import (
	"fmt"

	"parcel-watch/core/config"
	"parcel-watch/core/database"
	"parcel-watch/core/logger"
	"parcel-watch/core/storage"
	"parcel-watch/feature/properties"
	"parcel-watch/feature/properties/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every CLI command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Client
	db     *gorm.DB
}

// bootstrap loads configuration, builds the logger and storage client and
// connects to the database. A failed connection is fatal only when requireDB
// is set.
func bootstrap(requireDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg, store: store}

	conn, err := database.Connect(cfg.Database)
	switch {
	case err == nil:
		rt.db = conn
	case requireDB:
		return nil, fmt.Errorf("database connection required: %w", err)
	default:
		logg.Warn("Optional database connection failed", zap.Error(err))
	}

	return rt, nil
}

// settings maps the loaded configuration onto the property service settings.
func settings(cfg *config.Config) properties.Settings {
	return properties.Settings{
		Storage:   cfg.Storage,
		Provider:  cfg.Server.Provider,
		Shapefile: models.ShapefileFields{
			Address: cfg.Server.ShapeAddressField,
			Name:    cfg.Server.ShapeNameField,
		},
		Reconcile: cfg.Reconcile,
		Notify:    cfg.Notify,
	}
}

// propertyService builds the property service over the runtime.
func (rt *runtime) propertyService() (*properties.Service, error) {
	return properties.NewService(rt.store, rt.logger, rt.db, settings(rt.cfg))
}
