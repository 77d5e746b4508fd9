package integrity

import (
	"context"

	"parcel-watch/core/storage"
	"parcel-watch/feature/integrity/checks"
	"parcel-watch/feature/properties/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	region  string
	folders []string
	logger  *zap.Logger
	db      *gorm.DB
}

// NewService creates a new integrity service for the configured bucket.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		folders: cfg.Folders(),
		logger:  logger,
		db:      db,
	}
}

// CheckStructure returns the payload folders missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// CreateBucket creates the configured bucket if it does not exist.
func (s *Service) CreateBucket(ctx context.Context) error {
	created, err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("Created missing bucket", zap.String("bucket", s.bucket))
	}
	return nil
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckServer verifies the snapshot table against its model.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db, models.Snapshot{})
}
