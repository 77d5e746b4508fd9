package properties

import (
	"context"
	"errors"
	"fmt"

	"parcel-watch/feature/properties/models"

	"gorm.io/gorm"
)

// ErrSnapshotNotFound is returned when a snapshot id does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Repository persists snapshots through gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository and migrates the snapshots table.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots: %w", err)
	}
	return &Repository{db: db}, nil
}

// Create stores a new snapshot.
func (r *Repository) Create(ctx context.Context, s *models.Snapshot) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Get loads a snapshot with its records.
func (r *Repository) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	var s models.Snapshot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	return &s, nil
}

// List returns the most recent snapshots first, without records.
// A non-positive limit returns every snapshot.
func (r *Repository) List(ctx context.Context, limit int) ([]models.SnapshotSummary, error) {
	var rows []models.Snapshot
	q := r.db.WithContext(ctx).
		Select("id", "label", "source", "provider", "record_count", "captured_at").
		Order("captured_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	summaries := make([]models.SnapshotSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.Summary()
	}
	return summaries, nil
}

// Delete removes a snapshot.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Snapshot{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}
