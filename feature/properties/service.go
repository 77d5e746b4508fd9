package properties

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"parcel-watch/core/reconcile"
	"parcel-watch/core/server"
	"parcel-watch/core/storage"
	"parcel-watch/feature/notify"
	"parcel-watch/feature/properties/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by snapshot operations when no database is connected.
var ErrNoDatabase = errors.New("snapshot persistence requires a database connection")

// Settings groups the configuration sections the service depends on.
type Settings struct {
	Storage   storage.Config
	Provider  string
	Shapefile models.ShapefileFields
	Reconcile reconcile.Config
	Notify    notify.Config
}

// Service handles property matching, snapshots and change notification.
type Service struct {
	client     storage.Client
	settings   Settings
	logger     *zap.Logger
	repo       *Repository
	engine     *reconcile.Engine
	cache      *reconcile.IndexCache
	pipeline   *reconcile.Pipeline
	dispatcher reconcile.Dispatcher
}

// NewService creates a property service. A nil db disables snapshot operations.
func NewService(client storage.Client, logger *zap.Logger, db *gorm.DB, settings Settings) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !(server.Config{Provider: settings.Provider}).IsValidProvider() {
		return nil, fmt.Errorf("invalid provider profile: %q", settings.Provider)
	}
	if settings.Reconcile.ProximityStrategy != "" && !settings.Reconcile.IsValidStrategy() {
		return nil, fmt.Errorf("invalid proximity strategy: %q", settings.Reconcile.ProximityStrategy)
	}

	dispatcher, err := notify.NewDispatcher(settings.Notify, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		client:     client,
		settings:   settings,
		logger:     logger,
		engine:     reconcile.NewEngineFromConfig(settings.Reconcile, logger),
		cache:      reconcile.NewIndexCache(time.Duration(settings.Reconcile.IndexCacheTTLSeconds) * time.Second),
		pipeline:   reconcile.NewPipeline(reconcile.NewDiffer(), logger),
		dispatcher: dispatcher,
	}

	if db != nil {
		repo, err := NewRepository(db)
		if err != nil {
			return nil, err
		}
		s.repo = repo
	}

	return s, nil
}

// objectKey places bare file names under their payload prefix.
func objectKey(prefix, name string) string {
	if name == "" || strings.Contains(name, "/") {
		return name
	}
	return prefix + name
}

// Match cross-references the property payload against the places payload.
func (s *Service) Match(ctx context.Context, placesObject, propertiesObject string) (*models.MatchReport, error) {
	startTime := time.Now()
	bucket := s.settings.Storage.Bucket

	placesKey := objectKey(s.settings.Storage.PlacesPrefix, placesObject)
	idx, err := s.cache.GetOrBuild(ctx, placesKey, s.engine.Threshold(), func(ctx context.Context) ([]reconcile.ExternalPlace, error) {
		if strings.EqualFold(path.Ext(placesKey), ".shp") {
			return s.loadShapefilePlaces(ctx, placesKey)
		}
		data, err := storage.ReadObject(ctx, s.client, bucket, placesKey)
		if err != nil {
			return nil, err
		}
		return models.DecodePlaces(data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load places: %w", err)
	}

	props, err := s.loadProperties(ctx, propertiesObject)
	if err != nil {
		return nil, err
	}

	results := s.engine.MatchIndex(props, idx)

	summary := models.MatchSummary{
		Properties:  len(props),
		Places:      idx.Len(),
		PassThrough: idx.Len() == 0,
	}
	for _, r := range results {
		switch r.MatchType {
		case reconcile.MatchAddress:
			summary.AddressMatches++
		case reconcile.MatchProximity:
			summary.ProximityMatches++
		}
	}
	summary.Unmatched = len(props) - summary.AddressMatches - summary.ProximityMatches

	s.logger.Info("Match run completed",
		zap.String("places", placesKey),
		zap.Int("properties", summary.Properties),
		zap.Int("address_matches", summary.AddressMatches),
		zap.Int("proximity_matches", summary.ProximityMatches),
		zap.Bool("pass_through", summary.PassThrough),
	)

	return &models.MatchReport{
		Results:       results,
		Summary:       summary,
		GeneratedAt:   time.Now().Format(time.RFC3339),
		ExecutionTime: time.Since(startTime).String(),
	}, nil
}

// loadShapefilePlaces streams a .shp object and the .dbf object beside it.
func (s *Service) loadShapefilePlaces(ctx context.Context, shpKey string) ([]reconcile.ExternalPlace, error) {
	bucket := s.settings.Storage.Bucket
	dbfKey := strings.TrimSuffix(shpKey, path.Ext(shpKey)) + ".dbf"

	shpReader, err := s.client.GetObject(ctx, bucket, shpKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", shpKey, err)
	}
	dbfReader, err := s.client.GetObject(ctx, bucket, dbfKey, minio.GetObjectOptions{})
	if err != nil {
		shpReader.Close()
		return nil, fmt.Errorf("failed to get %s: %w", dbfKey, err)
	}

	return models.DecodePlacesShapefile(shpReader, dbfReader, s.settings.Shapefile)
}

func (s *Service) loadProperties(ctx context.Context, object string) ([]reconcile.PropertyRecord, error) {
	key := objectKey(s.settings.Storage.PropertiesPrefix, object)
	data, err := storage.ReadObject(ctx, s.client, s.settings.Storage.Bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return models.DecodeProperties(s.settings.Provider, data)
}

// InvalidatePlaces drops cached indices built from a places object.
func (s *Service) InvalidatePlaces(placesObject string) {
	s.cache.Invalidate(objectKey(s.settings.Storage.PlacesPrefix, placesObject))
}

// CaptureSnapshot decodes a property payload, persists it and archives the
// decoded records under the captures prefix. The archive is written only once
// the row is stored; a failed archive removes the row again.
func (s *Service) CaptureSnapshot(ctx context.Context, label, propertiesObject string) (*models.SnapshotSummary, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}

	records, err := s.loadProperties(ctx, propertiesObject)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		ID:          uuid.NewString(),
		Label:       label,
		Source:      objectKey(s.settings.Storage.PropertiesPrefix, propertiesObject),
		Provider:    s.settings.Provider,
		RecordCount: len(records),
		Records:     reconcile.Snapshot(records),
		CapturedAt:  time.Now().UTC(),
	}
	if snap.Label == "" {
		snap.Label = path.Base(snap.Source)
	}

	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, err
	}
	if err := storage.WriteJSON(ctx, s.client, s.settings.Storage.Bucket, s.captureKey(snap.ID), snap.Records); err != nil {
		if delErr := s.repo.Delete(ctx, snap.ID); delErr != nil {
			s.logger.Error("Failed to roll back snapshot after archive failure",
				zap.String("id", snap.ID),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Snapshot captured",
		zap.String("id", snap.ID),
		zap.String("label", snap.Label),
		zap.Int("records", snap.RecordCount))

	summary := snap.Summary()
	return &summary, nil
}

func (s *Service) captureKey(id string) string {
	return s.settings.Storage.CapturesPrefix + id + ".json"
}

// ListSnapshots returns the most recent snapshots first.
func (s *Service) ListSnapshots(ctx context.Context, limit int) ([]models.SnapshotSummary, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}
	return s.repo.List(ctx, limit)
}

// DeleteSnapshot removes a snapshot and its archived capture.
func (s *Service) DeleteSnapshot(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrNoDatabase
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.settings.Storage.Bucket, s.captureKey(id), minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warn("Failed to remove archived capture", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// resolvePair fills missing ids with the two most recent snapshots.
func (s *Service) resolvePair(ctx context.Context, oldID, newID string) (string, string, error) {
	if oldID != "" && newID != "" {
		return oldID, newID, nil
	}
	latest, err := s.repo.List(ctx, 2)
	if err != nil {
		return "", "", err
	}
	if len(latest) < 2 {
		return "", "", fmt.Errorf("%w: need two snapshots to diff, have %d", ErrSnapshotNotFound, len(latest))
	}
	if newID == "" {
		newID = latest[0].ID
	}
	if oldID == "" {
		oldID = latest[1].ID
	}
	return oldID, newID, nil
}

// DiffSnapshots plans notifications for the changes between two snapshots.
// Empty ids default to the two most recent snapshots.
func (s *Service) DiffSnapshots(ctx context.Context, oldID, newID string, opts reconcile.RunOptions) (*reconcile.Plan, error) {
	if s.repo == nil {
		return nil, ErrNoDatabase
	}

	oldID, newID, err := s.resolvePair(ctx, oldID, newID)
	if err != nil {
		return nil, err
	}
	older, err := s.repo.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newer, err := s.repo.Get(ctx, newID)
	if err != nil {
		return nil, err
	}

	if opts.LocationName == "" {
		opts.LocationName = s.settings.Notify.LocationName
	}
	if opts.AssetTypeName == "" {
		opts.AssetTypeName = s.settings.Notify.AssetTypeName
	}

	return s.pipeline.Run(ctx, older.Records, newer.Records, opts)
}

// Notify plans and dispatches notifications for two snapshots. Nothing is
// sent unless apply.Confirmed is set and apply.DryRun is not.
func (s *Service) Notify(ctx context.Context, oldID, newID string, opts reconcile.RunOptions, apply reconcile.ApplyOptions) (*models.NotifyReport, error) {
	plan, err := s.DiffSnapshots(ctx, oldID, newID, opts)
	if err != nil {
		return nil, err
	}
	return s.ApplyPlan(ctx, plan, apply)
}

// ApplyPlan dispatches a plan built by DiffSnapshots through the configured
// channel, honoring the dry-run and confirmation gates.
func (s *Service) ApplyPlan(ctx context.Context, plan *reconcile.Plan, apply reconcile.ApplyOptions) (*models.NotifyReport, error) {
	if plan == nil {
		return nil, reconcile.ErrIncompleteRun
	}

	report := &models.NotifyReport{
		Summary:   plan.Summary,
		Changes:   plan.Changes,
		Channel:   s.dispatcher.Name(),
		DryRun:    apply.DryRun,
		Confirmed: apply.Confirmed,
	}
	if plan.NothingToNotify() {
		s.logger.Info("No significant changes to notify")
		return report, nil
	}

	dispatched, err := reconcile.ApplyPlan(ctx, s.dispatcher, plan, apply)
	report.Dispatched = dispatched
	if errors.Is(err, reconcile.ErrDispatchDisabled) {
		s.logger.Warn("Notification channel is disabled, nothing was sent",
			zap.String("channel", report.Channel),
			zap.Int("planned", plan.Summary.Notifications))
		report.Disabled = true
		return report, nil
	}
	if err != nil {
		return report, err
	}

	s.logger.Info("Notifications processed",
		zap.String("channel", report.Channel),
		zap.Int("planned", plan.Summary.Notifications),
		zap.Int("dispatched", dispatched),
		zap.Bool("dry_run", apply.DryRun))

	return report, nil
}
