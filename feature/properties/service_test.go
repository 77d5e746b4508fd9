package properties_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parcel-watch/core/database"
	"parcel-watch/core/reconcile"
	"parcel-watch/core/server"
	"parcel-watch/core/storage"
	"parcel-watch/core/storage/mocks"
	"parcel-watch/feature/notify"
	"parcel-watch/feature/properties"
	"parcel-watch/feature/properties/models"

	shp "github.com/jonas-p/go-shp"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bucket = "parcels"

const placesJSON = `{"results":[
	{"formatted_address":"123 Main Street, Springfield, IL 12345, United States","name":"Main Office","geometry":{"location":{"lat":39.5,"lng":-89.5}}},
	{"formatted_address":"999 Elsewhere Ave, Springfield, IL","name":"Nearby","geometry":{"location":{"lat":40.00005,"lng":-89.00005}}}
]}`

const propertiesV1 = `{"data":[
	{"id":"P1","address":{"address":"123 Main St, Springfield, IL 12345"},"latitude":10,"longitude":10,"owner1FirstName":"Ann","owner1LastName":"Lee"},
	{"id":"P2","address":{"address":"1 Nowhere Rd"},"latitude":40.0,"longitude":-89.0,"owner1FirstName":"Bob","owner1LastName":"Smith","lastSaleAmount":"100000"},
	{"id":"P3","address":{"address":"5 Lost Ln"},"estimatedValue":200000}
]}`

const propertiesV2 = `{"data":[
	{"id":"P2","address":{"address":"1 Nowhere Rd"},"latitude":40.0,"longitude":-89.0,"owner1FirstName":"Jane","owner1LastName":"Doe","lastSaleDate":"2024-03-04","lastSaleAmount":"412500"},
	{"id":"P3","address":{"address":"5 Lost Ln"},"estimatedValue":210000},
	{"id":"P4","address":{"address":"8 New St"}}
]}`

func settings() properties.Settings {
	return properties.Settings{
		Storage: storage.Config{
			Bucket:           bucket,
			PlacesPrefix:     "places/",
			PropertiesPrefix: "properties/",
			CapturesPrefix:   "captures/",
		},
		Provider:  server.ProviderRealEstateAPI,
		Reconcile: reconcile.Config{ProximityThreshold: 0.001, ProximityStrategy: reconcile.StrategyNearest, IndexCacheTTLSeconds: 60},
		Notify:    notify.Config{Channel: notify.ChannelLog, LocationName: "Springfield", AssetTypeName: "Offices"},
	}
}

func object(body string) func() io.ReadCloser {
	return func() io.ReadCloser { return io.NopCloser(strings.NewReader(body)) }
}

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func newService(t *testing.T, client storage.Client, db *gorm.DB) *properties.Service {
	t.Helper()
	svc, err := properties.NewService(client, zap.NewNop(), db, settings())
	require.NoError(t, err)
	return svc
}

func TestService_Match(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "places/google.json", mock.Anything).Return(object(placesJSON), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/export.json", mock.Anything).Return(object(propertiesV1), nil)

	svc := newService(t, client, nil)

	report, err := svc.Match(context.Background(), "google.json", "export.json")
	require.NoError(t, err)

	assert.Equal(t, models.MatchSummary{Properties: 3, Places: 2, AddressMatches: 1, ProximityMatches: 1, Unmatched: 1}, report.Summary)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "P1", report.Results[0].Property.PropertyID)
	assert.Equal(t, reconcile.MatchAddress, report.Results[0].MatchType)
	assert.Equal(t, "Main Office", report.Results[0].MatchedPlace.Name)
	assert.Equal(t, "P2", report.Results[1].Property.PropertyID)
	assert.Equal(t, reconcile.MatchProximity, report.Results[1].MatchType)
	assert.InDelta(t, 0.0000707, *report.Results[1].Distance, 0.000001)

	// The place index is cached between runs.
	_, err = svc.Match(context.Background(), "places/google.json", "properties/export.json")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "GetObject", 3)

	svc.InvalidatePlaces("google.json")
	_, err = svc.Match(context.Background(), "google.json", "export.json")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "GetObject", 5)
}

func TestService_MatchPlaceMissingGeometry(t *testing.T) {
	places := `{"results":[
		{"formatted_address":"999 Elsewhere Ave, Springfield, IL","name":"Nearby","geometry":{"location":{"lat":40.00005,"lng":-89.00005}}},
		{"formatted_address":"123 Main Street, Springfield, IL 12345, United States","name":"Main Office"}
	]}`
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "places/partial.json", mock.Anything).Return(object(places), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/export.json", mock.Anything).Return(object(propertiesV1), nil)

	report, err := newService(t, client, nil).Match(context.Background(), "partial.json", "export.json")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Places)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "Main Office", report.Results[0].MatchedPlace.Name)
	assert.Equal(t, reconcile.MatchAddress, report.Results[0].MatchType)
	assert.Equal(t, "Nearby", report.Results[1].MatchedPlace.Name)
	assert.Equal(t, reconcile.MatchProximity, report.Results[1].MatchType)
}

func TestService_MatchWithoutPlaces(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "places/empty.json", mock.Anything).Return(object(`[]`), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/export.json", mock.Anything).Return(object(propertiesV1), nil)

	report, err := newService(t, client, nil).Match(context.Background(), "empty.json", "export.json")
	require.NoError(t, err)

	assert.True(t, report.Summary.PassThrough)
	require.Len(t, report.Results, 3)
	for _, r := range report.Results {
		assert.Equal(t, reconcile.MatchNone, r.MatchType)
	}
}

func TestService_MatchInvalidPayload(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "places/google.json", mock.Anything).Return(object(placesJSON), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/bad.json", mock.Anything).Return(object(`[{"address":"no id"}]`), nil)

	_, err := newService(t, client, nil).Match(context.Background(), "google.json", "bad.json")
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestService_SnapshotLifecycle(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "properties/v1.json", mock.Anything).Return(object(propertiesV1), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/v2.json", mock.Anything).Return(object(propertiesV2), nil)
	client.On("PutObject", mock.Anything, bucket, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "captures/") }),
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("RemoveObject", mock.Anything, bucket, mock.Anything, mock.Anything).Return(nil)

	svc := newService(t, client, memoryDB(t))
	ctx := context.Background()

	first, err := svc.CaptureSnapshot(ctx, "week 1", "v1.json")
	require.NoError(t, err)
	assert.Equal(t, 3, first.RecordCount)
	assert.Equal(t, "properties/v1.json", first.Source)

	second, err := svc.CaptureSnapshot(ctx, "", "v2.json")
	require.NoError(t, err)
	assert.Equal(t, "v2.json", second.Label)
	client.AssertNumberOfCalls(t, "PutObject", 2)

	list, err := svc.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	plan, err := svc.DiffSnapshots(ctx, first.ID, second.ID, reconcile.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.PlanSummary{Added: 1, Updated: 2, Removed: 1, Significant: 1, Notifications: 1}, plan.Summary)
	require.Len(t, plan.Notifications, 1)
	assert.Equal(t, "Springfield", plan.Notifications[0].LocationName)
	assert.Equal(t, "Offices", plan.Notifications[0].AssetTypeName)
	assert.Equal(t, "P2 sold on 3/4/2024 and the new owner is Jane Doe", plan.Notifications[0].Change.Text)
	assert.Equal(t, reconcile.KindSaleAndOwnership, plan.Notifications[0].Change.Kind)

	dry, err := svc.Notify(ctx, first.ID, second.ID, reconcile.RunOptions{}, reconcile.ApplyOptions{Confirmed: true, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, dry.Dispatched)
	assert.Equal(t, notify.ChannelLog, dry.Channel)

	sent, err := svc.Notify(ctx, first.ID, second.ID, reconcile.RunOptions{LocationName: "Capital"}, reconcile.ApplyOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sent.Dispatched)

	unchanged, err := svc.Notify(ctx, first.ID, first.ID, reconcile.RunOptions{}, reconcile.ApplyOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.Dispatched)
	assert.Empty(t, unchanged.Changes)

	require.NoError(t, svc.DeleteSnapshot(ctx, first.ID))
	_, err = svc.DiffSnapshots(ctx, first.ID, second.ID, reconcile.RunOptions{})
	assert.ErrorIs(t, err, properties.ErrSnapshotNotFound)
	client.AssertCalled(t, "RemoveObject", mock.Anything, bucket, "captures/"+first.ID+".json", mock.Anything)
}

func TestService_CaptureSnapshotInsertFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "properties/v1.json", mock.Anything).Return(object(propertiesV1), nil)

	db := memoryDB(t)
	svc := newService(t, client, db)
	require.NoError(t, db.Migrator().DropTable(&models.Snapshot{}))

	_, err := svc.CaptureSnapshot(context.Background(), "week 1", "v1.json")
	require.Error(t, err)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CaptureSnapshotArchiveFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "properties/v1.json", mock.Anything).Return(object(propertiesV1), nil)
	client.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket is read-only"))

	svc := newService(t, client, memoryDB(t))
	ctx := context.Background()

	_, err := svc.CaptureSnapshot(ctx, "week 1", "v1.json")
	assert.ErrorContains(t, err, "bucket is read-only")

	list, err := svc.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_NotifyDisabledChannel(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "properties/v1.json", mock.Anything).Return(object(propertiesV1), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/v2.json", mock.Anything).Return(object(propertiesV2), nil)
	client.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	s := settings()
	s.Notify = notify.Config{Channel: notify.ChannelEmail, Enabled: false, ToEmail: "ops@example.com"}
	svc, err := properties.NewService(client, zap.NewNop(), memoryDB(t), s)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.CaptureSnapshot(ctx, "", "v1.json")
	require.NoError(t, err)
	second, err := svc.CaptureSnapshot(ctx, "", "v2.json")
	require.NoError(t, err)

	report, err := svc.Notify(ctx, first.ID, second.ID, reconcile.RunOptions{}, reconcile.ApplyOptions{Confirmed: true})
	require.NoError(t, err)
	assert.True(t, report.Disabled)
	assert.Equal(t, 0, report.Dispatched)
	assert.Equal(t, notify.ChannelEmail, report.Channel)
	assert.Len(t, report.Changes, 1)
}

func TestService_WithoutDatabase(t *testing.T) {
	svc := newService(t, new(mocks.Client), nil)
	ctx := context.Background()

	_, err := svc.CaptureSnapshot(ctx, "x", "v1.json")
	assert.ErrorIs(t, err, properties.ErrNoDatabase)
	_, err = svc.ListSnapshots(ctx, 1)
	assert.ErrorIs(t, err, properties.ErrNoDatabase)
	_, err = svc.DiffSnapshots(ctx, "a", "b", reconcile.RunOptions{})
	assert.ErrorIs(t, err, properties.ErrNoDatabase)
	assert.ErrorIs(t, svc.DeleteSnapshot(ctx, "a"), properties.ErrNoDatabase)
}

func TestNewService_InvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*properties.Settings)
	}{
		{"Provider", func(s *properties.Settings) { s.Provider = "zillow" }},
		{"Strategy", func(s *properties.Settings) { s.Reconcile.ProximityStrategy = "random" }},
		{"Channel", func(s *properties.Settings) { s.Notify.Channel = "pager" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings()
			tt.mutate(&s)
			_, err := properties.NewService(new(mocks.Client), nil, nil, s)
			assert.Error(t, err)
		})
	}
}

func TestService_MatchShapefilePlaces(t *testing.T) {
	dir := t.TempDir()
	w, err := shp.Create(filepath.Join(dir, "parcels.shp"), shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("ADDRESS", 80), shp.StringField("NAME", 30)}))
	n := int(w.Write(&shp.Point{X: -89.5, Y: 39.5}))
	require.NoError(t, w.WriteAttribute(n, 0, "123 Main Street, Springfield, IL 12345"))
	require.NoError(t, w.WriteAttribute(n, 1, "Parcel 7"))
	w.Close()

	file := func(name string) func() io.ReadCloser {
		return func() io.ReadCloser {
			f, err := os.Open(filepath.Join(dir, name))
			require.NoError(t, err)
			return f
		}
	}

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, bucket, "places/parcels.shp", mock.Anything).Return(file("parcels.shp"), nil)
	client.On("GetObject", mock.Anything, bucket, "places/parcels.dbf", mock.Anything).Return(file("parcels.dbf"), nil)
	client.On("GetObject", mock.Anything, bucket, "properties/export.json", mock.Anything).Return(object(propertiesV1), nil)

	report, err := newService(t, client, nil).Match(context.Background(), "parcels.shp", "export.json")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Places)
	assert.Equal(t, 1, report.Summary.AddressMatches)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "P1", report.Results[0].Property.PropertyID)
	assert.Equal(t, "Parcel 7", report.Results[0].MatchedPlace.Name)
}
