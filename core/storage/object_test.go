package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"parcel-watch/core/storage"
	"parcel-watch/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReadObject(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "bucket", "places/a.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`[{"name":"x"}]`)), nil)

		data, err := storage.ReadObject(context.Background(), client, "bucket", "places/a.json")
		require.NoError(t, err)
		assert.Equal(t, `[{"name":"x"}]`, string(data))
		client.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "bucket", "nope.json", mock.Anything).
			Return(nil, errors.New("NoSuchKey"))

		_, err := storage.ReadObject(context.Background(), client, "bucket", "nope.json")
		assert.ErrorContains(t, err, "nope.json")
	})
}

func TestWriteJSON(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", "captures/x.json", mock.Anything, mock.AnythingOfType("int64"),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "application/json" })).
		Return(minio.UploadInfo{}, nil)

	err := storage.WriteJSON(context.Background(), client, "bucket", "captures/x.json", map[string]int{"a": 1})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPrefixExists(t *testing.T) {
	found := make(chan minio.ObjectInfo, 1)
	found <- minio.ObjectInfo{Key: "places/a.json"}
	close(found)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "places/", MaxKeys: 1}).
		Return((<-chan minio.ObjectInfo)(found))
	client.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "captures/", MaxKeys: 1}).
		Return(nil)

	assert.True(t, storage.PrefixExists(context.Background(), client, "bucket", "places/"))
	assert.False(t, storage.PrefixExists(context.Background(), client, "bucket", "captures/"))
}

func TestConfig_Folders(t *testing.T) {
	cfg := storage.Config{PlacesPrefix: "p/", PropertiesPrefix: "r/", CapturesPrefix: "c/"}
	assert.Equal(t, []string{"p/", "r/", "c/"}, cfg.Folders())
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "parcels").Return(true, nil)

		created, err := storage.EnsureBucket(ctx, client, "parcels", "us-east-1")
		require.NoError(t, err)
		assert.False(t, created)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "parcels").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "parcels", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

		created, err := storage.EnsureBucket(ctx, client, "parcels", "us-east-1")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("MakeBucketFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "parcels").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "parcels", mock.Anything).Return(errors.New("denied"))

		_, err := storage.EnsureBucket(ctx, client, "parcels", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
	})
}
