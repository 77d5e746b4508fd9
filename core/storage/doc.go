// Package storage reads provider payloads from, and archives snapshot captures
// to, an S3-compatible bucket.
//
// Client is the narrow MinIO surface the rest of the module depends on; tests
// use the testify mock in core/storage/mocks.
//
// # Layout
//
// A bucket holds three folders, configurable through Config:
//
//   - places/: external places payloads
//   - properties/: property provider payloads
//   - captures/: decoded records archived when a snapshot is captured
//
// # Helpers
//
//   - ReadObject downloads an object into memory.
//   - WriteJSON uploads a value as an application/json object.
//   - PrefixExists reports whether anything lives under a folder.
//   - EnsureBucket creates the bucket when it is missing.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "places/latest.json")
package storage
