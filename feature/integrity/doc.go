// Package integrity provides health checks for the infrastructure Parcel Watch
// depends on.
//
// # Checks Provided
//
//   - Storage: the bucket exists and holds the places, properties and captures
//     folders named in the storage configuration. Missing folders can be created.
//   - Server: the snapshot table matches the gorm model (columns and explicit types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/server : Runs the schema check.
package integrity
