// Package properties cross-references property records with places and
// tracks how properties change between captures.
//
// Payloads live in object storage: places under the places prefix and
// provider property exports under the properties prefix. The Service loads
// them, decodes them with the configured provider profile and hands them to
// the reconcile core.
//
// # Operations
//
//   - Match: address-then-proximity cross-reference of properties to places.
//     Place indices are cached per places object and threshold.
//   - CaptureSnapshot: persists a decoded property payload through gorm and
//     archives the records under the captures prefix.
//   - DiffSnapshots: builds a notification plan between two snapshots.
//   - Notify: applies a plan through the configured dispatcher, gated by
//     confirmation and dry-run.
//
// # HTTP Endpoints
//
//   - POST /properties/match
//   - POST /properties/snapshots, GET /properties/snapshots, DELETE /properties/snapshots/:id
//   - GET /properties/diff?old=&new=
//   - POST /properties/notify
package properties
