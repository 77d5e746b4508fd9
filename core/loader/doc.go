// Package loader registers HTTP features and mounts them on the fiber app.
//
// A feature is anything implementing Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps features in registration order. LoadAll skips disabled
// features, rejects duplicate names and wraps the first Load error with the
// feature name. The properties and integrity features are built and tested on
// their own and are only registered together in cmd/start.go.
package loader
