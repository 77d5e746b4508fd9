package reconcile

import (
	"context"
	"errors"
)

// ErrDispatchDisabled is returned by a dispatcher whose channel is switched
// off. Nothing was delivered.
var ErrDispatchDisabled = errors.New("notification channel disabled")

// Notification is the plain data payload handed to a notification dispatcher
// for one significant change.
type Notification struct {
	// LocationName and AssetTypeName are routing context supplied by the caller.
	// The core never derives them.
	LocationName  string `json:"locationName"`
	AssetTypeName string `json:"assetTypeName"`

	Change SignificantChange `json:"change"`
}

// Dispatcher delivers notifications to an external channel (email, webhook, log).
// Implementations live outside the core; the core only builds payloads.
type Dispatcher interface {
	// Name returns the unique name of this dispatcher (e.g., "email", "log").
	Name() string

	// Dispatch delivers a single notification.
	Dispatch(ctx context.Context, n Notification) error
}

// BatchDispatcher is implemented by dispatchers that can deliver a whole plan
// in one call. ApplyPlan prefers it when available.
type BatchDispatcher interface {
	Dispatcher

	// DispatchBatch delivers all notifications or returns an error.
	DispatchBatch(ctx context.Context, ns []Notification) error
}
