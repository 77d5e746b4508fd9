package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ExternalPlace is an entity returned by a geocoding/places provider.
// It is read-only input to the match engine.
type ExternalPlace struct {
	// FormattedAddress is the provider's single-line address,
	// e.g. "123 Main St, Springfield, IL 12345, United States".
	FormattedAddress string `json:"formatted_address"`

	// Name is the display name of the place.
	Name string `json:"name"`

	// Location is nil when the provider returned no usable coordinate. Such a
	// place can still be matched by address but never by proximity.
	Location *LatLng `json:"location,omitempty"`
}

// PropertyAddress holds the address fields of a property record.
type PropertyAddress struct {
	// Address is the provider's primary single-line address.
	Address string `json:"address"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// PropertyRecord is a property returned by a real-estate data provider.
// PropertyID is the stable identity key across snapshots.
type PropertyRecord struct {
	// ID, CreatedAt and UpdatedAt are bookkeeping fields owned by whoever stored
	// the record. They never participate in snapshot comparison.
	ID        string     `json:"id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	PropertyID string          `json:"property_id"`
	Address    PropertyAddress `json:"address"`

	// Location is nil when the provider did not return usable coordinates.
	Location *LatLng `json:"location,omitempty"`

	Owner1FirstName string `json:"owner1_first_name"`
	Owner1LastName  string `json:"owner1_last_name"`
	Owner2FirstName string `json:"owner2_first_name"`
	Owner2LastName  string `json:"owner2_last_name"`
	CompanyName     string `json:"company_name"`

	LastSaleDate   string           `json:"last_sale_date"`
	LastSaleAmount *decimal.Decimal `json:"last_sale_amount,omitempty"`

	EstimatedValue  *decimal.Decimal `json:"estimated_value,omitempty"`
	EstimatedEquity *decimal.Decimal `json:"estimated_equity,omitempty"`

	// Extra carries any remaining provider fields keyed by their snake_case name.
	Extra map[string]any `json:"extra,omitempty"`
}

// MatchType describes how a property was cross-referenced to a place.
type MatchType string

const (
	// MatchAddress means a normalized address variant hit the place index.
	MatchAddress MatchType = "address"
	// MatchProximity means the property lies within the proximity threshold of a place.
	MatchProximity MatchType = "proximity"
	// MatchNone means no cross-reference was attempted or found.
	MatchNone MatchType = "none"
)

// MatchedPlace is the place a property was matched to. Lat and Lng are zero
// when the place had no coordinate.
type MatchedPlace struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Name    string  `json:"name"`
}

// MatchResult is the match engine output for a single property.
type MatchResult struct {
	Property     PropertyRecord `json:"property"`
	MatchType    MatchType      `json:"matchType"`
	MatchedPlace *MatchedPlace  `json:"matchedGoogle,omitempty"`

	// Distance is set for proximity matches only.
	Distance *float64 `json:"distance"`
}

// Snapshot is a point-in-time collection of property records.
// Property IDs must be unique within a snapshot; duplicates are the caller's bug.
type Snapshot []PropertyRecord

// ChangeType is the kind of difference found for a property between two snapshots.
type ChangeType string

const (
	// ChangeAdded means the property only exists in the newer snapshot.
	ChangeAdded ChangeType = "added"
	// ChangeUpdated means at least one compared field differs.
	ChangeUpdated ChangeType = "updated"
	// ChangeRemoved means the property only exists in the older snapshot.
	ChangeRemoved ChangeType = "removed"
)

// FieldChange holds the old and new value of a single field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeEntry is one difference between two snapshots.
type ChangeEntry struct {
	PropertyID string     `json:"property_id"`
	Type       ChangeType `json:"type"`

	// FieldChanges is only populated for ChangeUpdated entries.
	FieldChanges map[string]FieldChange `json:"field_changes"`

	// Current is the newer record of a ChangeUpdated entry. Classify reads
	// unchanged owner names from it.
	Current *PropertyRecord `json:"-"`
}

// DiffResult is the structured difference between two snapshots.
// The counts always add up to len(Changes).
type DiffResult struct {
	Added   int           `json:"added"`
	Updated int           `json:"updated"`
	Removed int           `json:"removed"`
	Changes []ChangeEntry `json:"changes"`
}

// HasChanges reports whether the diff contains any entry.
func (d DiffResult) HasChanges() bool {
	return len(d.Changes) > 0
}

// ChangeKind classifies a significant change for notification routing.
type ChangeKind string

const (
	// KindSale is a change of the last sale date or amount.
	KindSale ChangeKind = "sale"
	// KindOwnership is a change of owner names only.
	KindOwnership ChangeKind = "ownership"
	// KindSaleAndOwnership is a sale that also changed the owner.
	KindSaleAndOwnership ChangeKind = "sale_and_ownership"
)

// SignificantChange is a diff entry that concerns ownership or a sale, shaped
// as a value object so the notification layer can template it independently.
type SignificantChange struct {
	PropertyID string     `json:"property_id"`
	Kind       ChangeKind `json:"kind"`

	// NewOwner is set when an owner name changed.
	NewOwner string `json:"new_owner,omitempty"`

	// SaleDate is the formatted new sale date when it changed.
	SaleDate string `json:"sale_date,omitempty"`

	// SaleAmount is the new sale amount when it changed.
	SaleAmount *decimal.Decimal `json:"sale_amount,omitempty"`

	FieldChanges map[string]FieldChange `json:"field_changes"`

	// Text is the default English description, e.g. "P-1 sold on 3/4/2024".
	Text string `json:"text"`
}
