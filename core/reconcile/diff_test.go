package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func owned(id, first, last string) PropertyRecord {
	return PropertyRecord{PropertyID: id, Owner1FirstName: first, Owner1LastName: last}
}

// TestDiff_IdenticalSnapshots tests that a snapshot diffed against itself is empty.
func TestDiff_IdenticalSnapshots(t *testing.T) {
	snap := Snapshot{
		owned("P1", "Ann", "Lee"),
		{PropertyID: "P2", LastSaleAmount: amount("100"), Extra: map[string]any{"pool": true}},
	}

	result := NewDiffer().Diff(snap, snap)

	assert.False(t, result.HasChanges())
	assert.NotNil(t, result.Changes)
	assert.Zero(t, result.Added+result.Updated+result.Removed)
}

// TestDiff_RemovedAndUpdated tests the canonical removed-plus-updated example.
func TestDiff_RemovedAndUpdated(t *testing.T) {
	old := Snapshot{owned("P1", "Ann", "Lee"), owned("P2", "Bob", "Smith")}
	updated := Snapshot{owned("P2", "Bob", "Jones")}

	result := NewDiffer().Diff(old, updated)

	require.Len(t, result.Changes, 2)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Added)

	assert.Equal(t, ChangeEntry{PropertyID: "P1", Type: ChangeRemoved}, result.Changes[0])
	assert.Equal(t, "P2", result.Changes[1].PropertyID)
	assert.Equal(t, ChangeUpdated, result.Changes[1].Type)
	assert.Equal(t, map[string]FieldChange{
		"owner1_last_name": {Old: "Smith", New: "Jones"},
	}, result.Changes[1].FieldChanges)
}

// TestDiff_Ordering tests removed entries first, then added and updated in new-snapshot order.
func TestDiff_Ordering(t *testing.T) {
	old := Snapshot{owned("A", "", "1"), owned("B", "", "1"), owned("C", "", "1")}
	updated := Snapshot{owned("D", "", "1"), owned("C", "", "2"), owned("E", "", "1")}

	result := NewDiffer().Diff(old, updated)

	var order []string
	for _, c := range result.Changes {
		order = append(order, string(c.Type)+":"+c.PropertyID)
	}
	assert.Equal(t, []string{"removed:A", "removed:B", "added:D", "updated:C", "added:E"}, order)
	assert.Equal(t, len(result.Changes), result.Added+result.Updated+result.Removed)
}

// TestDiff_IgnoredFields tests that bookkeeping fields never produce an update.
func TestDiff_IgnoredFields(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(24 * time.Hour)

	old := Snapshot{{ID: "row-1", PropertyID: "P1", CreatedAt: &earlier, UpdatedAt: &earlier, EstimatedValue: amount("10")}}
	updated := Snapshot{{ID: "row-2", PropertyID: "P1", CreatedAt: &later, UpdatedAt: &later, EstimatedValue: amount("20")}}

	result := NewDiffer().Diff(old, updated)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, []string{"estimated_value"}, keys(result.Changes[0].FieldChanges))

	result = NewDiffer(WithIgnoredFields("estimated_value")).Diff(old, updated)
	assert.False(t, result.HasChanges())
}

// TestDiff_FieldValues tests structural comparison of pointers, decimals, nested values and extra fields.
func TestDiff_FieldValues(t *testing.T) {
	tests := []struct {
		name    string
		old     PropertyRecord
		updated PropertyRecord
		want    map[string]FieldChange
	}{
		{
			name:    "Equal decimals with different scale",
			old:     PropertyRecord{PropertyID: "P", LastSaleAmount: amount("100")},
			updated: PropertyRecord{PropertyID: "P", LastSaleAmount: amount("100.00")},
		},
		{
			name:    "Amount appears",
			old:     PropertyRecord{PropertyID: "P"},
			updated: PropertyRecord{PropertyID: "P", LastSaleAmount: amount("250000")},
			want: map[string]FieldChange{
				"last_sale_amount": {Old: nil, New: decimal.RequireFromString("250000")},
			},
		},
		{
			name:    "Location appears",
			old:     PropertyRecord{PropertyID: "P"},
			updated: PropertyRecord{PropertyID: "P", Location: &LatLng{Lat: 1, Lng: 2}},
			want: map[string]FieldChange{
				"location": {Old: nil, New: LatLng{Lat: 1, Lng: 2}},
			},
		},
		{
			name:    "Nested address change",
			old:     PropertyRecord{PropertyID: "P", Address: PropertyAddress{City: "Austin"}},
			updated: PropertyRecord{PropertyID: "P", Address: PropertyAddress{City: "Dallas"}},
			want: map[string]FieldChange{
				"address": {Old: PropertyAddress{City: "Austin"}, New: PropertyAddress{City: "Dallas"}},
			},
		},
		{
			name:    "Extra field changes",
			old:     PropertyRecord{PropertyID: "P", Extra: map[string]any{"units": float64(2), "tags": []any{}}},
			updated: PropertyRecord{PropertyID: "P", Extra: map[string]any{"units": float64(3), "tags": []any(nil)}},
			want: map[string]FieldChange{
				"units": {Old: float64(2), New: float64(3)},
			},
		},
		{
			name:    "Extra field added",
			old:     PropertyRecord{PropertyID: "P"},
			updated: PropertyRecord{PropertyID: "P", Extra: map[string]any{"pool": true}},
			want: map[string]FieldChange{
				"pool": {Old: nil, New: true},
			},
		},
		{
			name:    "Extra field only in old record is not compared",
			old:     PropertyRecord{PropertyID: "P", Extra: map[string]any{"pool": true}},
			updated: PropertyRecord{PropertyID: "P"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewDiffer().Diff(Snapshot{tt.old}, Snapshot{tt.updated})
			if tt.want == nil {
				assert.False(t, result.HasChanges())
				return
			}
			require.Len(t, result.Changes, 1)
			assert.Equal(t, tt.want, result.Changes[0].FieldChanges)
		})
	}
}

func TestFields(t *testing.T) {
	r := PropertyRecord{
		PropertyID:     "P1",
		LastSaleAmount: amount("5"),
		Extra:          map[string]any{"property_id": "shadowed", "pool": true},
	}

	fields := Fields(r)

	assert.Equal(t, "P1", fields["property_id"])
	assert.Equal(t, true, fields["pool"])
	assert.Nil(t, fields["location"])
	assert.Contains(t, fields, "location")
	assert.NotContains(t, fields, "extra")
	assert.True(t, decimal.RequireFromString("5").Equal(fields["last_sale_amount"].(decimal.Decimal)))
}

func keys(m map[string]FieldChange) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
