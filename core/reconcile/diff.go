package reconcile

import (
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
)

// DefaultIgnoredFields are bookkeeping fields never compared between snapshots.
var DefaultIgnoredFields = []string{"id", "created_at", "updated_at"}

// Differ computes the structured difference between two snapshots.
type Differ struct {
	ignoreFields map[string]bool
	equal        []cmp.Option
}

// DifferOption is a functional option for configuring a Differ.
type DifferOption func(*Differ)

// WithIgnoredFields adds fields to skip during comparison.
func WithIgnoredFields(fields ...string) DifferOption {
	return func(d *Differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// NewDiffer creates a Differ that ignores DefaultIgnoredFields.
func NewDiffer(opts ...DifferOption) *Differ {
	d := &Differ{
		ignoreFields: make(map[string]bool),
		equal: []cmp.Option{
			cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
			cmpopts.EquateEmpty(),
		},
	}
	for _, field := range DefaultIgnoredFields {
		d.ignoreFields[field] = true
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diff compares two snapshots keyed by PropertyID.
//
// Removed entries come first in old-snapshot order, followed by added and
// updated entries in new-snapshot order. Records whose compared fields are all
// equal produce no entry.
func (d *Differ) Diff(old, updated Snapshot) DiffResult {
	oldMap := make(map[string]PropertyRecord, len(old))
	for _, r := range old {
		oldMap[r.PropertyID] = r
	}
	newMap := make(map[string]PropertyRecord, len(updated))
	for _, r := range updated {
		newMap[r.PropertyID] = r
	}

	result := DiffResult{Changes: []ChangeEntry{}}

	for _, r := range old {
		if _, exists := newMap[r.PropertyID]; !exists {
			result.Changes = append(result.Changes, ChangeEntry{
				PropertyID: r.PropertyID,
				Type:       ChangeRemoved,
			})
			result.Removed++
		}
	}

	for _, r := range updated {
		prev, exists := oldMap[r.PropertyID]
		if !exists {
			result.Changes = append(result.Changes, ChangeEntry{
				PropertyID: r.PropertyID,
				Type:       ChangeAdded,
			})
			result.Added++
			continue
		}

		if changes := d.compare(prev, r); len(changes) > 0 {
			current := r
			result.Changes = append(result.Changes, ChangeEntry{
				PropertyID:   r.PropertyID,
				Type:         ChangeUpdated,
				FieldChanges: changes,
				Current:      &current,
			})
			result.Updated++
		}
	}

	return result
}

// compare returns the fields of the newer record whose values differ
// structurally from the older record.
func (d *Differ) compare(old, updated PropertyRecord) map[string]FieldChange {
	oldFields := Fields(old)
	changes := make(map[string]FieldChange)

	for name, newValue := range Fields(updated) {
		if d.ignoreFields[name] {
			continue
		}
		oldValue := oldFields[name]
		if !cmp.Equal(oldValue, newValue, d.equal...) {
			changes[name] = FieldChange{Old: oldValue, New: newValue}
		}
	}

	return changes
}

// Fields flattens a record into its comparable fields keyed by JSON name.
// Nil pointers become nil; Extra entries are merged in without overriding
// typed fields.
func Fields(r PropertyRecord) map[string]any {
	v := reflect.ValueOf(r)
	t := v.Type()
	fields := make(map[string]any, t.NumField()+len(r.Extra))

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" || name == "extra" {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				fields[name] = nil
				continue
			}
			fv = fv.Elem()
		}
		fields[name] = fv.Interface()
	}

	for key, value := range r.Extra {
		if _, typed := fields[key]; !typed {
			fields[key] = value
		}
	}

	return fields
}
