package reconcile

import (
	"fmt"
	"strings"
	"time"

	"parcel-watch/core/utils"

	"github.com/shopspring/decimal"
)

// Fields that make an update worth notifying about.
const (
	FieldOwner1FirstName = "owner1_first_name"
	FieldOwner1LastName  = "owner1_last_name"
	FieldOwner2FirstName = "owner2_first_name"
	FieldOwner2LastName  = "owner2_last_name"
	FieldLastSaleDate    = "last_sale_date"
	FieldLastSaleAmount  = "last_sale_amount"
)

// SignificantFields lists every field checked by Classify.
var SignificantFields = []string{
	FieldOwner1FirstName,
	FieldOwner1LastName,
	FieldOwner2FirstName,
	FieldOwner2LastName,
	FieldLastSaleDate,
	FieldLastSaleAmount,
}

// saleDateLayouts are the date formats providers are known to send.
var saleDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// Classify keeps the updated entries that touch ownership or sale fields and
// describes each one. An empty result means there is nothing to notify.
func Classify(changes []ChangeEntry) []SignificantChange {
	var significant []SignificantChange
	for _, entry := range changes {
		if !IsSignificant(entry) {
			continue
		}
		significant = append(significant, describe(entry))
	}
	return significant
}

// IsSignificant reports whether an entry is an update of at least one
// ownership or sale field.
func IsSignificant(entry ChangeEntry) bool {
	if entry.Type != ChangeUpdated {
		return false
	}
	for _, field := range SignificantFields {
		if _, ok := entry.FieldChanges[field]; ok {
			return true
		}
	}
	return false
}

func describe(entry ChangeEntry) SignificantChange {
	fc := entry.FieldChanges
	sc := SignificantChange{
		PropertyID:   entry.PropertyID,
		FieldChanges: fc,
	}

	owner, ownerChanged := newOwner(entry)
	sc.NewOwner = owner

	_, dateChanged := fc[FieldLastSaleDate]
	if dateChanged {
		sc.SaleDate = FormatSaleDate(utils.ToString(fc[FieldLastSaleDate].New))
	}
	_, amountChanged := fc[FieldLastSaleAmount]
	if amountChanged {
		sc.SaleAmount = toDecimal(fc[FieldLastSaleAmount].New)
	}

	sale := dateChanged || amountChanged
	switch {
	case sale && ownerChanged:
		sc.Kind = KindSaleAndOwnership
	case sale:
		sc.Kind = KindSale
	default:
		sc.Kind = KindOwnership
	}

	switch {
	case dateChanged:
		sc.Text = fmt.Sprintf("%s sold on %s", entry.PropertyID, sc.SaleDate)
		if ownerChanged {
			sc.Text += fmt.Sprintf(" and the new owner is %s", owner)
		}
	case ownerChanged:
		sc.Text = fmt.Sprintf("%s ownership changed to %s", entry.PropertyID, owner)
	default:
		sc.Text = fmt.Sprintf("%s sale amount changed to %s", entry.PropertyID, formatAmount(sc.SaleAmount))
	}

	return sc
}

// newOwner builds "{first} {last}" for the first owner pair with a changed
// name, preferring the primary owner. Both names come from the newer record
// when the entry carries it, so an unchanged first name is kept. Without it
// only changed fields are known and the result may be the last name alone.
func newOwner(entry ChangeEntry) (string, bool) {
	fc := entry.FieldChanges
	pairs := [][2]string{
		{FieldOwner1FirstName, FieldOwner1LastName},
		{FieldOwner2FirstName, FieldOwner2LastName},
	}
	var current map[string]any
	if entry.Current != nil {
		current = Fields(*entry.Current)
	}
	value := func(field string) string {
		if current != nil {
			return strings.TrimSpace(utils.ToString(current[field]))
		}
		return strings.TrimSpace(utils.ToString(fc[field].New))
	}

	for _, pair := range pairs {
		_, firstChanged := fc[pair[0]]
		_, lastChanged := fc[pair[1]]
		if !firstChanged && !lastChanged {
			continue
		}

		firstName := value(pair[0])
		lastName := value(pair[1])
		if firstName == "" {
			return lastName, true
		}
		return strings.TrimSpace(firstName + " " + lastName), true
	}
	return "", false
}

// FormatSaleDate renders a provider sale date as M/D/YYYY. Unparseable input
// is returned unchanged.
func FormatSaleDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

func toDecimal(v any) *decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return &val
	case *decimal.Decimal:
		return val
	case nil:
		return nil
	default:
		d, err := decimal.NewFromString(utils.ToString(val))
		if err != nil {
			return nil
		}
		return &d
	}
}

func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return "unknown"
	}
	return "$" + d.StringFixed(2)
}
