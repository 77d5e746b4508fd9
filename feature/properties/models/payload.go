package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"parcel-watch/core/utils"

	"github.com/shopspring/decimal"
)

// ErrInvalidPayload is returned when a provider payload cannot be decoded
// into core records.
var ErrInvalidPayload = errors.New("invalid provider payload")

// envelopeKeys are the wrapper keys providers use around record arrays.
var envelopeKeys = []string{"data", "results", "properties", "places"}

// splitRecords accepts either a top-level JSON array or an object wrapping
// the array under one of envelopeKeys.
func splitRecords(data []byte) ([]map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPayload)
	}

	var records []map[string]json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if isNull(raw) {
			return []map[string]json.RawMessage{}, nil
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, key, err)
		}
		return records, nil
	}
	return nil, fmt.Errorf("%w: expected an array of records", ErrInvalidPayload)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// rawValue unmarshals a raw field into a loosely typed value. Numbers become float64.
func rawValue(raw json.RawMessage) any {
	if isNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func rawString(raw json.RawMessage) string {
	return strings.TrimSpace(utils.ToString(rawValue(raw)))
}

func rawFloat(raw json.RawMessage) (float64, bool) {
	return utils.ToFloat(rawValue(raw))
}

// rawDecimal accepts quoted and unquoted numbers. Empty or unparseable values are nil.
func rawDecimal(raw json.RawMessage) *decimal.Decimal {
	s := rawString(raw)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// validLatLng rejects non-finite and out-of-range pairs, and the (0, 0)
// placeholder providers emit for unknown coordinates.
func validLatLng(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// SnakeCase converts a provider key such as "yearBuilt" to "year_built".
// Keys that are already snake_case are returned lowercased.
func SnakeCase(key string) string {
	runes := []rune(key)
	var sb strings.Builder
	sb.Grow(len(key) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
