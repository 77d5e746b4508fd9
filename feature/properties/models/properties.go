package models

import (
	"encoding/json"
	"fmt"

	"parcel-watch/core/reconcile"
	"parcel-watch/core/server"
)

// profile describes how a provider lays out identity and coordinates.
type profile struct {
	idKeys []string
	coords func(fields map[string]json.RawMessage) (*reconcile.LatLng, []string)
}

var profiles = map[string]profile{
	server.ProviderRealEstateAPI: {
		idKeys: []string{"id", "property_id"},
		coords: latLngFields,
	},
	server.ProviderPropertyCard: {
		idKeys: []string{"property_id", "id"},
		coords: coordsPair,
	},
}

// Typed keys shared by every profile, by snake_case name.
const (
	keyAddress         = "address"
	keyStreet          = "street"
	keyCity            = "city"
	keyState           = "state"
	keyZip             = "zip"
	keyOwner1FirstName = "owner1_first_name"
	keyOwner1LastName  = "owner1_last_name"
	keyOwner2FirstName = "owner2_first_name"
	keyOwner2LastName  = "owner2_last_name"
	keyCompanyName     = "company_name"
	keyLastSaleDate    = "last_sale_date"
	keyLastSaleAmount  = "last_sale_amount"
	keyEstimatedValue  = "estimated_value"
	keyEstimatedEquity = "estimated_equity"
)

// DecodeProperties decodes a property payload for the given provider profile.
// Keys are matched in camelCase or snake_case; unknown keys are kept in Extra
// under their snake_case name. Records without an id fail the whole payload.
func DecodeProperties(provider string, data []byte) ([]reconcile.PropertyRecord, error) {
	p, ok := profiles[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider profile: %s", provider)
	}

	records, err := splitRecords(data)
	if err != nil {
		return nil, err
	}

	out := make([]reconcile.PropertyRecord, 0, len(records))
	for i, rec := range records {
		r, err := p.decode(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: property %d: %v", ErrInvalidPayload, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (p profile) decode(rec map[string]json.RawMessage) (reconcile.PropertyRecord, error) {
	fields := make(map[string]json.RawMessage, len(rec))
	for k, v := range rec {
		fields[SnakeCase(k)] = v
	}

	var r reconcile.PropertyRecord
	consumed := make(map[string]bool, len(fields))
	take := func(key string) json.RawMessage {
		consumed[key] = true
		return fields[key]
	}

	for _, key := range p.idKeys {
		if id := rawString(take(key)); id != "" && r.PropertyID == "" {
			r.PropertyID = id
		}
	}
	if r.PropertyID == "" {
		return r, fmt.Errorf("missing id")
	}

	extra := make(map[string]any)
	addr, err := decodeAddress(take(keyAddress), extra)
	if err != nil {
		return r, err
	}
	r.Address = addr
	fillString(&r.Address.Street, take(keyStreet))
	fillString(&r.Address.City, take(keyCity))
	fillString(&r.Address.State, take(keyState))
	fillString(&r.Address.Zip, take(keyZip))

	loc, coordKeys := p.coords(fields)
	for _, k := range coordKeys {
		consumed[k] = true
	}
	r.Location = loc

	r.Owner1FirstName = rawString(take(keyOwner1FirstName))
	r.Owner1LastName = rawString(take(keyOwner1LastName))
	r.Owner2FirstName = rawString(take(keyOwner2FirstName))
	r.Owner2LastName = rawString(take(keyOwner2LastName))
	r.CompanyName = rawString(take(keyCompanyName))
	r.LastSaleDate = rawString(take(keyLastSaleDate))
	r.LastSaleAmount = rawDecimal(take(keyLastSaleAmount))
	r.EstimatedValue = rawDecimal(take(keyEstimatedValue))
	r.EstimatedEquity = rawDecimal(take(keyEstimatedEquity))

	for key, raw := range fields {
		if consumed[key] {
			continue
		}
		extra[key] = rawValue(raw)
	}
	if len(extra) > 0 {
		r.Extra = extra
	}

	return r, nil
}

// decodeAddress accepts either a single-line string or an address object.
// Unknown address keys are kept in extra as "address_<key>".
func decodeAddress(raw json.RawMessage, extra map[string]any) (reconcile.PropertyAddress, error) {
	var addr reconcile.PropertyAddress
	if isNull(raw) {
		return addr, nil
	}

	switch rawValue(raw).(type) {
	case map[string]any:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return addr, fmt.Errorf("address: %v", err)
		}
		for k, v := range obj {
			switch key := SnakeCase(k); key {
			case keyAddress:
				addr.Address = rawString(v)
			case keyStreet:
				addr.Street = rawString(v)
			case keyCity:
				addr.City = rawString(v)
			case keyState:
				addr.State = rawString(v)
			case keyZip:
				addr.Zip = rawString(v)
			default:
				extra["address_"+key] = rawValue(v)
			}
		}
	case []any:
		return addr, fmt.Errorf("address: unexpected array")
	default:
		addr.Address = rawString(raw)
	}
	return addr, nil
}

func fillString(dst *string, raw json.RawMessage) {
	if *dst != "" {
		return
	}
	*dst = rawString(raw)
}

// latLngFields reads separate latitude/longitude keys.
func latLngFields(fields map[string]json.RawMessage) (*reconcile.LatLng, []string) {
	keys := []string{"latitude", "longitude"}
	lat, latOK := rawFloat(fields["latitude"])
	lng, lngOK := rawFloat(fields["longitude"])
	if !latOK || !lngOK || !validLatLng(lat, lng) {
		return nil, keys
	}
	return &reconcile.LatLng{Lat: lat, Lng: lng}, keys
}

// coordsPair reads a GeoJSON-style [lng, lat] pair.
func coordsPair(fields map[string]json.RawMessage) (*reconcile.LatLng, []string) {
	keys := []string{"coords"}
	var pair []json.RawMessage
	if raw := fields["coords"]; isNull(raw) || json.Unmarshal(raw, &pair) != nil || len(pair) != 2 {
		return nil, keys
	}
	lng, lngOK := rawFloat(pair[0])
	lat, latOK := rawFloat(pair[1])
	if !latOK || !lngOK || !validLatLng(lat, lng) {
		return nil, keys
	}
	return &reconcile.LatLng{Lat: lat, Lng: lng}, keys
}
