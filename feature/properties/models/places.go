package models

import (
	"encoding/json"

	"parcel-watch/core/reconcile"
)

// PlaceGeometry mirrors the geocoder's geometry object.
type PlaceGeometry struct {
	Location *struct {
		Lat json.RawMessage `json:"lat"`
		Lng json.RawMessage `json:"lng"`
	} `json:"location"`
}

// DecodePlaces decodes a places payload of the form
// [{"formatted_address", "name", "geometry": {"location": {"lat", "lng"}}}],
// optionally wrapped in {"results": [...]}. A place whose geometry is missing
// or unusable is kept with a nil Location so it can still match by address.
func DecodePlaces(data []byte) ([]reconcile.ExternalPlace, error) {
	records, err := splitRecords(data)
	if err != nil {
		return nil, err
	}

	places := make([]reconcile.ExternalPlace, 0, len(records))
	for _, rec := range records {
		places = append(places, reconcile.ExternalPlace{
			FormattedAddress: rawString(rec["formatted_address"]),
			Name:             rawString(rec["name"]),
			Location:         placeLocation(rec["geometry"]),
		})
	}
	return places, nil
}

func placeLocation(raw json.RawMessage) *reconcile.LatLng {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var geometry PlaceGeometry
	if err := json.Unmarshal(raw, &geometry); err != nil || geometry.Location == nil {
		return nil
	}

	lat, latOK := rawFloat(geometry.Location.Lat)
	lng, lngOK := rawFloat(geometry.Location.Lng)
	if !latOK || !lngOK || !validLatLng(lat, lng) {
		return nil
	}
	return &reconcile.LatLng{Lat: lat, Lng: lng}
}
