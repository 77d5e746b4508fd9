package models

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"parcel-watch/core/reconcile"

	shp "github.com/jonas-p/go-shp"
)

// Default DBF attribute names for shapefile places.
const (
	DefaultShapeAddressField = "ADDRESS"
	DefaultShapeNameField    = "NAME"
)

// ShapefileFields names the DBF attributes holding a place's address and name.
type ShapefileFields struct {
	Address string
	Name    string
}

func (f ShapefileFields) withDefaults() ShapefileFields {
	if f.Address == "" {
		f.Address = DefaultShapeAddressField
	}
	if f.Name == "" {
		f.Name = DefaultShapeNameField
	}
	return f
}

// DecodePlacesShapefile reads places from a parcel or point layer given as a
// .shp geometry stream and its .dbf attribute stream. Points keep their
// coordinates; other shapes are placed at the centre of their bounding box.
// Coordinates must already be WGS84 longitude/latitude; a shape without a
// usable coordinate keeps its place with a nil Location. The readers are
// closed before returning.
func DecodePlacesShapefile(shpReader, dbfReader io.ReadCloser, fields ShapefileFields) ([]reconcile.ExternalPlace, error) {
	fields = fields.withDefaults()

	r := shp.SequentialReaderFromExt(shpReader, dbfReader)
	defer r.Close()

	addressCol, nameCol := -1, -1
	for i, f := range r.Fields() {
		switch {
		case strings.EqualFold(f.String(), fields.Address):
			addressCol = i
		case strings.EqualFold(f.String(), fields.Name):
			nameCol = i
		}
	}
	if addressCol == -1 {
		return nil, fmt.Errorf("%w: shapefile has no %s attribute", ErrInvalidPayload, fields.Address)
	}

	places := []reconcile.ExternalPlace{}
	var shaped, located int
	for r.Next() {
		_, shape := r.Shape()
		place := reconcile.ExternalPlace{
			FormattedAddress: strings.TrimSpace(r.Attribute(addressCol)),
		}
		if nameCol >= 0 {
			place.Name = strings.TrimSpace(r.Attribute(nameCol))
		}
		if lat, lng, ok := shapeLocation(shape); ok {
			shaped++
			if validLatLng(lat, lng) {
				place.Location = &reconcile.LatLng{Lat: lat, Lng: lng}
				located++
			}
		}
		places = append(places, place)
	}
	if err := r.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	// Not a single lat/lng pair means the file uses a projected coordinate system.
	if shaped > 0 && located == 0 {
		return nil, fmt.Errorf("%w: shapefile coordinates are not WGS84 lat/lng", ErrInvalidPayload)
	}

	return places, nil
}

func shapeLocation(shape shp.Shape) (lat, lng float64, ok bool) {
	switch s := shape.(type) {
	case nil, *shp.Null:
		return 0, 0, false
	case *shp.Point:
		return s.Y, s.X, true
	default:
		box := shape.BBox()
		return (box.MinY + box.MaxY) / 2, (box.MinX + box.MaxX) / 2, true
	}
}
