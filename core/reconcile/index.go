package reconcile

import (
	"math"
	"sort"

	"parcel-watch/core/address"

	"github.com/mmcloughlin/geohash"
)

// maxCellPrecision is the finest geohash precision used for proximity buckets.
const maxCellPrecision = 9

// indexedPlace is the read-only projection of a place used during matching.
type indexedPlace struct {
	lat        float64
	lng        float64
	located    bool
	normalized string
	formatted  string
	name       string
}

// PlaceIndex is an immutable lookup structure built once from a places payload.
// It is safe for concurrent use by multiple goroutines after construction.
type PlaceIndex struct {
	// addresses maps every normalized candidate (full address and street-only part)
	// to the position of the first place that produced it.
	addresses map[string]int

	// places is the parallel list used for proximity fallback, in input order.
	// Places without a usable coordinate stay in the list but are never located.
	places []indexedPlace

	// cells buckets place positions by geohash so proximity only scans the
	// 3x3 neighbourhood around a property. Nil when the threshold is too large.
	cells     map[string][]int
	precision uint
	threshold float64
}

// BuildPlaceIndex indexes places for address and proximity lookups.
// A non-positive threshold falls back to DefaultProximityThreshold.
func BuildPlaceIndex(places []ExternalPlace, threshold float64) *PlaceIndex {
	if threshold <= 0 {
		threshold = DefaultProximityThreshold
	}

	idx := &PlaceIndex{
		addresses: make(map[string]int, len(places)*2),
		places:    make([]indexedPlace, 0, len(places)),
		precision: cellPrecision(threshold),
		threshold: threshold,
	}
	if idx.precision > 0 {
		idx.cells = make(map[string][]int)
	}

	for i, p := range places {
		stripped := address.StripCountry(p.FormattedAddress)
		normalized := address.Normalize(stripped)

		idx.register(normalized, i)
		idx.register(address.Normalize(address.StreetPart(stripped)), i)

		ip := indexedPlace{
			normalized: normalized,
			formatted:  p.FormattedAddress,
			name:       p.Name,
		}
		if p.Location != nil && validCoordinate(p.Location.Lat, p.Location.Lng) {
			ip.lat, ip.lng, ip.located = p.Location.Lat, p.Location.Lng, true
			if idx.cells != nil {
				cell := geohash.EncodeWithPrecision(ip.lat, ip.lng, idx.precision)
				idx.cells[cell] = append(idx.cells[cell], i)
			}
		}
		idx.places = append(idx.places, ip)
	}

	return idx
}

// Len returns the number of indexed places.
func (idx *PlaceIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.places)
}

// Threshold returns the proximity threshold the index was built for.
func (idx *PlaceIndex) Threshold() float64 {
	return idx.threshold
}

func (idx *PlaceIndex) register(candidate string, pos int) {
	if candidate == "" {
		return
	}
	if _, exists := idx.addresses[candidate]; !exists {
		idx.addresses[candidate] = pos
	}
}

// lookupAddress returns the position of the place registered for a normalized address.
func (idx *PlaceIndex) lookupAddress(normalized string) (int, bool) {
	pos, ok := idx.addresses[normalized]
	return pos, ok
}

// nearby returns the positions of places that may lie within the threshold of
// the given point, in ascending (input) order.
func (idx *PlaceIndex) nearby(lat, lng float64) []int {
	if idx.cells == nil {
		all := make([]int, len(idx.places))
		for i := range all {
			all[i] = i
		}
		return all
	}

	center := geohash.EncodeWithPrecision(lat, lng, idx.precision)
	var positions []int
	positions = append(positions, idx.cells[center]...)
	for _, neighbour := range geohash.Neighbors(center) {
		positions = append(positions, idx.cells[neighbour]...)
	}
	sort.Ints(positions)

	// Neighbour cells can repeat near the poles.
	unique := positions[:0]
	for _, pos := range positions {
		if len(unique) == 0 || pos != unique[len(unique)-1] {
			unique = append(unique, pos)
		}
	}
	return unique
}

// cellPrecision returns the finest geohash precision whose cells are at least
// threshold wide in both axes, or 0 when even a single character is too fine.
func cellPrecision(threshold float64) uint {
	var best uint
	for chars := uint(1); chars <= maxCellPrecision; chars++ {
		bits := 5 * chars
		lngBits := (bits + 1) / 2
		latBits := bits / 2
		lngWidth := 360 / math.Pow(2, float64(lngBits))
		latHeight := 180 / math.Pow(2, float64(latBits))
		if lngWidth < threshold || latHeight < threshold {
			break
		}
		best = chars
	}
	return best
}

func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// planarDistance is the straight-line distance in degrees, not a great-circle distance.
func planarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat + dLng*dLng)
}
