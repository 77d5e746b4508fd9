package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellPrecision(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      uint
	}{
		{"Default threshold", 0.001, 7},
		{"Wider threshold", 0.002, 6},
		{"Tiny threshold", 0.00001, 9},
		{"Huge threshold", 90, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellPrecision(tt.threshold))
		})
	}
}

func TestBuildPlaceIndex(t *testing.T) {
	places := []ExternalPlace{
		place("123 Main Street, Springfield, IL 12345, United States", "a", 40, -89),
		place("123 Main St, Shelbyville, IL", "b", 41, -88),
		place("", "empty", math.NaN(), 0),
	}

	idx := BuildPlaceIndex(places, 0)

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, DefaultProximityThreshold, idx.Threshold())

	pos, ok := idx.lookupAddress("123 main st springfield il 12345")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	// The street-only candidate is shared; the first place keeps it.
	pos, ok = idx.lookupAddress("123 main st")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok = idx.lookupAddress("123 main st shelbyville il")
	assert.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = idx.lookupAddress("")
	assert.False(t, ok)
}

func TestPlaceIndex_Nearby(t *testing.T) {
	places := []ExternalPlace{
		place("a", "a", 40.0009, -89.0),
		place("b", "b", 41.0, -89.0),
		place("c", "c", 39.9995, -89.0004),
	}

	idx := BuildPlaceIndex(places, 0.001)

	assert.Equal(t, []int{0, 2}, idx.nearby(40.0, -89.0))
	assert.Equal(t, []int{1}, idx.nearby(41.0, -89.0))
}

func TestPlaceIndex_NearbyWithoutCells(t *testing.T) {
	places := []ExternalPlace{place("a", "a", 0, 0), place("b", "b", 50, 50)}

	idx := BuildPlaceIndex(places, 90)

	assert.Nil(t, idx.cells)
	assert.Equal(t, []int{0, 1}, idx.nearby(10, 10))
}

func TestPlanarDistance(t *testing.T) {
	assert.InDelta(t, 5.0, planarDistance(0, 0, 3, 4), 1e-12)
	assert.Equal(t, 0.0, planarDistance(1, 1, 1, 1))
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, validCoordinate(40, -89))
	assert.False(t, validCoordinate(math.NaN(), 0))
	assert.False(t, validCoordinate(0, math.Inf(1)))
	assert.False(t, validCoordinate(91, 0))
	assert.False(t, validCoordinate(0, -181))
}
