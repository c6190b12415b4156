package datum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bern is the projection origin; the other values pin the polynomial
// output so regressions in the coefficients show up.
var swissRefPoints = []struct {
	name     string
	lat, lng float64
	x, y     float64
	tolM     float64
}{
	{"Bern (origin)", 46.951083, 7.438632, 600_000, 200_000, 2},
	{"Zurich", 47.376870, 8.547970, 683_777.6, 247_928.9, 1},
	{"Geneva", 46.207450, 6.143200, 500_021.8, 118_160.0, 1},
}

func TestSwissLV03_GeographicToProjected(t *testing.T) {
	var s SwissLV03
	for _, ref := range swissRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			x, y, err := s.GeographicToProjected(ref.lat, ref.lng, 548)
			require.NoError(t, err)
			assert.InDelta(t, ref.x, x, ref.tolM)
			assert.InDelta(t, ref.y, y, ref.tolM)
		})
	}
}

func TestSwissLV03_ProjectedToGeographic(t *testing.T) {
	var s SwissLV03
	lat, lng, err := s.ProjectedToGeographic(600_000, 200_000, 548)
	require.NoError(t, err)
	assert.InDelta(t, 46.951083, lat, 0.0001)
	assert.InDelta(t, 7.438632, lng, 0.0001)
}

func TestSwissLV03_RoundTrip(t *testing.T) {
	var s SwissLV03
	for lat := 45.4; lat <= 48.2; lat += 0.35 {
		for lng := 5.2; lng <= 11.4; lng += 0.45 {
			x, y, err := s.GeographicToProjected(lat, lng, 548)
			require.NoError(t, err)

			gotLat, gotLng, err := s.ProjectedToGeographic(x, y, 548)
			require.NoError(t, err)

			// 1e-8 degrees is about a millimeter
			assert.InDelta(t, lat, gotLat, 1e-8, "lat at %.2f,%.2f", lat, lng)
			assert.InDelta(t, lng, gotLng, 1e-8, "lng at %.2f,%.2f", lat, lng)
		}
	}
}

func TestSwissLV03_OutOfDomain(t *testing.T) {
	var s SwissLV03
	tests := []struct {
		name     string
		lat, lng float64
		alt      float64
	}{
		{"nan lat", math.NaN(), 8, 548},
		{"inf lng", 47, math.Inf(1), 548},
		{"nan alt", 47, 8, math.NaN()},
		{"equator", 0, 8, 548},
		{"america", 40, -74, 548},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.GeographicToProjected(tt.lat, tt.lng, tt.alt)
			assert.ErrorIs(t, err, ErrOutOfDomain)
		})
	}

	_, _, err := s.ProjectedToGeographic(math.NaN(), 200_000, 548)
	assert.ErrorIs(t, err, ErrOutOfDomain)

	// far outside the country the inverse leaves the validity area
	_, _, err = s.ProjectedToGeographic(9_000_000, 200_000, 548)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}

func TestWebMercator(t *testing.T) {
	m := NewWebMercator()
	assert.Equal(t, 3857, m.EPSG())

	x, y, err := m.GeographicToProjected(0, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, _, err = m.GeographicToProjected(0, 180, 0)
	require.NoError(t, err)
	assert.InDelta(t, 20037508.342789244, x, 1e-3)

	lat, lng, err := m.ProjectedToGeographic(833_000, 5_933_000, 0)
	require.NoError(t, err)
	x, y, err = m.GeographicToProjected(lat, lng, 0)
	require.NoError(t, err)
	assert.InDelta(t, 833_000, x, 1e-3)
	assert.InDelta(t, 5_933_000, y, 1e-3)

	_, _, err = m.GeographicToProjected(89.9, 0, 0)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}
