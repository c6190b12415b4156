package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var swiss = BoundsFromLTRB(5.14, 48.23, 11.48, 45.40)

func TestBoundsClipInsideIsNoop(t *testing.T) {
	points := []LatLng{
		{Lat: 46.951083, Lng: 7.438632},
		{Lat: 45.40, Lng: 5.14},
		{Lat: 48.23, Lng: 11.48},
	}
	for _, p := range points {
		assert.Equal(t, p, swiss.Clip(p))
		assert.True(t, swiss.ContainsLatLng(p))
	}
}

func TestBoundsClipOutsideLandsOnEdge(t *testing.T) {
	tests := []struct {
		name string
		in   LatLng
		want LatLng
	}{
		{"north", LatLng{Lat: 60, Lng: 8}, LatLng{Lat: 48.23, Lng: 8}},
		{"south", LatLng{Lat: 10, Lng: 8}, LatLng{Lat: 45.40, Lng: 8}},
		{"west", LatLng{Lat: 47, Lng: -3}, LatLng{Lat: 47, Lng: 5.14}},
		{"east", LatLng{Lat: 47, Lng: 20}, LatLng{Lat: 47, Lng: 11.48}},
		{"north-east", LatLng{Lat: 89, Lng: 179}, LatLng{Lat: 48.23, Lng: 11.48}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := swiss.Clip(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, swiss.ContainsLatLng(got))
			// clipping twice changes nothing
			assert.Equal(t, got, swiss.Clip(got))
		})
	}
}

func TestEmptySentinels(t *testing.T) {
	require.True(t, EmptyLatLng.IsEmpty())
	require.True(t, EmptyProjected.IsEmpty())
	require.True(t, EmptyPixel.IsEmpty())

	assert.False(t, LatLng{}.IsEmpty())
	assert.False(t, Pixel{}.IsEmpty())
	assert.False(t, swiss.ContainsLatLng(EmptyLatLng))

	// NaN survives clipping so the failure stays visible downstream
	assert.True(t, swiss.Clip(EmptyLatLng).IsEmpty())
	assert.True(t, math.IsNaN(Clip(math.NaN(), 0, 1)))
}

func TestCorners(t *testing.T) {
	assert.Equal(t, LatLng{Lat: 48.23, Lng: 5.14}, swiss.TopLeft())
	assert.Equal(t, LatLng{Lat: 45.40, Lng: 11.48}, swiss.BottomRight())
}
