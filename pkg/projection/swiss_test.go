package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/swisstile/pkg/datum"
	"github.com/kiesman99/swisstile/pkg/geo"
)

var (
	bern   = geo.LatLng{Lat: 46.951083, Lng: 7.438632}
	zurich = geo.LatLng{Lat: 47.376870, Lng: 8.547970}
	lugano = geo.LatLng{Lat: 46.003677, Lng: 8.951052}
	basel  = geo.LatLng{Lat: 47.559599, Lng: 7.588576}
)

// failingDatum fails every conversion.
type failingDatum struct{}

func (failingDatum) EPSG() int { return 0 }
func (failingDatum) GeographicToProjected(float64, float64, float64) (float64, float64, error) {
	return 0, 0, errors.New("diverged")
}
func (failingDatum) ProjectedToGeographic(float64, float64, float64) (float64, float64, error) {
	return 0, 0, errors.New("diverged")
}

func TestSwissLV03_ResolutionMonotonic(t *testing.T) {
	p := NewSwissLV03(nil)
	for z := SwissMinZoom; z < SwissMaxZoom; z++ {
		assert.GreaterOrEqual(t, p.GroundResolution(z), p.GroundResolution(z+1), "zoom %d", z)
		assert.Greater(t, p.GroundResolution(z+1), 0.0)
	}
}

func TestSwissLV03_TileMatrixMonotonic(t *testing.T) {
	p := NewSwissLV03(nil)
	for z := SwissMinZoom; z < SwissMaxZoom; z++ {
		a, b := p.TileMatrixMax(z), p.TileMatrixMax(z+1)
		assert.LessOrEqual(t, a.Width, b.Width, "zoom %d", z)
		assert.LessOrEqual(t, a.Height, b.Height, "zoom %d", z)
		assert.Equal(t, geo.Size{}, p.TileMatrixMin(z))
	}
}

func TestSwissLV03_TileMatrixCoversExtent(t *testing.T) {
	// every level's last tile reaches the matrix edge and no further
	p := NewSwissLV03(nil)
	for z := SwissMinZoom; z <= SwissMaxZoom; z++ {
		span := 256 * p.GroundResolution(z)
		max := p.TileMatrixMax(z)
		assert.Equal(t, int64(math.Ceil((MatrixMaxX-MatrixMinX)/span))-1, max.Width, "zoom %d", z)
		assert.Equal(t, int64(math.Ceil((MatrixMaxY-MatrixMinY)/span))-1, max.Height, "zoom %d", z)
	}
}

func TestSwissLV03_DerivedFinestLevels(t *testing.T) {
	// zooms 21-24 sit on levels the capabilities leave out
	p := NewSwissLV03(nil)
	assert.Equal(t, geo.Size{Width: 18749, Height: 12499}, p.TileMatrixMax(20))
	assert.Equal(t, geo.Size{Width: 37499, Height: 24999}, p.TileMatrixMax(21))
	assert.Equal(t, geo.Size{Width: 1874999, Height: 1249999}, p.TileMatrixMax(24))
}

func TestSwissLV03_UndefinedZoom(t *testing.T) {
	p := NewSwissLV03(nil)
	for _, z := range []int{-1, -8, SwissMaxZoom + 1, 100} {
		assert.Zero(t, p.GroundResolution(z), "zoom %d", z)
		assert.Equal(t, geo.Size{}, p.TileMatrixMax(z), "zoom %d", z)

		px, err := p.Forward(bern, z)
		assert.ErrorIs(t, err, ErrUndefinedZoom)
		assert.True(t, px.IsEmpty())

		ll, err := p.Inverse(geo.Pixel{X: 10, Y: 10}, z)
		assert.ErrorIs(t, err, ErrUndefinedZoom)
		assert.True(t, ll.IsEmpty())
	}
}

func TestSwissLV03_CoarsestZoom(t *testing.T) {
	p := NewSwissLV03(nil)
	assert.Equal(t, 0, SwissMinZoom)
	assert.Equal(t, 24, SwissMaxZoom)
	assert.Equal(t, swissResolutions[8], p.GroundResolution(0))
	assert.Equal(t, 2000.0, p.GroundResolution(0))
	assert.Equal(t, geo.Size{Width: 0, Height: 0}, p.TileMatrixMax(0))
	assert.Equal(t, 0.001, p.GroundResolution(SwissMaxZoom))
}

func TestSwissLV03_Forward(t *testing.T) {
	p := NewSwissLV03(nil)

	px, err := p.Forward(bern, 0)
	require.NoError(t, err)
	// Bern is (600000, 200000): 180 km east and 150 km south of the matrix origin
	assert.Equal(t, geo.Pixel{X: 89, Y: 74}, px)

	px, err = p.Forward(bern, 9)
	require.NoError(t, err)
	assert.Equal(t, geo.Pixel{X: 1799, Y: 1499}, px)

	col, row := TileOf(px, p.TileSize())
	assert.Equal(t, int64(7), col)
	assert.Equal(t, int64(5), row)
	assert.True(t, TileInMatrix(p, col, row, 9))
}

func TestSwissLV03_ForwardClipsNorth(t *testing.T) {
	p := NewSwissLV03(nil)
	top := p.Bounds().Top()
	for z := SwissMinZoom; z <= 16; z++ {
		outside, err := p.Forward(geo.LatLng{Lat: 75, Lng: 8}, z)
		require.NoError(t, err)
		edge, err := p.Forward(geo.LatLng{Lat: top, Lng: 8}, z)
		require.NoError(t, err)
		assert.Equal(t, edge, outside, "zoom %d", z)
	}
}

func TestSwissLV03_RoundTrip(t *testing.T) {
	p := NewSwissLV03(nil)
	var d datum.SwissLV03
	for _, ll := range []geo.LatLng{bern, zurich, lugano, basel} {
		wantX, wantY, err := d.GeographicToProjected(ll.Lat, ll.Lng, StandardAltitude)
		require.NoError(t, err)

		for z := SwissMinZoom; z <= SwissMaxZoom; z++ {
			res := p.GroundResolution(z)
			px, err := p.Forward(ll, z)
			require.NoError(t, err)
			back, err := p.Inverse(px, z)
			require.NoError(t, err)
			require.False(t, back.IsEmpty())

			gotX, gotY, err := d.GeographicToProjected(back.Lat, back.Lng, StandardAltitude)
			require.NoError(t, err)

			// the inverse returns the pixel's top-left corner
			assert.InDelta(t, wantX, gotX, res+1e-4, "x at zoom %d", z)
			assert.InDelta(t, wantY, gotY, res+1e-4, "y at zoom %d", z)
		}
	}
}

func TestSwissLV03_ToProjectedClipsToMatrix(t *testing.T) {
	p := NewSwissLV03(nil)

	m, err := p.ToProjected(geo.Pixel{X: -1000, Y: -1000}, 0)
	require.NoError(t, err)
	assert.Equal(t, geo.Projected{X: MatrixMinX, Y: MatrixMaxY}, m)

	m, err = p.ToProjected(geo.Pixel{X: 1 << 40, Y: 1 << 40}, 0)
	require.NoError(t, err)
	assert.Equal(t, geo.Projected{X: MatrixMaxX, Y: MatrixMinY}, m)

	m, err = p.ToProjected(geo.EmptyPixel, 0)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
}

func TestSwissLV03_DatumFailureYieldsEmpty(t *testing.T) {
	p := NewSwissLV03(failingDatum{})

	px, err := p.Forward(bern, 5)
	require.NoError(t, err)
	assert.True(t, px.IsEmpty())

	ll, err := p.Inverse(geo.Pixel{X: 100, Y: 100}, 5)
	require.NoError(t, err)
	assert.True(t, ll.IsEmpty())

	// NaN input survives clipping and makes the real transform fail too
	px, err = NewSwissLV03(nil).Forward(geo.EmptyLatLng, 5)
	require.NoError(t, err)
	assert.True(t, px.IsEmpty())

	ll, err = NewSwissLV03(nil).Inverse(geo.EmptyPixel, 5)
	require.NoError(t, err)
	assert.True(t, ll.IsEmpty())
}

func TestTileOf(t *testing.T) {
	size := geo.Size{Width: 256, Height: 256}
	tests := []struct {
		px       geo.Pixel
		col, row int64
	}{
		{geo.Pixel{X: 0, Y: 0}, 0, 0},
		{geo.Pixel{X: 255, Y: 256}, 0, 1},
		{geo.Pixel{X: 512, Y: 1023}, 2, 3},
		{geo.Pixel{X: -1, Y: -256}, -1, -1},
		{geo.Pixel{X: -257, Y: 0}, -2, 0},
	}
	for _, tt := range tests {
		col, row := TileOf(tt.px, size)
		assert.Equal(t, tt.col, col, "%v", tt.px)
		assert.Equal(t, tt.row, row, "%v", tt.px)
	}
}
