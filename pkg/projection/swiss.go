package projection

import (
	"fmt"

	"github.com/kiesman99/swisstile/pkg/datum"
	"github.com/kiesman99/swisstile/pkg/geo"
)

// The LV03 WMTS grid numbers its levels from a much coarser scale than the
// zoom levels a map host addresses. Logical zoom z reads table row z+ZoomOffset.
const ZoomOffset = 8

// StandardAltitude is passed to every datum call; elevation is not tracked.
const StandardAltitude = 548.0

// Tile matrix corners in LV03 meters.
const (
	MatrixMinX = 420_000.0
	MatrixMaxX = 900_000.0
	MatrixMinY = 30_000.0
	MatrixMaxY = 350_000.0
)

const swissTileSize = 256

// Logical zoom range covered by the resolution table.
const (
	SwissMinZoom = 0
	SwissMaxZoom = len(swissResolutions) - ZoomOffset - 1
)

// swissBounds is the geographic rectangle whose corners project onto the
// tile matrix corners.
var swissBounds = geo.BoundsFromLTRB(5.1402988011045343, 48.230617093859344, 11.477436450865998, 45.398122325706872)

// Meters per pixel for each native level. The progression is the service's
// own and is not a power-of-two series.
var swissResolutions = [...]float64{
	4000, 3750, 3500, 3250, 3000, 2750, 2500, 2250, 2000, 1750,
	1500, 1250, 1000, 750, 650, 500, 250, 100, 50, 20,
	10, 5, 2.5, 2, 1.5, 1, 0.5, 0.25, 0.1, 0.05,
	0.01, 0.005, 0.001,
}

// Largest tile column/row per native level. Levels 0-28 are the values the
// WMTS capabilities publish. The service publishes no matrix for 29-32, so
// those rows are derived with the same ceil(extent/tile)-1 rule to keep the
// extent growing with the level. They are only reachable beyond zoom 20,
// which no provider serves.
var swissTileMatrixMax = [len(swissResolutions)]geo.Size{
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 0, Height: 0},
	{Width: 1, Height: 0},
	{Width: 1, Height: 0},
	{Width: 1, Height: 0},
	{Width: 1, Height: 1},
	{Width: 2, Height: 1},
	{Width: 2, Height: 1},
	{Width: 3, Height: 2},
	{Width: 7, Height: 4},
	{Width: 18, Height: 12},
	{Width: 37, Height: 24},
	{Width: 93, Height: 62},
	{Width: 187, Height: 124},
	{Width: 374, Height: 249},
	{Width: 749, Height: 499},
	{Width: 937, Height: 624},
	{Width: 1249, Height: 833},
	{Width: 1874, Height: 1249},
	{Width: 3749, Height: 2499},
	{Width: 7499, Height: 4999},
	{Width: 18749, Height: 12499},
	{Width: 37499, Height: 24999},
	{Width: 187499, Height: 124999},
	{Width: 374999, Height: 249999},
	{Width: 1874999, Height: 1249999},
}

// SwissLV03 is the CH1903 / LV03 (EPSG:21781) grid served by
// wmts.geo.admin.ch.
type SwissLV03 struct {
	datum datum.Transformer
}

// NewSwissLV03 returns the LV03 grid using t for datum transforms. A nil t
// selects the built-in polynomial transform.
func NewSwissLV03(t datum.Transformer) *SwissLV03 {
	if t == nil {
		t = datum.SwissLV03{}
	}
	return &SwissLV03{datum: t}
}

func (*SwissLV03) Name() string { return "EPSG:21781" }

func (*SwissLV03) Bounds() geo.Bounds { return swissBounds }

func (*SwissLV03) TileSize() geo.Size {
	return geo.Size{Width: swissTileSize, Height: swissTileSize}
}

func (s *SwissLV03) Forward(p geo.LatLng, zoom int) (geo.Pixel, error) {
	res := s.GroundResolution(zoom)
	if res == 0 {
		return geo.EmptyPixel, fmt.Errorf("%w: %d", ErrUndefinedZoom, zoom)
	}

	p = swissBounds.Clip(p)

	x, y, err := s.datum.GeographicToProjected(p.Lat, p.Lng, StandardAltitude)
	if err != nil {
		return geo.EmptyPixel, nil
	}

	// pixel rows grow southwards, LV03 northing grows northwards
	return toPixel(x-MatrixMinX, MatrixMaxY-y, res), nil
}

func (s *SwissLV03) Inverse(px geo.Pixel, zoom int) (geo.LatLng, error) {
	m, err := s.ToProjected(px, zoom)
	if err != nil {
		return geo.EmptyLatLng, err
	}
	if m.IsEmpty() {
		return geo.EmptyLatLng, nil
	}

	lat, lng, err := s.datum.ProjectedToGeographic(m.X, m.Y, StandardAltitude)
	if err != nil {
		return geo.EmptyLatLng, nil
	}
	return geo.LatLng{Lat: lat, Lng: lng}, nil
}

func (s *SwissLV03) ToProjected(px geo.Pixel, zoom int) (geo.Projected, error) {
	res := s.GroundResolution(zoom)
	if res == 0 {
		return geo.EmptyProjected, fmt.Errorf("%w: %d", ErrUndefinedZoom, zoom)
	}
	if px.IsEmpty() {
		return geo.EmptyProjected, nil
	}
	return geo.Projected{
		X: geo.Clip(MatrixMinX+float64(px.X)*res, MatrixMinX, MatrixMaxX),
		Y: geo.Clip(MatrixMaxY-float64(px.Y)*res, MatrixMinY, MatrixMaxY),
	}, nil
}

func (*SwissLV03) GroundResolution(zoom int) float64 {
	if zoom < SwissMinZoom || zoom > SwissMaxZoom {
		return 0
	}
	return swissResolutions[zoom+ZoomOffset]
}

func (*SwissLV03) TileMatrixMin(int) geo.Size {
	return geo.Size{}
}

func (*SwissLV03) TileMatrixMax(zoom int) geo.Size {
	if zoom < SwissMinZoom || zoom > SwissMaxZoom {
		return geo.Size{}
	}
	return swissTileMatrixMax[zoom+ZoomOffset]
}

var _ Projection = (*SwissLV03)(nil)
