package projection

import (
	"fmt"
	"math"

	"github.com/kiesman99/swisstile/pkg/datum"
	"github.com/kiesman99/swisstile/pkg/geo"
)

const (
	mercatorOriginShift = 20037508.342789244 // pi * 6378137
	mercatorTileSize    = 256

	MercatorMinZoom = 0
	MercatorMaxZoom = 24
)

var mercatorBounds = geo.BoundsFromLTRB(-180, datum.MaxMercatorLat, 180, -datum.MaxMercatorLat)

// WebMercator is the EPSG:3857 power-of-two grid with its origin at the
// north-west corner of the world.
type WebMercator struct {
	datum datum.Transformer
}

// NewWebMercator returns the spherical mercator grid. A nil t selects
// datum.NewWebMercator.
func NewWebMercator(t datum.Transformer) *WebMercator {
	if t == nil {
		t = datum.NewWebMercator()
	}
	return &WebMercator{datum: t}
}

func (*WebMercator) Name() string { return "EPSG:3857" }

func (*WebMercator) Bounds() geo.Bounds { return mercatorBounds }

func (*WebMercator) TileSize() geo.Size {
	return geo.Size{Width: mercatorTileSize, Height: mercatorTileSize}
}

func (m *WebMercator) Forward(p geo.LatLng, zoom int) (geo.Pixel, error) {
	res := m.GroundResolution(zoom)
	if res == 0 {
		return geo.EmptyPixel, fmt.Errorf("%w: %d", ErrUndefinedZoom, zoom)
	}

	p = mercatorBounds.Clip(p)

	x, y, err := m.datum.GeographicToProjected(p.Lat, p.Lng, 0)
	if err != nil {
		return geo.EmptyPixel, nil
	}
	return toPixel(x+mercatorOriginShift, mercatorOriginShift-y, res), nil
}

func (m *WebMercator) Inverse(px geo.Pixel, zoom int) (geo.LatLng, error) {
	pt, err := m.ToProjected(px, zoom)
	if err != nil {
		return geo.EmptyLatLng, err
	}
	if pt.IsEmpty() {
		return geo.EmptyLatLng, nil
	}

	lat, lng, err := m.datum.ProjectedToGeographic(pt.X, pt.Y, 0)
	if err != nil {
		return geo.EmptyLatLng, nil
	}
	return geo.LatLng{Lat: lat, Lng: lng}, nil
}

func (m *WebMercator) ToProjected(px geo.Pixel, zoom int) (geo.Projected, error) {
	res := m.GroundResolution(zoom)
	if res == 0 {
		return geo.EmptyProjected, fmt.Errorf("%w: %d", ErrUndefinedZoom, zoom)
	}
	if px.IsEmpty() {
		return geo.EmptyProjected, nil
	}
	return geo.Projected{
		X: geo.Clip(float64(px.X)*res-mercatorOriginShift, -mercatorOriginShift, mercatorOriginShift),
		Y: geo.Clip(mercatorOriginShift-float64(px.Y)*res, -mercatorOriginShift, mercatorOriginShift),
	}, nil
}

// GroundResolution is the resolution at the equator.
func (*WebMercator) GroundResolution(zoom int) float64 {
	if zoom < MercatorMinZoom || zoom > MercatorMaxZoom {
		return 0
	}
	return 2 * mercatorOriginShift / (mercatorTileSize * math.Exp2(float64(zoom)))
}

func (*WebMercator) TileMatrixMin(int) geo.Size {
	return geo.Size{}
}

func (*WebMercator) TileMatrixMax(zoom int) geo.Size {
	if zoom < MercatorMinZoom || zoom > MercatorMaxZoom {
		return geo.Size{}
	}
	n := int64(1)<<uint(zoom) - 1
	return geo.Size{Width: n, Height: n}
}

var _ Projection = (*WebMercator)(nil)
