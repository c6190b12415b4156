// Package projection converts between geographic coordinates and the pixel
// and tile grid of a fixed multi-resolution tiling scheme.
package projection

import (
	"errors"
	"math"

	"github.com/kiesman99/swisstile/pkg/geo"
)

// ErrUndefinedZoom is returned when a zoom level has no entry in the
// resolution table. The ground resolution of such a zoom is undefined and
// using it would divide by zero.
var ErrUndefinedZoom = errors.New("projection: undefined zoom level")

// Projection is one tiling scheme. Implementations are stateless apart from
// read-only tables and are safe for concurrent use.
type Projection interface {
	// Name is a short identifier such as "EPSG:21781".
	Name() string

	// Bounds is the supported geographic extent. Forward clips into it.
	Bounds() geo.Bounds

	// TileSize is the pixel size of one tile.
	TileSize() geo.Size

	// Forward converts a geographic point to a global pixel coordinate.
	// A failed datum transform yields geo.EmptyPixel and a nil error.
	Forward(p geo.LatLng, zoom int) (geo.Pixel, error)

	// Inverse converts a global pixel coordinate back to a geographic point.
	// A failed datum transform yields geo.EmptyLatLng and a nil error.
	Inverse(px geo.Pixel, zoom int) (geo.LatLng, error)

	// ToProjected returns the projected meters of a pixel's top-left corner,
	// clipped into the tile matrix.
	ToProjected(px geo.Pixel, zoom int) (geo.Projected, error)

	// GroundResolution is meters per pixel, or 0 when the zoom is undefined.
	GroundResolution(zoom int) float64

	// TileMatrixMin is the smallest valid tile column/row.
	TileMatrixMin(zoom int) geo.Size

	// TileMatrixMax is the largest valid tile column/row, or the empty size
	// when the zoom has no tiles.
	TileMatrixMax(zoom int) geo.Size
}

// TileOf returns the column and row of the tile holding px.
func TileOf(px geo.Pixel, tileSize geo.Size) (col, row int64) {
	return floorDiv(px.X, tileSize.Width), floorDiv(px.Y, tileSize.Height)
}

// TileInMatrix reports whether col/row address a tile of the matrix at zoom.
func TileInMatrix(p Projection, col, row int64, zoom int) bool {
	if p.GroundResolution(zoom) == 0 {
		return false
	}
	min, max := p.TileMatrixMin(zoom), p.TileMatrixMax(zoom)
	return col >= min.Width && col <= max.Width && row >= min.Height && row <= max.Height
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// toPixel floor-divides projected offsets by the resolution. Offsets are
// measured from the matrix's top-left corner with y growing southwards.
func toPixel(dx, dy, resolution float64) geo.Pixel {
	return geo.Pixel{
		X: int64(math.Floor(dx / resolution)),
		Y: int64(math.Floor(dy / resolution)),
	}
}
