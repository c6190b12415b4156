// Package tile holds the tile-level values shared by the stitcher, the
// server and the CLI.
package tile

import (
	"fmt"

	"github.com/kiesman99/swisstile/pkg/codec"
)

// Image is one encoded tile together with its format.
type Image struct {
	Data   []byte
	Format codec.Format
}

// Coord addresses one tile of a provider's matrix. Zoom is the logical zoom.
type Coord struct {
	X, Y int64
	Zoom int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.X, c.Y)
}

// StitchOptions contains the output settings of a CLI stitch run.
type StitchOptions struct {
	Output         string
	Provider       string
	Format         codec.Format
	Quality        int
	WriteWorldFile bool
	Concurrency    int
}

// BoundingBox represents geographic bounds.
type BoundingBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Valid reports whether the box has positive extent.
func (b BoundingBox) Valid() bool {
	return b.MinLat < b.MaxLat && b.MinLon < b.MaxLon
}

// CenteredRequest is an image of Width x Height pixels centered on Lat/Lon.
type CenteredRequest struct {
	Lat, Lon      float64
	Width, Height int
}
