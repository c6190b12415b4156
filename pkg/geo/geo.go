// Package geo holds the coordinate value types shared by the datum,
// projection and provider packages.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// LatLng is a geographic point in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EmptyLatLng is returned when no geographic coordinate could be computed.
var EmptyLatLng = LatLng{Lat: math.NaN(), Lng: math.NaN()}

// IsEmpty reports whether p is the empty sentinel.
func (p LatLng) IsEmpty() bool {
	return math.IsNaN(p.Lat) || math.IsNaN(p.Lng)
}

// Point returns p as an orb point (lng, lat order).
func (p LatLng) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func (p LatLng) String() string {
	if p.IsEmpty() {
		return "LatLng(empty)"
	}
	return fmt.Sprintf("LatLng(%.8f, %.8f)", p.Lat, p.Lng)
}

// Projected is a point in a planar projected frame, in meters.
type Projected struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EmptyProjected is returned when a datum transform fails.
var EmptyProjected = Projected{X: math.NaN(), Y: math.NaN()}

func (p Projected) IsEmpty() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Pixel is an integer offset in the global pixel space of one zoom level.
type Pixel struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// EmptyPixel is returned when a geographic point could not be placed on the grid.
var EmptyPixel = Pixel{X: math.MinInt64, Y: math.MinInt64}

func (p Pixel) IsEmpty() bool {
	return p == EmptyPixel
}

func (p Pixel) String() string {
	if p.IsEmpty() {
		return "Pixel(empty)"
	}
	return fmt.Sprintf("Pixel(%d, %d)", p.X, p.Y)
}

// Size is a width/height pair. Depending on context it holds pixel
// dimensions or a tile column/row extent.
type Size struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

func (s Size) IsEmpty() bool {
	return s.Width == 0 && s.Height == 0
}

// Clip limits v to [min, max]. NaN passes through unchanged.
func Clip(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}
