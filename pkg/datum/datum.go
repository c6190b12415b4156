// Package datum converts between geographic coordinates and the planar
// frames used by the tile grids.
package datum

import (
	"errors"
	"math"
)

// ErrOutOfDomain is returned when a transform cannot produce a result for
// its input: non-finite values, or a point outside the area the formulas
// are valid for.
var ErrOutOfDomain = errors.New("datum: coordinate outside transform domain")

// Transformer converts between geographic coordinates (degrees) and a
// projected frame (meters). Both directions may fail.
type Transformer interface {
	// GeographicToProjected returns easting x and northing y.
	GeographicToProjected(lat, lng, alt float64) (x, y float64, err error)

	// ProjectedToGeographic returns latitude and longitude in degrees.
	ProjectedToGeographic(x, y, alt float64) (lat, lng float64, err error)

	// EPSG returns the EPSG code of the projected frame.
	EPSG() int
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
