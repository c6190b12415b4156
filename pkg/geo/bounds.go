package geo

import "github.com/paulmach/orb"

// Bounds is a geographic rectangle. It wraps an orb.Bound whose Min is the
// south-west corner and Max the north-east corner.
type Bounds struct {
	orb.Bound
}

// BoundsFromLTRB builds bounds from left (west), top (north), right (east)
// and bottom (south) edges in degrees.
func BoundsFromLTRB(left, top, right, bottom float64) Bounds {
	return Bounds{orb.Bound{
		Min: orb.Point{left, bottom},
		Max: orb.Point{right, top},
	}}
}

// Clip moves p onto the rectangle component-wise. A point already inside
// is returned unchanged.
func (b Bounds) Clip(p LatLng) LatLng {
	return LatLng{
		Lat: Clip(p.Lat, b.Bottom(), b.Top()),
		Lng: Clip(p.Lng, b.Left(), b.Right()),
	}
}

// ContainsLatLng reports whether p lies inside or on the edge of b.
func (b Bounds) ContainsLatLng(p LatLng) bool {
	if p.IsEmpty() {
		return false
	}
	return b.Contains(p.Point())
}

// TopLeft returns the north-west corner.
func (b Bounds) TopLeft() LatLng {
	return LatLng{Lat: b.Top(), Lng: b.Left()}
}

// BottomRight returns the south-east corner.
func (b Bounds) BottomRight() LatLng {
	return LatLng{Lat: b.Bottom(), Lng: b.Right()}
}
