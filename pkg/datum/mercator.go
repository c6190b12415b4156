package datum

import "github.com/wroge/wgs84"

// Web mercator is undefined at the poles; tiles stop at this latitude.
const MaxMercatorLat = 85.05112877980659

// WebMercator implements Transformer for EPSG:3857 on top of wroge/wgs84.
type WebMercator struct {
	forward func(a, b, c float64) (a2, b2, c2 float64)
	inverse func(a, b, c float64) (a2, b2, c2 float64)
}

// NewWebMercator builds the lon/lat <-> EPSG:3857 transform pair.
func NewWebMercator() *WebMercator {
	return &WebMercator{
		forward: wgs84.Transform(wgs84.LonLat(), wgs84.WebMercator()),
		inverse: wgs84.Transform(wgs84.WebMercator(), wgs84.LonLat()),
	}
}

func (*WebMercator) EPSG() int { return 3857 }

func (m *WebMercator) GeographicToProjected(lat, lng, alt float64) (x, y float64, err error) {
	if !finite(lat, lng, alt) || lat < -MaxMercatorLat || lat > MaxMercatorLat || lng < -180 || lng > 180 {
		return 0, 0, ErrOutOfDomain
	}
	x, y, _ = m.forward(lng, lat, alt)
	if !finite(x, y) {
		return 0, 0, ErrOutOfDomain
	}
	return x, y, nil
}

func (m *WebMercator) ProjectedToGeographic(x, y, alt float64) (lat, lng float64, err error) {
	if !finite(x, y, alt) {
		return 0, 0, ErrOutOfDomain
	}
	lng, lat, _ = m.inverse(x, y, alt)
	if !finite(lat, lng) {
		return 0, 0, ErrOutOfDomain
	}
	return lat, lng, nil
}

var _ Transformer = (*WebMercator)(nil)
