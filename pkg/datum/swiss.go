package datum

// LV95 and LV03 differ by a constant false-origin shift.
const (
	lv95EastingShift  = 2_000_000
	lv95NorthingShift = 1_000_000
)

// Validity area of the polynomial formulas, with margin around Switzerland.
const (
	swissMinLat = 44.0
	swissMaxLat = 50.0
	swissMinLng = 4.0
	swissMaxLng = 13.0
)

// inverse polynomial refinement passes; three are enough for sub-millimeter
// agreement, five leave headroom near the corners.
const refineSteps = 5

// SwissLV03 implements Transformer for EPSG:21781 (CH1903 / LV03).
//
// Each direction is two steps: geographic <-> LV95 (EPSG:2056) using
// swisstopo's published polynomial approximation, then the LV95 <-> LV03
// planimetric frame change. The polynomial is accurate to about a meter,
// which is far below one pixel at every zoom the WMTS service serves.
//
// Reference: https://www.swisstopo.admin.ch/en/knowledge-facts/surveying-geodesy/reference-frames/local/lv95.html
type SwissLV03 struct{}

func (SwissLV03) EPSG() int { return 21781 }

// GeographicToProjected converts WGS84/ETRF93 latitude and longitude to
// LV03 easting (x) and northing (y). Altitude does not influence the
// planimetric result but must be finite.
func (SwissLV03) GeographicToProjected(lat, lng, alt float64) (x, y float64, err error) {
	if !finite(lat, lng, alt) || !inSwissDomain(lat, lng) {
		return 0, 0, ErrOutOfDomain
	}
	e, n := geographicToLV95(lat, lng)
	x, y = lv95ToLV03(e, n)
	if !finite(x, y) {
		return 0, 0, ErrOutOfDomain
	}
	return x, y, nil
}

// ProjectedToGeographic converts LV03 easting (x) and northing (y) to
// WGS84/ETRF93 latitude and longitude.
func (SwissLV03) ProjectedToGeographic(x, y, alt float64) (lat, lng float64, err error) {
	if !finite(x, y, alt) {
		return 0, 0, ErrOutOfDomain
	}
	e, n := lv03ToLV95(x, y)
	lat0, lng0 := lv95ToGeographic(e, n)
	lat, lng = lat0, lng0

	// The forward and inverse polynomials are independent fits and disagree
	// by up to ten meters at the edges. Pull the inverse onto the forward
	// so that a round trip lands where it started.
	for i := 0; i < refineSteps; i++ {
		fe, fn := geographicToLV95(lat, lng)
		flat, flng := lv95ToGeographic(fe, fn)
		lat += lat0 - flat
		lng += lng0 - flng
	}

	if !finite(lat, lng) || !inSwissDomain(lat, lng) {
		return 0, 0, ErrOutOfDomain
	}
	return lat, lng, nil
}

func inSwissDomain(lat, lng float64) bool {
	return lat >= swissMinLat && lat <= swissMaxLat && lng >= swissMinLng && lng <= swissMaxLng
}

func lv95ToLV03(e, n float64) (x, y float64) {
	return e - lv95EastingShift, n - lv95NorthingShift
}

func lv03ToLV95(x, y float64) (e, n float64) {
	return x + lv95EastingShift, y + lv95NorthingShift
}

// geographicToLV95 converts latitude/longitude (degrees) to LV95
// easting/northing.
func geographicToLV95(lat, lng float64) (e, n float64) {
	// Sexagesimal seconds relative to Bern, in 10000" units
	phi := (lat*3600 - 169028.66) / 10000
	lambda := (lng*3600 - 26782.5) / 10000

	e = 2_600_072.37 +
		211_455.93*lambda -
		10_938.51*lambda*phi -
		0.36*lambda*phi*phi -
		44.54*lambda*lambda*lambda

	n = 1_200_147.07 +
		308_807.95*phi +
		3_745.25*lambda*lambda +
		76.63*phi*phi -
		194.56*lambda*lambda*phi +
		119.79*phi*phi*phi

	return e, n
}

// lv95ToGeographic converts LV95 easting/northing to latitude/longitude
// (degrees).
func lv95ToGeographic(e, n float64) (lat, lng float64) {
	// Differences from Bern in 1000 km units
	y := (e - 2_600_000) / 1_000_000
	x := (n - 1_200_000) / 1_000_000

	lngSec := 2.6779094 +
		4.728982*y +
		0.791484*y*x +
		0.1306*y*x*x -
		0.0436*y*y*y

	latSec := 16.9023892 +
		3.238272*x -
		0.270978*y*y -
		0.002528*x*x -
		0.0447*y*y*x -
		0.0140*x*x*x

	// 10000" units to degrees
	return latSec * 100.0 / 36.0, lngSec * 100.0 / 36.0
}

var _ Transformer = SwissLV03{}
