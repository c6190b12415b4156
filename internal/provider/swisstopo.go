package provider

import (
	"github.com/google/uuid"

	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/projection"
)

const (
	swisstopoCopyright = "© Données:CNES, Spot Image, swisstopo, NPOC"
	lv03Referer        = "https://map.geo.admin.ch/?topic=swisstopo&lang=en&bgLayer=ch.swisstopo.pixelkarte-farbe"
	mercatorReferer    = "https://api3.geo.admin.ch/services/sdiservices.html#wmts"
)

// Names of the built-in providers.
const (
	SwisstopoMap                     = "SwisstopoMap"
	SwisstopoSatellite               = "SwisstopoSatellite"
	SwisstopoMercatorMap             = "SwisstopoMercatorMap"
	SwisstopoMercatorSatellite       = "SwisstopoMercatorSatellite"
	SwisstopoDroneFlightRestrictions = "SwisstopoDroneFlightRestrictions"
)

const (
	lv03MaxZoom     = 20
	mercatorMinZoom = 2
	mercatorMaxZoom = 19
)

// Builtin returns fresh instances of the Swisstopo providers, backgrounds
// first.
func Builtin() []*Provider {
	lv03 := projection.NewSwissLV03(nil)
	mercator := projection.NewWebMercator(nil)

	lv03Provider := func(id, name, layer string) *Provider {
		return &Provider{
			ID:          uuid.MustParse(id),
			Name:        name,
			URLTemplate: "https://wmts.geo.admin.ch/1.0.0/" + layer + "/default/current/21781/{z}/{y}/{x}.jpeg",
			ZoomOffset:  projection.ZoomOffset,
			Projection:  lv03,
			Format:      codec.JPEG,
			MinZoom:     projection.SwissMinZoom,
			MaxZoom:     lv03MaxZoom,
			Area:        lv03.Bounds(),
			Referer:     lv03Referer,
			Copyright:   swisstopoCopyright,
		}
	}
	mercatorProvider := func(name, template string, f codec.Format) *Provider {
		return &Provider{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(template)),
			Name:        name,
			URLTemplate: template,
			Projection:  mercator,
			Format:      f,
			MinZoom:     mercatorMinZoom,
			MaxZoom:     mercatorMaxZoom,
			Area:        lv03.Bounds(),
			Referer:     mercatorReferer,
			Copyright:   swisstopoCopyright,
		}
	}

	satellite := mercatorProvider(SwisstopoMercatorSatellite,
		"https://wmts.geo.admin.ch/1.0.0/ch.swisstopo.swissimage/default/current/3857/{z}/{x}/{y}.jpeg", codec.JPEG)

	drone := mercatorProvider(SwisstopoDroneFlightRestrictions,
		"https://wmts.geo.admin.ch/1.0.0/ch.bazl.einschraenkungen-drohnen/default/current/3857/{z}/{x}/{y}.png", codec.JPEG)
	drone.ID = uuid.MustParse("A16B7FA5-DDBF-453E-A9F8-0438C6CCACEF")
	drone.Background = satellite
	drone.Opacity = 0.5

	return []*Provider{
		lv03Provider("FD06165B-FF31-4B50-974E-3AB7FCDC1132", SwisstopoMap, "ch.swisstopo.pixelkarte-farbe"),
		lv03Provider("A3D09DE4-222A-4A1D-9616-5BC77A9537C7", SwisstopoSatellite, "ch.swisstopo.swissimage"),
		mercatorProvider(SwisstopoMercatorMap,
			"https://wmts20.geo.admin.ch/1.0.0/ch.swisstopo.pixelkarte-farbe/default/current/3857/{z}/{x}/{y}.jpeg", codec.JPEG),
		satellite,
		drone,
	}
}

// NewBuiltinRegistry returns a registry holding Builtin providers.
func NewBuiltinRegistry() (*Registry, error) {
	return NewRegistry(Builtin()...)
}
