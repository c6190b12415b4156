package provider

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/projection"
)

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// upstream serves solid tiles: red under /bg/, blue under /fg/ and 404 for
// anything under /missing/.
func upstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	red := solidPNG(t, color.NRGBA{R: 255, A: 255})
	blue := solidPNG(t, color.NRGBA{B: 255, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/bg/"):
			w.Write(red)
		case strings.HasPrefix(r.URL.Path, "/fg/"):
			w.Write(blue)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testProviders(base string) (bg, overlay *Provider) {
	merc := projection.NewWebMercator(nil)
	bg = &Provider{
		ID:          uuid.New(),
		Name:        "Base",
		URLTemplate: base + "/bg/{z}/{x}/{y}.png",
		Projection:  merc,
		Format:      codec.PNG,
		MinZoom:     0,
		MaxZoom:     19,
	}
	overlay = &Provider{
		ID:          uuid.New(),
		Name:        "Overlay",
		URLTemplate: base + "/fg/{z}/{x}/{y}.png",
		Projection:  merc,
		Format:      codec.PNG,
		Background:  bg,
		Opacity:     0.5,
		MinZoom:     0,
		MaxZoom:     19,
		Referer:     "https://example.test/",
	}
	return bg, overlay
}

func TestTileURL(t *testing.T) {
	ps := Builtin()
	assert.Equal(t,
		"https://wmts.geo.admin.ch/1.0.0/ch.swisstopo.pixelkarte-farbe/default/current/21781/17/3/5.jpeg",
		ps[0].TileURL(5, 3, 9))
	assert.Equal(t,
		"https://wmts.geo.admin.ch/1.0.0/ch.swisstopo.swissimage/default/current/3857/12/2140/1443.jpeg",
		ps[3].TileURL(2140, 1443, 12))
}

func TestBuiltin(t *testing.T) {
	r, err := NewBuiltinRegistry()
	require.NoError(t, err)
	assert.Len(t, r.All(), 5)

	drone, err := r.Lookup(SwisstopoDroneFlightRestrictions)
	require.NoError(t, err)
	assert.True(t, drone.IsOverlay())
	assert.Equal(t, SwisstopoMercatorSatellite, drone.Background.Name)
	assert.Equal(t, 0.5, drone.Opacity)
	assert.Equal(t, codec.JPEG, drone.Format)
	assert.Equal(t, 2, drone.MinZoom)
	assert.Equal(t, 19, drone.MaxZoom)

	m, err := r.Lookup("fd06165b-ff31-4b50-974e-3ab7fcdc1132")
	require.NoError(t, err)
	assert.Equal(t, SwisstopoMap, m.Name)
	assert.Equal(t, projection.ZoomOffset, m.ZoomOffset)
	assert.Equal(t, "EPSG:21781", m.Projection.Name())

	// fresh values every call, no shared singletons
	assert.NotSame(t, Builtin()[0], Builtin()[0])
}

func TestRegistry(t *testing.T) {
	bg, overlay := testProviders("http://tiles.test")

	t.Run("background must come first", func(t *testing.T) {
		_, err := NewRegistry(overlay, bg)
		assert.ErrorIs(t, err, ErrInvalidProvider)
	})

	r, err := NewRegistry(bg, overlay)
	require.NoError(t, err)

	t.Run("lookup by name is case-insensitive", func(t *testing.T) {
		p, err := r.Lookup("overlay")
		require.NoError(t, err)
		assert.Same(t, overlay, p)
	})

	t.Run("lookup by id", func(t *testing.T) {
		p, err := r.Lookup(bg.ID.String())
		require.NoError(t, err)
		assert.Same(t, bg, p)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Lookup("nope")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("duplicates", func(t *testing.T) {
		dup := *bg
		assert.ErrorIs(t, r.Register(&dup), ErrDuplicateProvider)
		dup.ID = uuid.New()
		assert.ErrorIs(t, r.Register(&dup), ErrDuplicateProvider)
	})

	names := []string{}
	for _, p := range r.All() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Base", "Overlay"}, names)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(bg, p *Provider)
	}{
		{"no id", func(_, p *Provider) { p.ID = uuid.Nil }},
		{"no template", func(_, p *Provider) { p.URLTemplate = "" }},
		{"no projection", func(_, p *Provider) { p.Projection = nil }},
		{"inverted zoom", func(_, p *Provider) { p.MinZoom, p.MaxZoom = 5, 4 }},
		{"zoom beyond grid", func(_, p *Provider) { p.MaxZoom = 40 }},
		{"opacity", func(_, p *Provider) { p.Opacity = 1.5 }},
		{"unknown format", func(_, p *Provider) { p.Format = codec.Unknown }},
		{"nested overlay", func(bg, _ *Provider) { bg.Background = &Provider{Name: "deeper"} }},
		{"grid mismatch", func(bg, _ *Provider) { bg.Projection = projection.NewSwissLV03(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg, p := testProviders("http://tiles.test")
			tt.mutate(bg, p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProvider)
		})
	}

	bg, p := testProviders("http://tiles.test")
	assert.NoError(t, bg.Validate())
	assert.NoError(t, p.Validate())
}

func TestService_PlainTile(t *testing.T) {
	srv, hits := upstream(t)
	bg, _ := testProviders(srv.URL)
	s := NewService(fetch.NewHTTPFetcher(), 0, nil)

	img, err := s.GetTile(context.Background(), bg, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, codec.PNG, img.Format)
	assert.Equal(t, int32(1), hits.Load())
}

func TestService_CompositesOverlay(t *testing.T) {
	srv, hits := upstream(t)
	_, overlay := testProviders(srv.URL)
	s := NewService(fetch.NewHTTPFetcher(), 0, nil)

	out, err := s.GetTile(context.Background(), overlay, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, codec.PNG, out.Format)
	assert.Equal(t, int32(2), hits.Load())

	img, _, err := codec.Decode(out.Data)
	require.NoError(t, err)
	r, g, b, a := img.At(100, 100).RGBA()
	assert.Equal(t, [4]uint32{128, 0, 128, 255}, [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestService_Errors(t *testing.T) {
	srv, _ := upstream(t)
	bg, overlay := testProviders(srv.URL)
	s := NewService(fetch.NewHTTPFetcher(), 0, nil)
	ctx := context.Background()

	_, err := s.GetTile(ctx, bg, 0, 0, 20)
	assert.ErrorIs(t, err, ErrZoomOutOfRange)

	_, err = s.GetTile(ctx, bg, 4, 0, 2)
	assert.ErrorIs(t, err, ErrTileOutOfRange)

	_, err = s.GetTile(ctx, bg, -1, 0, 2)
	assert.ErrorIs(t, err, ErrTileOutOfRange)

	overlay.URLTemplate = srv.URL + "/missing/{z}/{x}/{y}.png"
	_, err = s.GetTile(ctx, overlay, 1, 1, 2)
	var terr *TileError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "foreground", terr.Layer)
	var serr *fetch.StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
}

func TestService_CompositeDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a tile"))
	}))
	defer srv.Close()
	_, overlay := testProviders(srv.URL)

	_, err := NewService(fetch.NewHTTPFetcher(), 0, nil).GetTile(context.Background(), overlay, 0, 0, 1)
	var terr *TileError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "composite", terr.Layer)
	var cerr *codec.Error
	assert.ErrorAs(t, err, &cerr)
}
