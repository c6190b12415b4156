// Package provider describes the tile services the module can serve and
// fetches, composites and delivers their tiles.
package provider

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/geo"
	"github.com/kiesman99/swisstile/pkg/projection"
	"github.com/kiesman99/swisstile/pkg/tile"
)

var (
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrDuplicateProvider = errors.New("provider already registered")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrZoomOutOfRange    = errors.New("zoom level outside provider range")
	ErrTileOutOfRange    = errors.New("tile outside tile matrix")
)

// Provider is one tile service. A provider with a Background is an overlay:
// its tiles are laid over the background's tiles at Opacity and re-encoded
// in Format.
type Provider struct {
	ID   uuid.UUID
	Name string

	// URLTemplate uses {z}, {x}, {y} and optionally {s}. {z} is expanded to
	// the logical zoom plus ZoomOffset.
	URLTemplate string
	ZoomOffset  int

	Projection projection.Projection

	// Format is the format tiles are delivered in. Plain providers pass the
	// upstream bytes through, so it only describes what the service sends.
	Format codec.Format

	Background *Provider
	Opacity    float64

	MinZoom, MaxZoom int
	Area             geo.Bounds

	Referer   string
	Copyright string
}

// TileURL returns the upstream URL of tile x/y at logical zoom.
func (p *Provider) TileURL(x, y int64, zoom int) string {
	return tile.BuildURL(p.URLTemplate, zoom+p.ZoomOffset, x, y)
}

// IsOverlay reports whether the provider composites over a background.
func (p *Provider) IsOverlay() bool {
	return p.Background != nil
}

// ZoomInRange reports whether the provider serves tiles at zoom.
func (p *Provider) ZoomInRange(zoom int) bool {
	return zoom >= p.MinZoom && zoom <= p.MaxZoom
}

// Validate checks the provider's own invariants.
func (p *Provider) Validate() error {
	switch {
	case p.ID == uuid.Nil:
		return fmt.Errorf("%w: %q has no id", ErrInvalidProvider, p.Name)
	case p.Name == "":
		return fmt.Errorf("%w: %s has no name", ErrInvalidProvider, p.ID)
	case p.URLTemplate == "":
		return fmt.Errorf("%w: %q has no url template", ErrInvalidProvider, p.Name)
	case p.Projection == nil:
		return fmt.Errorf("%w: %q has no projection", ErrInvalidProvider, p.Name)
	case p.MinZoom > p.MaxZoom:
		return fmt.Errorf("%w: %q min zoom %d above max zoom %d", ErrInvalidProvider, p.Name, p.MinZoom, p.MaxZoom)
	case p.Projection.GroundResolution(p.MinZoom) == 0 || p.Projection.GroundResolution(p.MaxZoom) == 0:
		return fmt.Errorf("%w: %q zoom range %d..%d not covered by %s",
			ErrInvalidProvider, p.Name, p.MinZoom, p.MaxZoom, p.Projection.Name())
	}

	if p.Background == nil {
		return nil
	}
	bg := p.Background
	switch {
	case bg.Background != nil:
		return fmt.Errorf("%w: %q background %q is itself an overlay", ErrInvalidProvider, p.Name, bg.Name)
	case bg.Projection == nil || bg.Projection.Name() != p.Projection.Name():
		return fmt.Errorf("%w: %q and background %q use different grids", ErrInvalidProvider, p.Name, bg.Name)
	case !(p.Opacity >= 0 && p.Opacity <= 1):
		return fmt.Errorf("%w: %q opacity %v outside [0,1]", ErrInvalidProvider, p.Name, p.Opacity)
	case p.Format == codec.Unknown:
		return fmt.Errorf("%w: %q overlay needs an output format", ErrInvalidProvider, p.Name)
	}
	return nil
}

// TileError reports a failed tile request.
type TileError struct {
	Provider string
	Layer    string // "foreground", "background" or "composite"
	URL      string
	Coord    tile.Coord
	Err      error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("%s %s tile %s: %v", e.Provider, e.Layer, e.Coord, e.Err)
}

func (e *TileError) Unwrap() error { return e.Err }
