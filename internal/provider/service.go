package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/kiesman99/swisstile/internal/composite"
	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/projection"
	"github.com/kiesman99/swisstile/pkg/tile"
)

// Service delivers provider tiles, compositing overlays onto their
// background.
type Service struct {
	fetcher fetch.Fetcher
	quality int
	logger  *slog.Logger
}

// NewService creates a tile service. quality applies to lossy re-encoding
// of composited tiles.
func NewService(f fetch.Fetcher, quality int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{fetcher: f, quality: quality, logger: logger}
}

// GetTile returns tile x/y of p at logical zoom.
func (s *Service) GetTile(ctx context.Context, p *Provider, x, y int64, zoom int) (tile.Image, error) {
	c := tile.Coord{X: x, Y: y, Zoom: zoom}
	if !p.ZoomInRange(zoom) {
		return tile.Image{}, fmt.Errorf("%w: %s zoom %d not in %d..%d", ErrZoomOutOfRange, p.Name, zoom, p.MinZoom, p.MaxZoom)
	}
	if !projection.TileInMatrix(p.Projection, x, y, zoom) {
		return tile.Image{}, fmt.Errorf("%w: %s tile %s", ErrTileOutOfRange, p.Name, c)
	}

	if p.Background == nil {
		data, err := s.fetch(ctx, p, "foreground", c)
		if err != nil {
			return tile.Image{}, err
		}
		f := codec.Detect(data)
		if f == codec.Unknown {
			f = p.Format
		}
		return tile.Image{Data: data, Format: f}, nil
	}

	var bg, fg []byte
	g := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	g.Go(func(ctx context.Context) (err error) {
		bg, err = s.fetch(ctx, p.Background, "background", c)
		return err
	})
	g.Go(func(ctx context.Context) (err error) {
		fg, err = s.fetch(ctx, p, "foreground", c)
		return err
	})
	if err := g.Wait(); err != nil {
		return tile.Image{}, err
	}

	data, err := composite.New(p.Format, s.quality, s.logger).Composite(bg, fg, p.Opacity)
	if err != nil {
		return tile.Image{}, &TileError{Provider: p.Name, Layer: "composite", Coord: c, Err: err}
	}
	return tile.Image{Data: data, Format: p.Format}, nil
}

func (s *Service) fetch(ctx context.Context, p *Provider, layer string, c tile.Coord) ([]byte, error) {
	url := p.TileURL(c.X, c.Y, c.Zoom)
	data, err := s.fetcher.Fetch(ctx, fetch.Request{URL: url, Referer: p.Referer})
	if err != nil {
		s.logger.Warn("tile fetch failed", "provider", p.Name, "layer", layer, "tile", c.String(), "url", url, "err", err)
		return nil, &TileError{Provider: p.Name, Layer: layer, URL: url, Coord: c, Err: err}
	}
	return data, nil
}
