// Package stitch runs area stitching for the command line and writes the
// result to disk or stdout.
package stitch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kiesman99/swisstile/internal/provider"
	"github.com/kiesman99/swisstile/internal/stitcher"
	"github.com/kiesman99/swisstile/pkg/tile"
)

// ErrTerminalOutput is returned when the image would be written to a terminal.
var ErrTerminalOutput = errors.New("didn't specify output file and standard output is a terminal")

// Stitcher handles the main stitching logic
type Stitcher struct {
	stitcher *stitcher.Stitcher
	registry *provider.Registry
	options  *tile.StitchOptions
	stdout   io.Writer
	logger   *slog.Logger
}

// NewStitcher creates a new stitcher instance
func NewStitcher(opts *tile.StitchOptions, registry *provider.Registry, tiles stitcher.TileSource, logger *slog.Logger) *Stitcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Stitcher{
		stitcher: stitcher.New(tiles, logger),
		registry: registry,
		options:  opts,
		stdout:   os.Stdout,
		logger:   logger,
	}
}

// SetOutput redirects image output that would go to stdout.
func (s *Stitcher) SetOutput(w io.Writer) {
	s.stdout = w
}

// StitchBoundingBox stitches tiles for a geographic bounding box
func (s *Stitcher) StitchBoundingBox(ctx context.Context, bbox *tile.BoundingBox, zoom int) error {
	return s.stitch(ctx, &stitcher.Options{
		MinLat: bbox.MinLat, MinLon: bbox.MinLon, MaxLat: bbox.MaxLat, MaxLon: bbox.MaxLon,
		Zoom: zoom,
		Mode: stitcher.ModeBBox,
	})
}

// StitchCentered stitches tiles for a centered request
func (s *Stitcher) StitchCentered(ctx context.Context, req *tile.CenteredRequest, zoom int) error {
	return s.stitch(ctx, &stitcher.Options{
		CenterLat: req.Lat, CenterLon: req.Lon,
		Width: req.Width, Height: req.Height,
		Zoom: zoom,
		Mode: stitcher.ModeCentered,
	})
}

func (s *Stitcher) stitch(ctx context.Context, opts *stitcher.Options) error {
	if s.options.Output == "" && s.stdout == os.Stdout {
		if stat, err := os.Stdout.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return ErrTerminalOutput
		}
	}
	if s.options.Output == "" && s.options.WriteWorldFile {
		return tile.ErrWorldFileToStdout
	}

	p, err := s.registry.Lookup(s.options.Provider)
	if err != nil {
		return err
	}
	opts.Provider = p
	opts.Format = s.options.Format
	opts.Quality = s.options.Quality
	opts.Concurrency = s.options.Concurrency
	opts.GenerateWorldFile = s.options.WriteWorldFile

	result, err := s.stitcher.Stitch(ctx, opts)
	if err != nil {
		var terr *stitcher.TileError
		if errors.As(err, &terr) {
			for _, ft := range terr.FailedTiles {
				s.logger.Error("can't retrieve tile", "tile", ft.Coord.String(), "url", ft.URL, "err", ft.Error)
			}
		}
		return err
	}

	s.logger.Info("stitched",
		"provider", p.Name,
		"projection", p.Projection.Name(),
		"raster", fmt.Sprintf("%dx%d", result.Width, result.Height),
		"pixel_size", result.World.PixelSizeX,
		"origin", fmt.Sprintf("%.3f,%.3f", result.World.MinX, result.World.MaxY),
		"tiles", result.TotalTiles,
		"failed", len(result.FailedTiles))

	if err := tile.WriteImage(s.options.Output, result.ImageData, s.stdout); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if s.options.WriteWorldFile {
		name, err := tile.WriteWorldFile(s.options.Output, result.Format, result.World)
		if err != nil {
			return fmt.Errorf("failed to write world file: %w", err)
		}
		s.logger.Info("world file written", "path", name)
	}
	return nil
}
