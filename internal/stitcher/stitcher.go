package stitcher

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/internal/provider"
	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/geo"
	"github.com/kiesman99/swisstile/pkg/projection"
	"github.com/kiesman99/swisstile/pkg/tile"
)

// Mode constants
const (
	ModeBBox = iota
	ModeCentered
)

// MaxPixels bounds the area of a stitched image.
const MaxPixels = 10000 * 10000

// DefaultConcurrency is the number of tiles fetched in parallel.
const DefaultConcurrency = 8

// ErrInvalidArea is returned when the requested area maps to no pixels.
var ErrInvalidArea = errors.New("invalid area")

// Options contains all stitching parameters
type Options struct {
	Provider *provider.Provider

	// Coordinates for bbox mode
	MinLat, MinLon, MaxLat, MaxLon float64

	// Coordinates for centered mode
	CenterLat, CenterLon float64
	Width, Height        int

	Zoom              int
	Mode              int
	Format            codec.Format
	Quality           int
	GenerateWorldFile bool
	Concurrency       int
}

// Result contains the stitching result
type Result struct {
	ImageData     []byte
	WorldFileData []byte
	Format        codec.Format
	Width         int
	Height        int
	World         tile.WorldFile
	TotalTiles    int
	FailedTiles   []FailedTile
}

// TileError reports that too few tiles of an area could be delivered.
type TileError struct {
	Message         string
	FailedTiles     []FailedTile
	SuccessfulTiles int
	TotalTiles      int
}

func (e *TileError) Error() string {
	return e.Message
}

// FailedTile represents a single failed tile
type FailedTile struct {
	Coord      tile.Coord
	URL        string
	StatusCode *int
	Error      string
}

// TileSource delivers single provider tiles. *provider.Service implements it.
type TileSource interface {
	GetTile(ctx context.Context, p *provider.Provider, x, y int64, zoom int) (tile.Image, error)
}

// Stitcher mosaics provider tiles into one georeferenced image.
type Stitcher struct {
	tiles  TileSource
	logger *slog.Logger
}

// New creates a new stitcher instance
func New(tiles TileSource, logger *slog.Logger) *Stitcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Stitcher{tiles: tiles, logger: logger}
}

// window is a rectangle in the global pixel space of one zoom.
type window struct {
	x1, y1, x2, y2 int64
}

func (w window) width() int64  { return w.x2 - w.x1 }
func (w window) height() int64 { return w.y2 - w.y1 }

// Stitch performs the tile stitching operation
func (s *Stitcher) Stitch(ctx context.Context, opts *Options) (*Result, error) {
	p := opts.Provider
	if p == nil {
		return nil, fmt.Errorf("%w: no provider", ErrInvalidArea)
	}
	if !p.ZoomInRange(opts.Zoom) {
		return nil, fmt.Errorf("%w: %s zoom %d not in %d..%d", provider.ErrZoomOutOfRange, p.Name, opts.Zoom, p.MinZoom, p.MaxZoom)
	}
	format := opts.Format
	if format == codec.Unknown {
		format = codec.PNG
	}

	proj := p.Projection
	win, err := pixelWindow(proj, opts)
	if err != nil {
		return nil, err
	}
	if win.width() <= 0 || win.height() <= 0 {
		return nil, fmt.Errorf("%w: area maps to %dx%d pixels", ErrInvalidArea, win.width(), win.height())
	}
	if w, h := win.width(), win.height(); w > MaxPixels || h > MaxPixels || w > MaxPixels/h {
		return nil, fmt.Errorf("%w: requested image size too large: %dx%d", ErrInvalidArea, w, h)
	}

	origin, err := proj.ToProjected(geo.Pixel{X: win.x1, Y: win.y1}, opts.Zoom)
	if err != nil {
		return nil, err
	}
	res := proj.GroundResolution(opts.Zoom)
	world := tile.WorldFile{PixelSizeX: res, PixelSizeY: res, MinX: origin.X, MaxY: origin.Y}

	width, height := int(win.width()), int(win.height())
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	failed, total, err := s.mosaic(ctx, opts, win, dst)
	if err != nil {
		return nil, err
	}

	successful := total - len(failed)
	if total > 0 && successful == 0 {
		return nil, &TileError{
			Message:         "No tiles could be downloaded successfully",
			FailedTiles:     failed,
			SuccessfulTiles: successful,
			TotalTiles:      total,
		}
	}
	if len(failed) > total/2 {
		return nil, &TileError{
			Message:         fmt.Sprintf("Too many tile download failures: %d/%d failed", len(failed), total),
			FailedTiles:     failed,
			SuccessfulTiles: successful,
			TotalTiles:      total,
		}
	}

	imageData, err := codec.Encode(dst, format, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output image: %w", err)
	}

	result := &Result{
		ImageData:   imageData,
		Format:      format,
		Width:       width,
		Height:      height,
		World:       world,
		TotalTiles:  total,
		FailedTiles: failed,
	}
	if opts.GenerateWorldFile {
		result.WorldFileData = world.Bytes()
	}
	return result, nil
}

// pixelWindow maps the requested area to a pixel rectangle at opts.Zoom.
func pixelWindow(proj projection.Projection, opts *Options) (window, error) {
	forward := func(lat, lng float64) (geo.Pixel, error) {
		px, err := proj.Forward(geo.LatLng{Lat: lat, Lng: lng}, opts.Zoom)
		if err != nil {
			return px, err
		}
		if px.IsEmpty() {
			return px, fmt.Errorf("%w: %.6f,%.6f cannot be projected", ErrInvalidArea, lat, lng)
		}
		return px, nil
	}

	if opts.Mode == ModeCentered {
		if opts.Width <= 0 || opts.Height <= 0 {
			return window{}, fmt.Errorf("%w: width/height must be positive: %d %d", ErrInvalidArea, opts.Width, opts.Height)
		}
		c, err := forward(opts.CenterLat, opts.CenterLon)
		if err != nil {
			return window{}, err
		}
		x1, y1 := c.X-int64(opts.Width)/2, c.Y-int64(opts.Height)/2
		return window{x1: x1, y1: y1, x2: x1 + int64(opts.Width), y2: y1 + int64(opts.Height)}, nil
	}

	tl, err := forward(opts.MaxLat, opts.MinLon)
	if err != nil {
		return window{}, err
	}
	br, err := forward(opts.MinLat, opts.MaxLon)
	if err != nil {
		return window{}, err
	}
	return window{x1: tl.X, y1: tl.Y, x2: br.X, y2: br.Y}, nil
}

// mosaic fetches every matrix tile touching win and draws it into dst.
// Tiles outside the matrix stay transparent and are not counted.
func (s *Stitcher) mosaic(ctx context.Context, opts *Options, win window, dst *image.NRGBA) ([]FailedTile, int, error) {
	p := opts.Provider
	size := p.Projection.TileSize()
	minT, maxT := p.Projection.TileMatrixMin(opts.Zoom), p.Projection.TileMatrixMax(opts.Zoom)

	c1, r1 := projection.TileOf(geo.Pixel{X: win.x1, Y: win.y1}, size)
	c2, r2 := projection.TileOf(geo.Pixel{X: win.x2 - 1, Y: win.y2 - 1}, size)
	c1, r1 = max(c1, minT.Width), max(r1, minT.Height)
	c2, r2 = min(c2, maxT.Width), min(r2, maxT.Height)

	s.logger.Info("stitching",
		"provider", p.Name, "zoom", opts.Zoom,
		"upper_left", tile.Coord{X: c1, Y: r1, Zoom: opts.Zoom}.String(),
		"lower_right", tile.Coord{X: c2, Y: r2, Zoom: opts.Zoom}.String(),
		"raster", fmt.Sprintf("%dx%d", win.width(), win.height()))

	n := opts.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}

	var (
		mu     sync.Mutex
		failed []FailedTile
		total  int
	)
	g := pool.New().WithMaxGoroutines(n)
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			if ctx.Err() != nil {
				break
			}
			total++
			g.Go(func() {
				c := tile.Coord{X: col, Y: row, Zoom: opts.Zoom}
				if ft := s.drawTile(ctx, p, c, win, size, dst); ft != nil {
					s.logger.Warn("tile failed", "tile", c.String(), "url", ft.URL, "err", ft.Error)
					mu.Lock()
					failed = append(failed, *ft)
					mu.Unlock()
				}
			})
		}
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return failed, total, nil
}

// drawTile places one tile into dst. Each tile covers a disjoint rectangle
// of dst, so concurrent calls never write the same pixels.
func (s *Stitcher) drawTile(ctx context.Context, p *provider.Provider, c tile.Coord, win window, size geo.Size, dst *image.NRGBA) *FailedTile {
	fail := func(err error) *FailedTile {
		ft := &FailedTile{Coord: c, URL: p.TileURL(c.X, c.Y, c.Zoom), Error: err.Error()}
		var terr *provider.TileError
		if errors.As(err, &terr) && terr.URL != "" {
			ft.URL = terr.URL
		}
		if code, ok := statusCode(err); ok {
			ft.StatusCode = &code
		}
		return ft
	}

	t, err := s.tiles.GetTile(ctx, p, c.X, c.Y, c.Zoom)
	if err != nil {
		return fail(err)
	}
	img, _, err := codec.Decode(t.Data)
	if err != nil {
		return fail(fmt.Errorf("decode error: %w", err))
	}
	if b := img.Bounds(); int64(b.Dx()) != size.Width || int64(b.Dy()) != size.Height {
		return fail(fmt.Errorf("wrong tile size: got %dx%d, expected %dx%d", b.Dx(), b.Dy(), size.Width, size.Height))
	}

	off := image.Pt(int(c.X*size.Width-win.x1), int(c.Y*size.Height-win.y1))
	r := img.Bounds().Sub(img.Bounds().Min).Add(off).Intersect(dst.Rect)
	draw.Draw(dst, r, img, img.Bounds().Min.Add(r.Min.Sub(off)), draw.Src)
	return nil
}

func statusCode(err error) (int, bool) {
	var serr *fetch.StatusError
	if errors.As(err, &serr) {
		return serr.StatusCode, true
	}
	return 0, false
}
