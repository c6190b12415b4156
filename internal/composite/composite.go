// Package composite merges a semi-transparent overlay tile onto a base tile.
package composite

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"

	xdraw "golang.org/x/image/draw"

	"github.com/kiesman99/swisstile/pkg/codec"
)

// Blend returns bg with fg laid over it at a uniform opacity. Every channel
// of the result is bg*(1-opacity) + fg*opacity. The foreground's own alpha
// does not weight the mix. fg is stretched onto bg's rectangle when the
// sizes differ.
func Blend(bg, fg image.Image, opacity float64) *image.NRGBA {
	b := bg.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	blendInto(dst, bg, fg, opacity)
	return dst
}

func blendInto(dst *image.NRGBA, bg, fg image.Image, opacity float64) {
	if !(opacity > 0) {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	r := dst.Rect
	draw.Draw(dst, r, bg, bg.Bounds().Min, draw.Src)

	top := getNRGBA(r.Dx(), r.Dy())
	defer putNRGBA(top)
	if sameSize(bg, fg) {
		copyStraight(top, fg)
	} else {
		xdraw.BiLinear.Scale(top, r, fg, fg.Bounds(), xdraw.Src, nil)
	}

	keep := 1 - opacity
	for i := 0; i < len(dst.Pix); i += 4 {
		d := dst.Pix[i : i+4 : i+4]
		s := top.Pix[i : i+4 : i+4]
		d[0] = mix(d[0], s[0], keep, opacity)
		d[1] = mix(d[1], s[1], keep, opacity)
		d[2] = mix(d[2], s[2], keep, opacity)
		d[3] = mix(d[3], 0xff, keep, opacity)
	}
}

func mix(b, f uint8, keep, opacity float64) uint8 {
	return uint8(float64(b)*keep + float64(f)*opacity + 0.5)
}

// copyStraight copies fg into the same-sized dst without premultiplying.
// NRGBA and paletted sources are copied raw so the colour of translucent
// pixels survives.
func copyStraight(dst *image.NRGBA, fg image.Image) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	switch src := fg.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*w], src.Pix[i:i+4*w])
		}
	case *image.Paletted:
		lut := paletteNRGBA(src.Palette)
		for y := 0; y < h; y++ {
			i := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
			row := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
			for x, idx := range src.Pix[i : i+w] {
				var c color.NRGBA
				if int(idx) < len(lut) {
					c = lut[idx]
				}
				row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = c.R, c.G, c.B, c.A
			}
		}
	default:
		draw.Draw(dst, dst.Rect, fg, fg.Bounds().Min, draw.Src)
	}
}

// paletteNRGBA converts a palette to straight colours. PNG decodes
// transparent palette entries as color.NRGBA, which are taken as is.
func paletteNRGBA(p color.Palette) []color.NRGBA {
	lut := make([]color.NRGBA, len(p))
	for i, c := range p {
		if n, ok := c.(color.NRGBA); ok {
			lut[i] = n
			continue
		}
		lut[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return lut
}

func sameSize(a, b image.Image) bool {
	return a.Bounds().Size() == b.Bounds().Size()
}

// Compositor decodes two encoded tiles, blends them and encodes the result
// in a fixed output format.
type Compositor struct {
	Format  codec.Format
	Quality int
	Logger  *slog.Logger
}

// New returns a Compositor producing tiles in f.
func New(f codec.Format, quality int, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compositor{Format: f, Quality: quality, Logger: logger}
}

// Composite lays the encoded fg over the encoded bg at opacity and returns
// the encoded output. Decode and encode failures are *codec.Error values.
func (c *Compositor) Composite(bg, fg []byte, opacity float64) ([]byte, error) {
	bgImg, _, err := codec.Decode(bg)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	fgImg, _, err := codec.Decode(fg)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}

	if !sameSize(bgImg, fgImg) {
		c.logger().Warn("overlay size differs from background, stretching",
			"background", bgImg.Bounds().Size().String(),
			"foreground", fgImg.Bounds().Size().String())
	}

	b := bgImg.Bounds()
	out := getNRGBA(b.Dx(), b.Dy())
	defer putNRGBA(out)
	blendInto(out, bgImg, fgImg, opacity)

	data, err := codec.Encode(out, c.Format, c.Quality)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Compositor) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
