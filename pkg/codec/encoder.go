package codec

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/gen2brain/webp"
)

// DefaultQuality is used for lossy formats when no valid quality is given.
const DefaultQuality = 85

// Encoder encodes an image into tile bytes of one format.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	Format() Format
}

// NewEncoder creates an encoder for f.
func NewEncoder(f Format, quality int) (Encoder, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	switch f {
	case JPEG:
		return &JPEGEncoder{Quality: quality}, nil
	case PNG:
		return &PNGEncoder{}, nil
	case WebP:
		return &WebPEncoder{Quality: quality}, nil
	}
	return nil, &Error{Op: "encode", Format: f, Err: ErrUnrecognizedFormat}
}

// JPEGEncoder encodes tiles as baseline JPEG. Alpha is dropped.
type JPEGEncoder struct {
	Quality int
}

func (e *JPEGEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.Quality}); err != nil {
		return nil, &Error{Op: "encode", Format: JPEG, Err: err}
	}
	return buf.Bytes(), nil
}

func (*JPEGEncoder) Format() Format { return JPEG }

// PNGEncoder encodes tiles as PNG.
type PNGEncoder struct{}

func (*PNGEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &Error{Op: "encode", Format: PNG, Err: err}
	}
	return buf.Bytes(), nil
}

func (*PNGEncoder) Format() Format { return PNG }

// WebPEncoder encodes tiles as lossy WebP.
type WebPEncoder struct {
	Quality int
}

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: e.Quality}); err != nil {
		return nil, &Error{Op: "encode", Format: WebP, Err: err}
	}
	return buf.Bytes(), nil
}

func (*WebPEncoder) Format() Format { return WebP }
