// Package codec decodes and encodes raster tiles in the formats the tile
// services deliver.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gen2brain/webp"
)

// Format identifies an encoded raster format.
type Format int

const (
	Unknown Format = iota
	JPEG
	PNG
	WebP
)

// ErrUnrecognizedFormat is returned when bytes match no known signature or a
// format name is not supported.
var ErrUnrecognizedFormat = errors.New("unrecognized image format")

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case WebP:
		return "webp"
	}
	return "unknown"
}

// MimeType returns the Content-Type for the format.
func (f Format) MimeType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case WebP:
		return "image/webp"
	}
	return "application/octet-stream"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case PNG:
		return ".png"
	case WebP:
		return ".webp"
	}
	return ""
}

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, s)
}

// Detect identifies the format of data by its magic bytes.
func Detect(data []byte) Format {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x89, 'P', 'N', 'G'}):
		return PNG
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xD8}):
		return JPEG
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return WebP
	}
	return Unknown
}

// Error is a failure to decode or encode a raster.
type Error struct {
	Op     string // "decode" or "encode"
	Format Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decode sniffs the format of data and decodes it.
func Decode(data []byte) (image.Image, Format, error) {
	f := Detect(data)

	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(data)
	switch f {
	case PNG:
		img, err = png.Decode(r)
	case JPEG:
		img, err = jpeg.Decode(r)
	case WebP:
		img, err = webp.Decode(r)
	default:
		err = ErrUnrecognizedFormat
	}
	if err != nil {
		return nil, f, &Error{Op: "decode", Format: f, Err: err}
	}
	return img, f, nil
}

// Encode encodes img in format f. quality applies to lossy formats; values
// outside 1..100 select DefaultQuality.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	enc, err := NewEncoder(f, quality)
	if err != nil {
		return nil, err
	}
	return enc.Encode(img)
}
