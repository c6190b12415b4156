package tile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kiesman99/swisstile/pkg/codec"
)

// ErrWorldFileToStdout is returned when a world file is requested for output
// written to standard output.
var ErrWorldFileToStdout = errors.New("can't write a world file when writing to stdout")

// WorldFile is the affine georeference of a raster: pixel size and the
// projected coordinate of the top-left pixel's corner.
type WorldFile struct {
	PixelSizeX, PixelSizeY float64
	MinX, MaxY             float64
}

// Bytes renders the six-line world file. Y pixel size is written negated.
func (w WorldFile) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%24.10f\n", w.PixelSizeX)
	fmt.Fprintf(&buf, "%24.10f\n", 0.0)
	fmt.Fprintf(&buf, "%24.10f\n", 0.0)
	fmt.Fprintf(&buf, "%24.10f\n", -w.PixelSizeY)
	fmt.Fprintf(&buf, "%24.10f\n", w.MinX)
	fmt.Fprintf(&buf, "%24.10f\n", w.MaxY)
	return buf.Bytes()
}

// WorldFileName derives the sidecar name for an image file: .pgw for PNG,
// .jgw for JPEG, .wfw for WebP.
func WorldFileName(filename string, f codec.Format) string {
	ext := map[codec.Format]string{codec.PNG: ".pgw", codec.JPEG: ".jgw", codec.WebP: ".wfw"}[f]
	if ext == "" {
		ext = ".wld"
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

// WriteImage writes data to filename, or to stdout when filename is empty.
func WriteImage(filename string, data []byte, stdout io.Writer) error {
	if filename == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// WriteWorldFile writes the world file next to filename and returns its path.
func WriteWorldFile(filename string, f codec.Format, w WorldFile) (string, error) {
	if filename == "" {
		return "", ErrWorldFileToStdout
	}
	name := WorldFileName(filename, f)
	if err := os.WriteFile(name, w.Bytes(), 0o644); err != nil {
		return "", err
	}
	return name, nil
}
