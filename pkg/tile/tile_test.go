package tile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/swisstile/pkg/codec"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		template string
		zoom     int
		x, y     int64
		want     string
	}{
		{"https://h/21781/{z}/{y}/{x}.jpeg", 17, 5, 3, "https://h/21781/17/3/5.jpeg"},
		{"https://h/3857/{z}/{x}/{y}.png", 12, 2140, 1443, "https://h/3857/12/2140/1443.png"},
		{"https://{s}.h/{z}/{x}/{y}", 1, 1, 0, "https://b.h/1/1/0"},
		{"https://{s}.h/{z}/{x}/{y}", 1, 2, 0, "https://c.h/1/2/0"},
		{"https://h/static.png", 3, 1, 1, "https://h/static.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.template, tt.zoom, tt.x, tt.y))
	}
}

func TestCoordString(t *testing.T) {
	assert.Equal(t, "9/7/5", Coord{X: 7, Y: 5, Zoom: 9}.String())
}

func TestBoundingBoxValid(t *testing.T) {
	assert.True(t, BoundingBox{MinLat: 46, MinLon: 7, MaxLat: 47, MaxLon: 8}.Valid())
	assert.False(t, BoundingBox{MinLat: 47, MinLon: 7, MaxLat: 46, MaxLon: 8}.Valid())
}

func TestWorldFileBytes(t *testing.T) {
	w := WorldFile{PixelSizeX: 2.5, PixelSizeY: 2.5, MinX: 600000, MaxY: 200000}
	lines := strings.Split(strings.TrimSpace(string(w.Bytes())), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "2.5000000000", strings.TrimSpace(lines[0]))
	assert.Equal(t, "-2.5000000000", strings.TrimSpace(lines[3]))
	assert.Equal(t, "600000.0000000000", strings.TrimSpace(lines[4]))
	assert.Equal(t, "200000.0000000000", strings.TrimSpace(lines[5]))
}

func TestWorldFileName(t *testing.T) {
	assert.Equal(t, "out/bern.pgw", WorldFileName("out/bern.png", codec.PNG))
	assert.Equal(t, "bern.jgw", WorldFileName("bern.jpg", codec.JPEG))
	assert.Equal(t, "bern.wld", WorldFileName("bern", codec.Unknown))
}

func TestWriteImageAndWorldFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "area.png")

	require.NoError(t, WriteImage(out, []byte("png"), nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	name, err := WriteWorldFile(out, codec.PNG, WorldFile{PixelSizeX: 1, PixelSizeY: 1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "area.pgw"), name)
	assert.FileExists(t, name)
}

func TestWriteToStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteImage("", []byte("jpeg"), &buf))
	assert.Equal(t, "jpeg", buf.String())

	_, err := WriteWorldFile("", codec.JPEG, WorldFile{})
	assert.ErrorIs(t, err, ErrWorldFileToStdout)
}
