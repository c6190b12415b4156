package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/tile"
)

func TestParseBBox(t *testing.T) {
	b, err := parseBBox("46.90, 7.35,47.00,7.50")
	require.NoError(t, err)
	assert.Equal(t, &tile.BoundingBox{MinLat: 46.90, MinLon: 7.35, MaxLat: 47.00, MaxLon: 7.50}, b)

	_, err = parseBBox("46.9,7.35,47")
	assert.Error(t, err)
	_, err = parseBBox("46.9,east,47,7.5")
	assert.ErrorContains(t, err, "min-lon")
	_, err = parseBBox("47,7.35,46.9,7.5")
	assert.Error(t, err)
}

func TestOutputFormat(t *testing.T) {
	cases := []struct {
		flag, output string
		want         codec.Format
	}{
		{"", "", codec.PNG},
		{"", "bern.jpg", codec.JPEG},
		{"", "bern.webp", codec.WebP},
		{"", "bern.tif", codec.PNG},
		{"jpeg", "bern.png", codec.JPEG},
	}
	for _, tc := range cases {
		got, err := outputFormat(tc.flag, tc.output)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%q %q", tc.flag, tc.output)
	}

	_, err := outputFormat("gif", "")
	assert.Error(t, err)
}
