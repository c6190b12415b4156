package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiesman99/swisstile/pkg/geo"
	"github.com/kiesman99/swisstile/pkg/projection"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Convert between geographic coordinates and a provider's pixel grid",
}

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Latitude/longitude to global pixel and tile",
	Example: `  swisstile project forward --provider SwisstopoMap --lat 46.951083 --lng 7.438632 --zoom 9`,
	RunE: runForward,
}

var inverseCmd = &cobra.Command{
	Use:   "inverse",
	Short: "Global pixel to latitude/longitude",
	Example: `  swisstile project inverse --provider SwisstopoMap --x 1799 --y 1499 --zoom 9`,
	RunE: runInverse,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(forwardCmd, inverseCmd)

	projectCmd.PersistentFlags().StringP("provider", "p", "SwisstopoMap", "provider name or UUID")
	projectCmd.PersistentFlags().IntP("zoom", "z", 0, "zoom level")

	forwardCmd.Flags().Float64("lat", 0, "latitude")
	forwardCmd.Flags().Float64("lng", 0, "longitude")
	forwardCmd.MarkFlagRequired("lat")
	forwardCmd.MarkFlagRequired("lng")

	inverseCmd.Flags().Int64P("x", "x", 0, "global pixel column")
	inverseCmd.Flags().Int64P("y", "y", 0, "global pixel row")
	inverseCmd.MarkFlagRequired("x")
	inverseCmd.MarkFlagRequired("y")
}

func projectionFor(cmd *cobra.Command) (projection.Projection, int, error) {
	a, err := newApp(cmd, false)
	if err != nil {
		return nil, 0, err
	}
	key, _ := cmd.Flags().GetString("provider")
	zoom, _ := cmd.Flags().GetInt("zoom")
	p, err := a.registry.Lookup(key)
	if err != nil {
		return nil, 0, err
	}
	return p.Projection, zoom, nil
}

func runForward(cmd *cobra.Command, args []string) error {
	proj, zoom, err := projectionFor(cmd)
	if err != nil {
		return err
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")

	px, err := proj.Forward(geo.LatLng{Lat: lat, Lng: lng}, zoom)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if px.IsEmpty() {
		fmt.Fprintln(out, "empty")
		return nil
	}
	col, row := projection.TileOf(px, proj.TileSize())
	fmt.Fprintf(out, "pixel\t%d %d\n", px.X, px.Y)
	fmt.Fprintf(out, "tile\t%d/%d/%d\n", zoom, col, row)
	fmt.Fprintf(out, "in_matrix\t%t\n", projection.TileInMatrix(proj, col, row, zoom))
	return nil
}

func runInverse(cmd *cobra.Command, args []string) error {
	proj, zoom, err := projectionFor(cmd)
	if err != nil {
		return err
	}
	x, _ := cmd.Flags().GetInt64("x")
	y, _ := cmd.Flags().GetInt64("y")
	px := geo.Pixel{X: x, Y: y}

	ll, err := proj.Inverse(px, zoom)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if ll.IsEmpty() {
		fmt.Fprintln(out, "empty")
		return nil
	}
	fmt.Fprintf(out, "location\t%.7f %.7f\n", ll.Lat, ll.Lng)
	if m, err := proj.ToProjected(px, zoom); err == nil && !m.IsEmpty() {
		fmt.Fprintf(out, "projected\t%.2f %.2f\n", m.X, m.Y)
	}
	return nil
}
