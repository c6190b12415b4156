package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgtile "github.com/kiesman99/swisstile/pkg/tile"
)

var tileCmd = &cobra.Command{
	Use:   "tile",
	Short: "Fetch a single tile",
	Long: `Fetch one tile of a provider. Overlay providers are composited onto their
background before the tile is written.

Examples:
  swisstile tile --provider SwisstopoMap --zoom 9 --x 7 --y 5 -o tile.jpeg
  swisstile tile --provider SwisstopoDroneFlightRestrictions -z 12 -x 2143 -y 1434 -o drone.jpeg`,
	RunE: runTile,
}

func init() {
	rootCmd.AddCommand(tileCmd)

	tileCmd.Flags().StringP("provider", "p", "SwisstopoMap", "provider name or UUID")
	tileCmd.Flags().IntP("zoom", "z", 0, "zoom level")
	tileCmd.Flags().Int64P("x", "x", 0, "tile column")
	tileCmd.Flags().Int64P("y", "y", 0, "tile row")
	tileCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	tileCmd.MarkFlagRequired("zoom")
	tileCmd.MarkFlagRequired("x")
	tileCmd.MarkFlagRequired("y")
}

func runTile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	key, _ := flags.GetString("provider")
	zoom, _ := flags.GetInt("zoom")
	x, _ := flags.GetInt64("x")
	y, _ := flags.GetInt64("y")
	output, _ := flags.GetString("output")

	p, err := a.registry.Lookup(key)
	if err != nil {
		return err
	}
	t, err := a.service.GetTile(cmd.Context(), p, x, y, zoom)
	if err != nil {
		return err
	}

	if err := pkgtile.WriteImage(output, t.Data, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write tile: %w", err)
	}
	a.logger.Info("tile written",
		"provider", p.Name,
		"tile", pkgtile.Coord{X: x, Y: y, Zoom: zoom}.String(),
		"format", t.Format.String(),
		"bytes", len(t.Data))
	return nil
}
