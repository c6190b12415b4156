package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List tile providers",
	RunE:  runProviders,
}

var matrixCmd = &cobra.Command{
	Use:     "matrix PROVIDER ZOOM",
	Short:   "Show the tile matrix of a provider at one zoom",
	Example: `  swisstile providers matrix SwisstopoMap 9`,
	Args:    cobra.ExactArgs(2),
	RunE:    runMatrix,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(matrixCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tPROJECTION\tZOOM\tFORMAT\tBACKGROUND")
	for _, p := range a.registry.All() {
		bg := "-"
		if p.Background != nil {
			bg = fmt.Sprintf("%s @ %.2f", p.Background.Name, p.Opacity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\t%s\t%s\n",
			p.Name, p.ID, p.Projection.Name(), p.MinZoom, p.MaxZoom, p.Format, bg)
	}
	return tw.Flush()
}

func runMatrix(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	p, err := a.registry.Lookup(args[0])
	if err != nil {
		return err
	}
	zoom, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid zoom %q", args[1])
	}

	proj := p.Projection
	res := proj.GroundResolution(zoom)
	if res == 0 {
		return fmt.Errorf("zoom %d is not defined for %s", zoom, proj.Name())
	}
	minT, maxT := proj.TileMatrixMin(zoom), proj.TileMatrixMax(zoom)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "provider\t%s\n", p.Name)
	fmt.Fprintf(out, "projection\t%s\n", proj.Name())
	fmt.Fprintf(out, "zoom\t%d\n", zoom)
	fmt.Fprintf(out, "resolution\t%g m/px\n", res)
	fmt.Fprintf(out, "tiles\t%d..%d x %d..%d\n", minT.Width, maxT.Width, minT.Height, maxT.Height)
	fmt.Fprintf(out, "upstream_zoom\t%d\n", zoom+p.ZoomOffset)
	return nil
}
