package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/swisstile/internal/config"
	"github.com/kiesman99/swisstile/internal/stitch"
	"github.com/kiesman99/swisstile/internal/stitcher"
	"github.com/kiesman99/swisstile/pkg/codec"
	"github.com/kiesman99/swisstile/pkg/tile"
)

const version = "1.0.0"

var (
	cfgFile    string
	configUsed string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "swisstile",
	Short:   "Fetch, composite, project and stitch Swisstopo map tiles",
	Version: version,
	Long: `swisstile serves and stitches Swisstopo WMTS tiles on the Swiss LV03
(EPSG:21781) grid and the web mercator (EPSG:3857) grid.

Overlay providers such as the drone flight restrictions map are composited
onto their background layer before they are delivered.

Examples:
  # Stitch the national map around Bern at zoom 9
  swisstile --provider SwisstopoMap --lat 46.951083 --lon 7.438632 --width 1024 --height 768 --zoom 9 -o bern.png

  # Stitch a bounding box of aerial imagery as JPEG with a world file
  swisstile --provider SwisstopoSatellite --bbox 46.90,7.35,47.00,7.50 --zoom 12 -f jpeg -w -o bern.jpg

  # Drone restrictions over satellite imagery
  swisstile --provider SwisstopoDroneFlightRestrictions --lat 47.3769 --lon 8.5417 --width 800 --height 600 --zoom 14 -o zurich.jpg

  # Start HTTP server
  swisstile serve --port 8080`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().NFlag() == 0 && len(args) == 0 {
			return cmd.Help()
		}
		return runStitch(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.swisstile.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text|json)")
	rootCmd.PersistentFlags().String("user-agent", "", "HTTP User-Agent header for tile requests")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("fetch.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))

	// Output options
	rootCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringP("format", "f", "", "output format (png|jpeg|webp), default from the output extension or png")
	rootCmd.Flags().BoolP("worldfile", "w", false, "write world file")
	rootCmd.Flags().IntP("quality", "q", 0, "JPEG/WebP quality 1-100 (default from tile.quality)")

	// Coordinate options - Bounding box mode
	rootCmd.Flags().Float64("min-lat", 0, "minimum latitude (south boundary)")
	rootCmd.Flags().Float64("min-lon", 0, "minimum longitude (west boundary)")
	rootCmd.Flags().Float64("max-lat", 0, "maximum latitude (north boundary)")
	rootCmd.Flags().Float64("max-lon", 0, "maximum longitude (east boundary)")
	rootCmd.Flags().String("bbox", "", "bounding box as 'min-lat,min-lon,max-lat,max-lon'")

	// Coordinate options - Centered mode
	rootCmd.Flags().Float64("lat", 0, "center latitude")
	rootCmd.Flags().Float64("lon", 0, "center longitude")
	rootCmd.Flags().Int("width", 0, "image width in pixels (centered mode)")
	rootCmd.Flags().Int("height", 0, "image height in pixels (centered mode)")

	// Tile options
	rootCmd.Flags().IntP("zoom", "z", 0, "zoom level (required)")
	rootCmd.Flags().StringP("provider", "p", "SwisstopoMap", "provider name or UUID")
	rootCmd.Flags().Int("concurrency", stitcher.DefaultConcurrency, "tiles fetched in parallel")

	for _, name := range []string{
		"output", "format", "worldfile", "quality",
		"min-lat", "min-lon", "max-lat", "max-lon", "bbox",
		"lat", "lon", "width", "height",
		"zoom", "provider", "concurrency",
	} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	used, err := config.Init(viper.GetViper(), cfgFile)
	cobra.CheckErr(err)
	configUsed = used
}

func runStitch(cmd *cobra.Command, args []string) error {
	if !viper.IsSet("zoom") {
		return fmt.Errorf("zoom level is required (use --zoom)")
	}
	zoom := viper.GetInt("zoom")

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	output := viper.GetString("output")
	format, err := outputFormat(viper.GetString("format"), output)
	if err != nil {
		return err
	}
	quality := viper.GetInt("quality")
	if quality == 0 {
		quality = a.cfg.Tile.Quality
	}

	opts := &tile.StitchOptions{
		Output:         output,
		Provider:       viper.GetString("provider"),
		Format:         format,
		Quality:        quality,
		WriteWorldFile: viper.GetBool("worldfile"),
		Concurrency:    viper.GetInt("concurrency"),
	}
	st := stitch.NewStitcher(opts, a.registry, a.service, a.logger)
	st.SetOutput(cmd.OutOrStdout())
	ctx := cmd.Context()

	// Determine mode based on provided flags
	if viper.IsSet("lat") || viper.IsSet("lon") || viper.IsSet("width") || viper.IsSet("height") {
		if !(viper.IsSet("lat") && viper.IsSet("lon") && viper.IsSet("width") && viper.IsSet("height")) {
			return fmt.Errorf("centered mode requires all of: --lat, --lon, --width, --height")
		}
		return st.StitchCentered(ctx, &tile.CenteredRequest{
			Lat:    viper.GetFloat64("lat"),
			Lon:    viper.GetFloat64("lon"),
			Width:  viper.GetInt("width"),
			Height: viper.GetInt("height"),
		}, zoom)
	}

	if s := viper.GetString("bbox"); s != "" {
		bbox, err := parseBBox(s)
		if err != nil {
			return err
		}
		return st.StitchBoundingBox(ctx, bbox, zoom)
	}

	if viper.IsSet("min-lat") || viper.IsSet("max-lat") || viper.IsSet("min-lon") || viper.IsSet("max-lon") {
		if !(viper.IsSet("min-lat") && viper.IsSet("max-lat") && viper.IsSet("min-lon") && viper.IsSet("max-lon")) {
			return fmt.Errorf("bounding box mode requires all of: --min-lat, --min-lon, --max-lat, --max-lon")
		}
		bbox := &tile.BoundingBox{
			MinLat: viper.GetFloat64("min-lat"),
			MinLon: viper.GetFloat64("min-lon"),
			MaxLat: viper.GetFloat64("max-lat"),
			MaxLon: viper.GetFloat64("max-lon"),
		}
		if !bbox.Valid() {
			return fmt.Errorf("bounding box minimums must be below maximums")
		}
		return st.StitchBoundingBox(ctx, bbox, zoom)
	}

	return fmt.Errorf("either specify bounding box coordinates (--min-lat, --min-lon, --max-lat, --max-lon or --bbox) or centered coordinates (--lat, --lon, --width, --height)")
}

// outputFormat resolves the output format from the flag, then the output
// file extension, then PNG.
func outputFormat(flag, output string) (codec.Format, error) {
	if flag != "" {
		return codec.ParseFormat(flag)
	}
	if ext := filepath.Ext(output); ext != "" {
		if f, err := codec.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return codec.PNG, nil
}

// parseBBox parses "min-lat,min-lon,max-lat,max-lon".
func parseBBox(s string) (*tile.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be in format 'min-lat,min-lon,max-lat,max-lon'")
	}

	var v [4]float64
	names := [4]string{"min-lat", "min-lon", "max-lat", "max-lon"}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s in bbox: %w", names[i], err)
		}
		v[i] = f
	}

	bbox := &tile.BoundingBox{MinLat: v[0], MinLon: v[1], MaxLat: v[2], MaxLon: v[3]}
	if !bbox.Valid() {
		return nil, fmt.Errorf("bbox minimums must be below maximums")
	}
	return bbox, nil
}
