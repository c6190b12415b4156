package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/swisstile/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for tiles, projection and stitching",
	Long: `Start an HTTP server that provides a REST API for Swisstopo tiles.

The server delivers single tiles (overlays composited onto their background),
tile matrix metadata, forward and inverse projection, and stitched areas.

Examples:
  # Start server on default port 8080
  swisstile serve

  # Start server on custom port
  swisstile serve --port 3000

  # Start server with custom bind address and a larger tile cache
  SWISSTILE_CACHE_CAPACITY=8192 swisstile serve --bind 0.0.0.0 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	if a.cache != nil {
		go a.cache.Start()
		defer a.cache.Stop()
	}

	cfg := a.cfg.Server
	addr := cfg.Addr()
	apiServer := server.NewServer(version, a.registry, a.service, a.logger)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, cfg.Timeout),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout + 5*time.Second,
	}

	// Graceful shutdown
	ctx := cmd.Context()
	go func() {
		<-ctx.Done()

		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown", "err", err)
		}
	}()

	a.logger.Info("starting swisstile server",
		"addr", addr,
		"health", fmt.Sprintf("http://%s%s/health", addr, server.APIPrefix),
		"providers", len(a.registry.All()),
		"cache_capacity", a.cfg.Cache.Capacity)

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
