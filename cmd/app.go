package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/swisstile/internal/config"
	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/internal/logging"
	"github.com/kiesman99/swisstile/internal/provider"
)

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *provider.Registry
	cache    *fetch.CachedFetcher
	service  *provider.Service
}

// newApp loads the configuration and builds the provider stack. withCache
// puts the in-memory tile cache in front of the HTTP fetcher; the caller
// owns its Start/Stop.
func newApp(cmd *cobra.Command, withCache bool) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if configUsed != "" {
		logger.Debug("using config file", "path", configUsed)
	}

	registry, err := provider.NewBuiltinRegistry()
	if err != nil {
		return nil, err
	}

	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithLogger(logger),
	}
	if cfg.Fetch.Referer != "" {
		opts = append(opts, fetch.WithHeader("Referer", cfg.Fetch.Referer))
	}
	var fetcher fetch.Fetcher = fetch.NewHTTPFetcher(opts...)

	a := &app{cfg: cfg, logger: logger, registry: registry}
	if withCache && cfg.Cache.Capacity > 0 {
		a.cache = fetch.NewCachedFetcher(fetcher, cfg.Cache.TTL, cfg.Cache.Capacity)
		fetcher = a.cache
	}
	a.service = provider.NewService(fetcher, cfg.Tile.Quality, logger)
	return a, nil
}
