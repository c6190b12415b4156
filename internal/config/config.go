// Package config loads the runtime settings from flags, environment and the
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kiesman99/swisstile/internal/fetch"
	"github.com/kiesman99/swisstile/pkg/codec"
)

// EnvPrefix is prepended to environment variable names, e.g.
// SWISSTILE_SERVER_PORT.
const EnvPrefix = "SWISSTILE"

// Config holds every setting the commands read.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Tile   TileConfig   `mapstructure:"tile"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Bind    string        `mapstructure:"bind"`
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

type FetchConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// Referer overrides the provider's own referer when set.
	Referer string `mapstructure:"referer"`
}

// CacheConfig sizes the in-memory tile cache. Capacity 0 disables it.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity uint64        `mapstructure:"capacity"`
}

type TileConfig struct {
	Quality int `mapstructure:"quality"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.referer", "")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.capacity", 1024)
	v.SetDefault("tile.quality", codec.DefaultQuality)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Init prepares v: defaults, environment binding and the config file. An
// empty cfgFile searches $HOME/.swisstile.yaml. A missing default file is not
// an error. It returns the path of the file read, if any.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return v.ConfigFileUsed(), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".swisstile")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	case c.Server.Timeout < 0:
		return fmt.Errorf("server.timeout must not be negative")
	case c.Fetch.Timeout < 0:
		return fmt.Errorf("fetch.timeout must not be negative")
	case c.Tile.Quality < 0 || c.Tile.Quality > 100:
		return fmt.Errorf("tile.quality %d out of range 0..100", c.Tile.Quality)
	}
	return nil
}
