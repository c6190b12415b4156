package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	_, err := Init(v, "")
	require.NoError(t, err)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", c.Server.Addr())
	assert.Equal(t, 30*time.Second, c.Server.Timeout)
	assert.Equal(t, 10*time.Minute, c.Cache.TTL)
	assert.Equal(t, uint64(1024), c.Cache.Capacity)
	assert.Equal(t, 85, c.Tile.Quality)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swisstile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
cache:
  ttl: 1m
  capacity: 0
log:
  level: debug
`), 0o644))
	t.Setenv("SWISSTILE_SERVER_BIND", "0.0.0.0")
	t.Setenv("SWISSTILE_FETCH_USER_AGENT", "me/1")

	v := viper.New()
	used, err := Init(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", c.Server.Addr())
	assert.Equal(t, time.Minute, c.Cache.TTL)
	assert.Zero(t, c.Cache.Capacity)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "me/1", c.Fetch.UserAgent)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	_, err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, c := range map[string]Config{
		"port":    {Server: ServerConfig{Port: 70000}},
		"quality": {Tile: TileConfig{Quality: 101}},
		"timeout": {Fetch: FetchConfig{Timeout: -time.Second}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate())
		})
	}
}
