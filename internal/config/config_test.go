package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/regions.csv", cfg.Geodata.RegionsPath)
	assert.Equal(t, "data/stops.csv", cfg.Geodata.StopsPath)
	assert.Equal(t, "https://overpass.osm.ch/api/interpreter", cfg.Overpass.BaseURL)
	assert.Equal(t, 1.0, cfg.Overpass.RateLimitRPS)
	assert.Equal(t, 20000, cfg.Overpass.MotorwayRadiusM)
	assert.Equal(t, 1000, cfg.Overpass.ParkingRadiusM)
	assert.Equal(t, 1, cfg.Overpass.RetryAttempts)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "standort.db", cfg.Store.SQLitePath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
geodata:
  regions_path: /data/oev_guete.csv
overpass:
  rate_limit_rps: 0.5
  retry_attempts: 3
batch:
  concurrency: 4
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/oev_guete.csv", cfg.Geodata.RegionsPath)
	assert.Equal(t, 0.5, cfg.Overpass.RateLimitRPS)
	assert.Equal(t, 3, cfg.Overpass.RetryAttempts)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "data/stops.csv", cfg.Geodata.StopsPath)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	t.Setenv("STANDORT_LOG_LEVEL", "warn")
	t.Setenv("STANDORT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: oracle
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:    StoreConfig{Driver: "sqlite", SQLitePath: "standort.db"},
			Batch:    BatchConfig{Concurrency: 1},
			Overpass: OverpassConfig{RetryAttempts: 1},
			Server:   ServerConfig{Port: 8080},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"postgres without url", func(c *Config) { c.Store.Driver = "postgres" }, "database_url is required"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "concurrency"},
		{"zero retry attempts", func(c *Config) { c.Overpass.RetryAttempts = 0 }, "retry_attempts"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
