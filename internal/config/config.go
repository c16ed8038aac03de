// Package config loads application configuration from config.yaml and the
// environment, and owns the global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geodata  GeodataConfig  `yaml:"geodata" mapstructure:"geodata"`
	Overpass OverpassConfig `yaml:"overpass" mapstructure:"overpass"`
	Rubric   RubricConfig   `yaml:"rubric" mapstructure:"rubric"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Notion   NotionConfig   `yaml:"notion" mapstructure:"notion"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeodataConfig points at the local reference datasets.
type GeodataConfig struct {
	// RegionsPath is the regional transit-quality reference table (.csv
	// or .xlsx).
	RegionsPath string `yaml:"regions_path" mapstructure:"regions_path"`

	// StopsPath is the transit stop registry (.csv or .shp).
	StopsPath string `yaml:"stops_path" mapstructure:"stops_path"`
}

// OverpassConfig configures the remote spatial query client.
type OverpassConfig struct {
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MotorwayRadiusM int     `yaml:"motorway_radius_m" mapstructure:"motorway_radius_m"`
	ParkingRadiusM  int     `yaml:"parking_radius_m" mapstructure:"parking_radius_m"`

	// RetryAttempts above 1 opts in to retrying transient failures.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// RubricConfig configures the scoring tables.
type RubricConfig struct {
	// OverridePath, when set, is a YAML file of table overrides applied
	// on top of the built-in defaults.
	OverridePath string `yaml:"override_path" mapstructure:"override_path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// NotionConfig holds Notion API credentials and the target database.
type NotionConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	ScoreDB string `yaml:"score_db" mapstructure:"score_db"`
}

// ServerConfig configures the HTTP scoring service.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// FetchConfig configures reference dataset downloads.
type FetchConfig struct {
	DataDir     string `yaml:"data_dir" mapstructure:"data_dir"`
	RegionsURL  string `yaml:"regions_url" mapstructure:"regions_url"`
	StopsURL    string `yaml:"stops_url" mapstructure:"stops_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STANDORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geodata.regions_path", "data/regions.csv")
	v.SetDefault("geodata.stops_path", "data/stops.csv")
	v.SetDefault("overpass.base_url", "https://overpass.osm.ch/api/interpreter")
	v.SetDefault("overpass.rate_limit_rps", 1.0)
	v.SetDefault("overpass.timeout_secs", 60)
	v.SetDefault("overpass.motorway_radius_m", 20000)
	v.SetDefault("overpass.parking_radius_m", 1000)
	v.SetDefault("overpass.retry_attempts", 1)
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "standort.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.data_dir", "data")
	v.SetDefault("fetch.timeout_secs", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations no command could run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for the postgres driver")
	}
	if c.Batch.Concurrency < 1 {
		return eris.New("config: batch.concurrency must be at least 1")
	}
	if c.Overpass.RetryAttempts < 1 {
		return eris.New("config: overpass.retry_attempts must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
