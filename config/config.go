// Package config reads the locfinder settings from config.toml, the
// environment and an optional .env file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// LOCFINDER_HISTORY_BACKEND.
const EnvPrefix = "LOCFINDER"

// History backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

type Config struct {
	Nominatim Nominatim `mapstructure:"nominatim"`
	Search    Search    `mapstructure:"search"`
	History   History   `mapstructure:"history"`
	Map       Map       `mapstructure:"map"`
	Analytics Analytics `mapstructure:"analytics"`
}

type Nominatim struct {
	BaseURL  string        `mapstructure:"base_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// RateLimit in requests per second, 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit"`
}

type Search struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
}

type History struct {
	Backend string `mapstructure:"backend"`
	Key     string `mapstructure:"key"`

	File   string `mapstructure:"file"`
	SQLite string `mapstructure:"sqlite"`
	Redis  Redis  `mapstructure:"redis"`
	Mongo  Mongo  `mapstructure:"mongo"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Mongo struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type Map struct {
	TileURL     string `mapstructure:"tile_url"`
	Attribution string `mapstructure:"attribution"`
	Subdomains  string `mapstructure:"subdomains"`
}

type Analytics struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.language", "en-US,en")
	v.SetDefault("nominatim.timeout", 30*time.Second)
	v.SetDefault("nominatim.rate_limit", 0)

	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.min_query_length", 2)

	v.SetDefault("history.backend", BackendFile)
	v.SetDefault("history.key", "searchHistory")
	v.SetDefault("history.file", "history.json")
	v.SetDefault("history.sqlite", "history.db")
	v.SetDefault("history.redis.addr", "localhost:6379")
	v.SetDefault("history.redis.password", "")
	v.SetDefault("history.redis.db", 0)
	v.SetDefault("history.redis.prefix", "locfinder:")
	v.SetDefault("history.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("history.mongo.database", "locfinder")
	v.SetDefault("history.mongo.collection", "storage")

	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "© OpenStreetMap contributors")
	v.SetDefault("map.subdomains", "abc")

	v.SetDefault("analytics.enabled", true)
	v.SetDefault("analytics.file", "analytics.jlog")
}

// Load reads the configuration. With an empty path config.toml is looked up
// in /etc/locfinder and the working directory and may be missing; an
// explicit path has to exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/locfinder")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the values Load can not default.
func (c *Config) Validate() error {
	if c.Search.Debounce < 0 {
		return errors.Errorf("search.debounce must not be negative, got %s", c.Search.Debounce)
	}
	if c.Search.MinQueryLength < 1 {
		return errors.Errorf("search.min_query_length must be at least 1, got %d", c.Search.MinQueryLength)
	}
	if c.Nominatim.RateLimit < 0 {
		return errors.Errorf("nominatim.rate_limit must not be negative, got %v", c.Nominatim.RateLimit)
	}
	if c.Map.TileURL == "" {
		return errors.New("map.tile_url is not set")
	}
	if c.History.Key == "" {
		return errors.New("history.key is not set")
	}

	for _, b := range backends {
		if c.History.Backend == b {
			return nil
		}
	}
	return errors.Errorf("unknown history backend %q, use one of %s",
		c.History.Backend, strings.Join(backends, ", "))
}

// LoadEnvFile exports the variables of a .env file. Variables that are
// already set win. A missing file is not an error.
func LoadEnvFile(filename string) error {
	err := godotenv.Load(filename)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(err, "loading %s", filename)
	}
	return nil
}
