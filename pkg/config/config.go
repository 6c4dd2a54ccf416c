// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Server holds the HTTP listener settings.
type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Log holds logger settings.
type Log struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"text"`
	Prefix     string `envconfig:"PREFIX" default:"bankcore"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
}

// Storage selects the kv persistence backend.
type Storage struct {
	Backend string `envconfig:"BACKEND" default:"memory"` // memory | file | redis
	Dir     string `envconfig:"DIR" default:"data"`
}

// Redis holds connection settings for the redis storage backend.
type Redis struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
	Prefix   string `envconfig:"PREFIX" default:"bankcore:"`
}

// Exchange holds rate provider settings. Rates are fetched with base USD
// and cached for CacheTTL; HTTPTimeout bounds the provider call.
type Exchange struct {
	ApiKey      string        `envconfig:"API_KEY"`
	ApiUrl      string        `envconfig:"API_URL" default:"https://openexchangerates.org/api/latest.json"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// App is the root configuration.
type App struct {
	Server   Server   `envconfig:"SERVER"`
	Log      Log      `envconfig:"LOG"`
	Storage  Storage  `envconfig:"STORAGE"`
	Redis    Redis    `envconfig:"REDIS"`
	Exchange Exchange `envconfig:"EXCHANGE_RATE"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; absence is not an error.
func Load(logger *slog.Logger) (*App, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	} else {
		logger.Info("environment variables loaded from .env file")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("config loaded",
		"server_port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
		"exchange_api_url", cfg.Exchange.ApiUrl,
		"exchange_api_key", maskValue(cfg.Exchange.ApiKey),
		"exchange_cache_ttl", cfg.Exchange.CacheTTL,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
