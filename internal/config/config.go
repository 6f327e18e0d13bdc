package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      App
	Log      Log
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Storage  Storage
	Postgres Postgres
	Redis    Redis
	Auth     Auth
	Seed     Seed
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"explore-tours"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
}

type Auth struct {
	// JWTSecret empty means every caller may mutate.
	JWTSecret string `env:"AUTH_JWT_SECRET" json:"-"`
}

type Seed struct {
	// ToursSource is a file path or an http(s) URL. Empty disables the import.
	ToursSource string `env:"SEED_TOURS_SOURCE" envDefault:"data/tours.json"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("config: PG_DSN is required for storage driver %q", c.Storage.Driver)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}
