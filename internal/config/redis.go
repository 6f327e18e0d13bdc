package config

import "time"

// Redis backs the average cache and the refresh queue. An empty address
// disables both.
type Redis struct {
	Address         string        `env:"REDIS_ADDRESS"`
	Username        string        `env:"REDIS_USERNAME"`
	Password        string        `env:"REDIS_PASSWORD" json:"-"`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	AverageCacheTTL time.Duration `env:"AVERAGE_CACHE_TTL" envDefault:"10m"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
