// Package config provides functionality for managing configuration options
// for the application using a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the configuration values for the client core.
type Config struct {
	// BaseURL is the root URL of the remote LMS API.
	BaseURL string `yaml:"base_url" env:"CAMPUS_BASE_URL" env-default:"http://localhost:8080"`

	// RequestTimeout bounds every remote call so the cache fallback path
	// is reached promptly instead of hanging.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"CAMPUS_REQUEST_TIMEOUT" env-default:"5s"`

	// PollInterval is the background poller's cycle interval.
	PollInterval time.Duration `yaml:"poll_interval" env:"CAMPUS_POLL_INTERVAL" env-default:"30s"`

	// CachePath is the path of the JSON file backing the local store.
	CachePath string `yaml:"cache_path" env:"CAMPUS_CACHE_PATH" env-default:"campussync.json"`

	// RedisAddr, when set, selects the redis-backed local store instead of
	// the file store (shared-cache kiosk deployments).
	RedisAddr string `yaml:"redis_addr" env:"CAMPUS_REDIS_ADDR"`

	// CacheSecret, when set, encrypts cached snapshots at rest with a key
	// derived from it. Recommended on shared machines.
	CacheSecret string `yaml:"cache_secret" env:"CAMPUS_CACHE_SECRET"`

	// LogLevel is the zap log level: debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"CAMPUS_LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from the YAML file at path (when it exists)
// and then applies environment variable overrides. An empty path skips the
// file and reads the environment only.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env config: %w", err)
	}
	return cfg, nil
}
