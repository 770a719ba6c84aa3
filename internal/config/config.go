// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config holds all server settings
type Config struct {
	// Host and Port are the HTTP listen address
	Host string
	Port int

	// StorageType selects the match archive backend ("memory" or "redis")
	StorageType string

	// RedisURL is the Redis connection URL, required for redis storage
	RedisURL string

	// QueueCapacity caps the matchmaking queue; zero means unbounded
	QueueCapacity int

	// ReadyTimeout is the readiness handshake deadline
	ReadyTimeout time.Duration

	// NotifyDelay is the pause before the matched notification goes out
	NotifyDelay time.Duration

	// TickInterval is the simulation tick period
	TickInterval time.Duration

	// WinningScore ends a match once a player reaches it
	WinningScore int
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Host:          os.Getenv("HOST"),
		Port:          8080,
		StorageType:   envOr("STORAGE_TYPE", StorageTypeMemory),
		RedisURL:      os.Getenv("REDIS_URL"),
		QueueCapacity: 0,
		ReadyTimeout:  10 * time.Second,
		NotifyDelay:   100 * time.Millisecond,
		TickInterval:  50 * time.Millisecond,
		WinningScore:  3,
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.QueueCapacity, err = envInt("QUEUE_CAPACITY", cfg.QueueCapacity); err != nil {
		return Config{}, err
	}
	if cfg.WinningScore, err = envInt("WINNING_SCORE", cfg.WinningScore); err != nil {
		return Config{}, err
	}
	if cfg.ReadyTimeout, err = envDuration("READY_TIMEOUT", cfg.ReadyTimeout); err != nil {
		return Config{}, err
	}
	if cfg.NotifyDelay, err = envDuration("NOTIFY_DELAY", cfg.NotifyDelay); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval, err = envDuration("TICK_INTERVAL", cfg.TickInterval); err != nil {
		return Config{}, err
	}

	if cfg.StorageType == StorageTypeRedis && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", StorageTypeRedis)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s: %w", key, err)
	}
	return v, nil
}
