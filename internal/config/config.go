// Package config defines process configuration and its loading.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// HTTPLog enables per-request logging at startup.
	HTTPLog bool `koanf:"http_log"`

	// AdminPassword protects the admin API. Empty generates one at startup.
	AdminPassword string `koanf:"admin_password"`

	// BaseURL is the public URL encoded in ballot QR codes.
	BaseURL string `koanf:"base_url"`

	// RedisAddr enables the Redis leaderboard cache when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// ResultsCacheTTL bounds how long a cached leaderboard may be served.
	ResultsCacheTTL time.Duration `koanf:"results_cache_ttl"`

	// LeaderboardLimit is used when a leaderboard request gives no limit.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// WindowWatchInterval is how often voting windows are checked for transitions.
	WindowWatchInterval time.Duration `koanf:"window_watch_interval"`

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		Addr:                ":8080",
		DBPath:              "eventvote.db",
		LogLevel:            "info",
		LogFormat:           "text",
		BaseURL:             "http://localhost:8080",
		ResultsCacheTTL:     30 * time.Second,
		LeaderboardLimit:    10,
		WindowWatchInterval: time.Second,
		MetricsEnabled:      true,
	}
}

// RedisEnabled reports whether a Redis cache is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
