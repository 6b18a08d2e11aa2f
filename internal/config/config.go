// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and RMW_ environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Backend selects where the global cache, rankings and play history live.
	Backend string `koanf:"backend"`

	// Redis connection settings, used when Backend is "redis".
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Gemini scorer settings. An empty key leaves scoring disabled and every
	// request fails with a configuration error.
	GeminiAPIKey  string `koanf:"gemini_api_key"`
	GeminiModel   string `koanf:"gemini_model"`
	GeminiBaseURL string `koanf:"gemini_base_url"`

	// ScorerTimeoutMS bounds a single scorer call.
	ScorerTimeoutMS int `koanf:"scorer_timeout_ms"`

	// ScorerRatePerSec and ScorerBurst throttle outgoing scorer calls.
	ScorerRatePerSec float64 `koanf:"scorer_rate_per_sec"`
	ScorerBurst      int     `koanf:"scorer_burst"`

	// LocalCacheSize bounds the number of entries in the local score cache.
	LocalCacheSize int `koanf:"local_cache_size"`

	// StatePath is the file holding nickname, tutorial flag and score cache.
	// Empty disables local persistence.
	StatePath string `koanf:"state_path"`

	// LeaderboardLimit is the number of rows returned by ranking reads.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// PersistWorkers and PersistQueueSize size the write-behind pipeline used
	// for global cache, ranking and play history writes.
	PersistWorkers   int `koanf:"persist_workers"`
	PersistQueueSize int `koanf:"persist_queue_size"`

	// RevealIntervalMS is the pause between thinking messages in a reveal.
	RevealIntervalMS int `koanf:"reveal_interval_ms"`

	// WordPool overrides the built-in daily prompt pool when non-empty.
	WordPool []string `koanf:"word_pool"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		Backend:          BackendMemory,
		RedisAddr:        "localhost:6379",
		GeminiModel:      "gemini-2.5-flash",
		GeminiBaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		ScorerTimeoutMS:  15_000,
		ScorerRatePerSec: 5,
		ScorerBurst:      10,
		LocalCacheSize:   10_000,
		LeaderboardLimit: 10,
		PersistWorkers:   runtime.NumCPU(),
		PersistQueueSize: 1_000,
		RevealIntervalMS: 1_200,
	}
}
