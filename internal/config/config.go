// Package config loads server configuration from the environment (and an
// optional .env file), following the same env-var-first, struct-of-structs
// shape the teacher repo uses for its own configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full set of knobs the core components read. The CLI front
// end, config discovery, and YAML parsing that would normally populate this
// in a production deployment are explicitly out of scope (spec §1); this
// type only models the values the core itself consumes.
type Config struct {
	DataDir string

	LogLevel string

	Tool ToolConfig

	Concurrency ConcurrencyConfig

	Breaker BreakerConfig

	Search SearchConfig
}

// ToolConfig holds per-tool timeout and retry budgets (§4.9).
type ToolConfig struct {
	SearchEndpointsTimeout time.Duration
	GetSchemaTimeout       time.Duration
	GetExampleTimeout      time.Duration

	SearchEndpointsRetries int
	GetSchemaRetries       int
	GetExampleRetries      int
}

// ConcurrencyConfig bounds the counted resource pool (§4.9 step 4).
type ConcurrencyConfig struct {
	MaxConcurrentTools int
}

// BreakerConfig configures the circuit breaker guarding the Store.
type BreakerConfig struct {
	FailureThreshold int
	Window           time.Duration
	SuccessThreshold int
	CooldownTimeout  time.Duration
}

// SearchConfig bounds result-processor pagination (§4.6).
type SearchConfig struct {
	DefaultPerPage int
	MaxPerPage     int
	CacheSize      int
	CacheTTL       time.Duration
}

// Load reads configuration from the environment, loading a local .env file
// first if one is present (mirrors the teacher's LoadConfig()).
func Load() (*Config, error) {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	cfg := Default()

	if v := os.Getenv("OPENAPI_MCP_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("OPENAPI_MCP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.Tool.SearchEndpointsTimeout, err = getDuration("OPENAPI_MCP_TIMEOUT_SEARCH", cfg.Tool.SearchEndpointsTimeout); err != nil {
		return nil, err
	}
	if cfg.Tool.GetSchemaTimeout, err = getDuration("OPENAPI_MCP_TIMEOUT_SCHEMA", cfg.Tool.GetSchemaTimeout); err != nil {
		return nil, err
	}
	if cfg.Tool.GetExampleTimeout, err = getDuration("OPENAPI_MCP_TIMEOUT_EXAMPLE", cfg.Tool.GetExampleTimeout); err != nil {
		return nil, err
	}
	if cfg.Concurrency.MaxConcurrentTools, err = getInt("OPENAPI_MCP_MAX_CONCURRENCY", cfg.Concurrency.MaxConcurrentTools); err != nil {
		return nil, err
	}
	if cfg.Breaker.FailureThreshold, err = getInt("OPENAPI_MCP_BREAKER_FAILURES", cfg.Breaker.FailureThreshold); err != nil {
		return nil, err
	}
	if cfg.Breaker.Window, err = getDuration("OPENAPI_MCP_BREAKER_WINDOW", cfg.Breaker.Window); err != nil {
		return nil, err
	}
	if cfg.Search.DefaultPerPage, err = getInt("OPENAPI_MCP_SEARCH_DEFAULT_PER_PAGE", cfg.Search.DefaultPerPage); err != nil {
		return nil, err
	}
	if cfg.Search.MaxPerPage, err = getInt("OPENAPI_MCP_SEARCH_MAX_PER_PAGE", cfg.Search.MaxPerPage); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the spec-pinned defaults (§4.9, §9 Open Question 4).
func Default() *Config {
	return &Config{
		DataDir:  "./data",
		LogLevel: "info",
		Tool: ToolConfig{
			SearchEndpointsTimeout: 30 * time.Second,
			GetSchemaTimeout:       30 * time.Second,
			GetExampleTimeout:      30 * time.Second,
			SearchEndpointsRetries: 3,
			GetSchemaRetries:       3,
			GetExampleRetries:      2,
		},
		Concurrency: ConcurrencyConfig{
			MaxConcurrentTools: 20,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			Window:           60 * time.Second,
			SuccessThreshold: 3,
			CooldownTimeout:  60 * time.Second,
		},
		Search: SearchConfig{
			DefaultPerPage: 20,
			MaxPerPage:     100,
			CacheSize:      512,
			CacheTTL:       5 * time.Minute,
		},
	}
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
