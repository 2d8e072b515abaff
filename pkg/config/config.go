// Package config loads and validates the search server configuration from a
// YAML file with environment-variable overrides. It provides typed structs for
// the engine, the request queue, pagination, the optional Redis result cache,
// logging and metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy names accepted by EngineConfig.Policy.
const (
	PolicySequential = "sequential"
	PolicyParallel   = "parallel"
)

// Config is the top-level application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Queue   QueueConfig   `yaml:"queue"`
	Paging  PagingConfig  `yaml:"paging"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig controls the index and query execution. Workers <= 0 means
// one worker per CPU.
type EngineConfig struct {
	StopWords  []string `yaml:"stopWords"`
	MaxResults int      `yaml:"maxResults"`
	ShardCount int      `yaml:"shardCount"`
	Workers    int      `yaml:"workers"`
	Policy     string   `yaml:"policy"`
}

// QueueConfig sizes the sliding window of the request queue.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// PagingConfig holds the page size used when listing documents.
type PagingConfig struct {
	PageSize int `yaml:"pageSize"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus registry and whether it is printed
// when the reader finishes.
type MetricsConfig struct {
	Enabled    bool `yaml:"enabled"`
	DumpOnExit bool `yaml:"dumpOnExit"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config populated with the engine's standard constants.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxResults: 5,
			ShardCount: 100,
			Policy:     PolicySequential,
		},
		Queue: QueueConfig{
			Capacity: 1440,
		},
		Paging: PagingConfig{
			PageSize: 2,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks value ranges that the engine cannot recover from.
func (c *Config) Validate() error {
	if c.Engine.MaxResults <= 0 {
		return fmt.Errorf("engine.maxResults must be positive, got %d", c.Engine.MaxResults)
	}
	if c.Engine.ShardCount <= 0 {
		return fmt.Errorf("engine.shardCount must be positive, got %d", c.Engine.ShardCount)
	}
	switch c.Engine.Policy {
	case PolicySequential, PolicyParallel:
	default:
		return fmt.Errorf("engine.policy must be %q or %q, got %q", PolicySequential, PolicyParallel, c.Engine.Policy)
	}
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity must be positive, got %d", c.Queue.Capacity)
	}
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("paging.pageSize must be positive, got %d", c.Paging.PageSize)
	}
	return nil
}

// applyEnvOverrides reads SS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SS_ENGINE_STOP_WORDS"); v != "" {
		cfg.Engine.StopWords = strings.Fields(v)
	}
	if v := os.Getenv("SS_ENGINE_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxResults = n
		}
	}
	if v := os.Getenv("SS_ENGINE_SHARD_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.ShardCount = n
		}
	}
	if v := os.Getenv("SS_ENGINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Workers = n
		}
	}
	if v := os.Getenv("SS_ENGINE_POLICY"); v != "" {
		cfg.Engine.Policy = strings.ToLower(v)
	}
	if v := os.Getenv("SS_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.Capacity = n
		}
	}
	if v := os.Getenv("SS_PAGING_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Paging.PageSize = n
		}
	}
	if v := os.Getenv("SS_REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("SS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
