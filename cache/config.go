package cache

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veraxid/go-console-cache/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache
// package. Capacity, NumShards, SessionTTL, EvictionPercentage and
// EvictionInterval size the storage engine; the remaining fields tune the
// store's own semantics.
type Config struct {
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`

	// DefaultStaleTime is how long fetched values are served without
	// revalidation when a query does not set its own stale time.
	DefaultStaleTime time.Duration `yaml:"default_stale_time"`
	// PollInterval is the default tick interval for convergence polls.
	PollInterval time.Duration `yaml:"poll_interval"`
	// DebounceDelay is the default quiet period for debounced inputs.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
	// BatchConcurrency caps how many inputs a batch mutation runs at once.
	BatchConcurrency int `yaml:"batch_concurrency"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.DefaultStaleTime = 30 * time.Second
	cfg.PollInterval = 2 * time.Second
	cfg.DebounceDelay = 300 * time.Millisecond
	cfg.BatchConcurrency = 4
	return cfg
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := c.toInternal().Validate(); err != nil {
		return err
	}
	if c.DefaultStaleTime <= 0 {
		return &cacheinfra.ConfigError{Field: "DefaultStaleTime", Message: "must be greater than 0"}
	}
	if c.PollInterval <= 0 {
		return &cacheinfra.ConfigError{Field: "PollInterval", Message: "must be greater than 0"}
	}
	if c.DebounceDelay <= 0 {
		return &cacheinfra.ConfigError{Field: "DebounceDelay", Message: "must be greater than 0"}
	}
	if c.BatchConcurrency <= 0 {
		return &cacheinfra.ConfigError{Field: "BatchConcurrency", Message: "must be greater than 0"}
	}
	return nil
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig, so a
// file only needs to name the fields it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cache: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cache: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewDefaultStore constructs a Store backed by the default bounded sharded
// storage engine sized from cfg.
func NewDefaultStore(cfg Config, opts ...StoreOption) (*Store, error) {
	storage, err := cacheinfra.NewSturdycStorage(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return NewStore(storage, cfg, opts...)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.SessionTTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		SessionTTL:         cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
