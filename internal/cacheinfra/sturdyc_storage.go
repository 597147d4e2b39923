package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc storage engine.
// It encapsulates the core sturdyc options needed for initialization.
type Config struct {
	// Capacity defines the maximum number of entries the engine can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the hard upper bound on entry lifetime inside the engine.
	// The store layered on top tracks its own per-entry staleness, so this
	// only needs to outlive a session. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the engine reaches capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// EvictionInterval sets how often the engine checks for expired
	// entries. Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a browser-session
// sized cache.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                12 * time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to a sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to
// sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns an error if any configuration parameter is invalid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycStorage is a bounded, sharded storage engine backed by a sturdyc
// client. It stores opaque records under string keys and owns nothing beyond
// capacity and eviction; all cache semantics live in the store above it,
// which makes any eviction safe.
type SturdycStorage struct {
	client *sturdyc.Client[any]
}

// NewSturdycStorage creates a sturdyc-backed storage engine.
// It validates the configuration and initializes a sturdyc client with the
// provided settings.
//
// Version compatibility note: this implementation assumes the sturdyc v1.x
// API. Monitor sturdyc version upgrades for potential option mapping changes.
func NewSturdycStorage(cfg Config) (*SturdycStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStorage{client: client}, nil
}

// Get returns the record stored under key.
func (s *SturdycStorage) Get(key string) (any, bool) {
	return s.client.Get(key)
}

// Set stores value under key, replacing any previous record.
func (s *SturdycStorage) Set(key string, value any) {
	s.client.Set(key, value)
}

// Delete removes key from the engine.
func (s *SturdycStorage) Delete(key string) {
	s.client.Delete(key)
}

// Keys returns the keys of all currently stored records.
func (s *SturdycStorage) Keys() []string {
	return s.client.ScanKeys()
}

// Len reports the number of stored records.
func (s *SturdycStorage) Len() int {
	return s.client.Size()
}
