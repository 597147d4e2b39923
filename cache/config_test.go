package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultStaleTime != 30*time.Second {
		t.Errorf("DefaultStaleTime = %v", cfg.DefaultStaleTime)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.DebounceDelay != 300*time.Millisecond {
		t.Errorf("DebounceDelay = %v", cfg.DebounceDelay)
	}
	if cfg.BatchConcurrency != 4 {
		t.Errorf("BatchConcurrency = %d", cfg.BatchConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_ValidateStoreFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero stale time", func(c *Config) { c.DefaultStaleTime = 0 }, "DefaultStaleTime"},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, "PollInterval"},
		{"zero debounce delay", func(c *Config) { c.DebounceDelay = 0 }, "DebounceDelay"},
		{"zero batch concurrency", func(c *Config) { c.BatchConcurrency = 0 }, "BatchConcurrency"},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, "Capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name field %s", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	body := "default_stale_time: 45s\npoll_interval: 1s\ncapacity: 5000\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultStaleTime != 45*time.Second {
		t.Errorf("DefaultStaleTime = %v", cfg.DefaultStaleTime)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.Capacity != 5000 {
		t.Errorf("Capacity = %d", cfg.Capacity)
	}
	// Untouched fields keep their defaults.
	if cfg.NumShards != 256 {
		t.Errorf("NumShards = %d, want default", cfg.NumShards)
	}
	if cfg.DebounceDelay != 300*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want default", cfg.DebounceDelay)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file accepted")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("capacity: {nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("malformed yaml accepted")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("capacity: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(invalid); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestNewDefaultStore(t *testing.T) {
	s, err := NewDefaultStore(DefaultConfig())
	if err != nil {
		t.Fatalf("NewDefaultStore: %v", err)
	}
	key := NewKey("smoke")
	s.Prime(key, "v", time.Minute)
	if view, ok := s.Peek(key); !ok || view.Value != "v" {
		t.Errorf("round trip through default storage failed: ok=%v", ok)
	}
}
