// Package config loads and persists notewatch's runtime configuration: poll
// timing, file locations for signatures/offset cache/session logs, and
// offset-search settings such as the cache age and the minimum expected song
// count. The relative-distance gate tolerances are constants in package
// offset, not configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable value the tracker needs outside of code.
type Config struct {
	// Process attachment
	ProcessName string `toml:"process_name"`

	// Timing
	PollIntervalMS      int `toml:"poll_interval_ms"`
	SyncRequestDelayMS  int `toml:"sync_request_delay_ms"`
	ReconnectIntervalMS int `toml:"reconnect_interval_ms"`

	// File locations
	SignatureFile  string `toml:"signature_file"`
	OffsetCacheDir string `toml:"offset_cache_dir"`
	SessionDir     string `toml:"session_dir"`

	// Offset search tuning
	OffsetCacheMaxAgeHours int `toml:"offset_cache_max_age_hours"`
	MinExpectedSongs       int `toml:"min_expected_songs"`
	CodeScanChunkMB        int `toml:"code_scan_chunk_mb"`
	CodeScanLimitMB        int `toml:"code_scan_limit_mb"`
}

// DefaultConfig returns the defaults matching the original implementation's
// constants (see offset/searcher/constants.rs and infst's cache.rs).
func DefaultConfig() Config {
	return Config{
		ProcessName:            "bm2dx.exe",
		PollIntervalMS:         100,
		SyncRequestDelayMS:     20,
		ReconnectIntervalMS:    2000,
		SignatureFile:          "signatures.json",
		OffsetCacheDir:         ".",
		SessionDir:             "sessions",
		OffsetCacheMaxAgeHours: 24,
		MinExpectedSongs:       1000,
		CodeScanChunkMB:        4,
		CodeScanLimitMB:        256,
	}
}

// GetConfigPath returns the default config file path: current directory
// first, then ~/.config/notewatch/config.toml.
func GetConfigPath() string {
	if _, err := os.Stat("./notewatch.toml"); err == nil {
		return "./notewatch.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./notewatch.toml"
	}

	return filepath.Join(home, ".config", "notewatch", "config.toml")
}

// LoadConfig loads configuration from a TOML file. If the file doesn't
// exist, it returns defaults with no error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file, creating its parent
// directory if necessary.
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// PollInterval returns the configured poll interval as a time.Duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ReconnectInterval returns the configured reconnect backoff as a time.Duration.
func (c Config) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalMS) * time.Millisecond
}

// OffsetCacheMaxAge returns the cache TTL as a time.Duration.
func (c Config) OffsetCacheMaxAge() time.Duration {
	return time.Duration(c.OffsetCacheMaxAgeHours) * time.Hour
}

// SharedConfig guards a Config behind a mutex so a file watcher (WatchConfig
// in package main, via fsnotify) can reload it while other goroutines read
// it concurrently.
type SharedConfig struct {
	mu  sync.RWMutex
	cfg Config
}

// NewSharedConfig wraps an initial config for concurrent access.
func NewSharedConfig(cfg Config) *SharedConfig {
	return &SharedConfig{cfg: cfg}
}

// Get returns a copy of the current config.
func (s *SharedConfig) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set replaces the current config.
func (s *SharedConfig) Set(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Reload reloads the config from path and swaps it in, returning the new
// value. On error the existing config is left untouched.
func (s *SharedConfig) Reload(path string) (Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return s.Get(), err
	}
	s.Set(cfg)
	return cfg, nil
}
