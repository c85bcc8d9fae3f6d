package offset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheFile is the cache's file name within the configured cache dir.
const DefaultCacheFile = ".notewatch-cache.json"

// Cache is the on-disk record of a previously resolved Collection, with the
// game version it was resolved for and when. CreatedAt is Unix seconds
// (spec.md §6), not RFC3339, to match the rest of the on-disk format.
type Cache struct {
	Version   string     `json:"version"`
	Offsets   Collection `json:"offsets"`
	CreatedAt uint64     `json:"created_at"`
}

// NewCache stamps a fresh cache entry for offsets resolved against version.
func NewCache(version string, offsets Collection) Cache {
	return Cache{Version: version, Offsets: offsets, CreatedAt: uint64(time.Now().Unix())}
}

// LoadCache reads and parses a cache file. A missing or corrupt file is not
// an error worth surfacing to the caller as fatal - it is reported so the
// caller can log it, but the right response is always "search again", never
// "stop running".
func LoadCache(path string) (Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cache{}, err
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return Cache{}, fmt.Errorf("failed to parse offset cache: %w", err)
	}
	return c, nil
}

// SaveCache writes a cache file, creating its parent directory if needed.
func SaveCache(path string, c Cache) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create offset cache directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode offset cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write offset cache: %w", err)
	}
	return nil
}

// IsValidFor reports whether this cache entry can be reused for
// gameVersion: the version must match exactly, the entry must be within
// maxAge, and the cached offsets themselves must pass Collection.IsValid.
func (c Cache) IsValidFor(gameVersion string, maxAge time.Duration) bool {
	if c.Version != gameVersion {
		return false
	}
	createdAt := time.Unix(int64(c.CreatedAt), 0)
	if time.Since(createdAt) > maxAge {
		return false
	}
	return c.Offsets.IsValid()
}

// TryLoadCached loads the cache at path and returns its offsets only if
// they're still valid for gameVersion; otherwise it returns false with no
// error, leaving the caller to fall back to a full search.
func TryLoadCached(path, gameVersion string, maxAge time.Duration) (Collection, bool) {
	c, err := LoadCache(path)
	if err != nil {
		return Collection{}, false
	}
	if !c.IsValidFor(gameVersion, maxAge) {
		return Collection{}, false
	}
	return c.Offsets, true
}

// SaveToCache persists freshly resolved offsets. A save failure is logged
// as a warning and never propagated - losing the cache only costs a future
// re-search, it must never abort a tracking session that's already running.
func SaveToCache(path, gameVersion string, offsets Collection) {
	c := NewCache(gameVersion, offsets)
	if err := SaveCache(path, c); err != nil {
		log.Printf("warning: failed to save offset cache: %v", err)
	}
}
