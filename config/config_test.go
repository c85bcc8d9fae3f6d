package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	got, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notewatch.toml")
	want := DefaultConfig()
	want.ProcessName = "test.exe"
	want.PollIntervalMS = 250

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadConfigParseErrorReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not = valid = toml"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got != DefaultConfig() {
		t.Fatalf("expected defaults on parse error, got %+v", got)
	}
}

func TestSharedConfigGetSet(t *testing.T) {
	sc := NewSharedConfig(DefaultConfig())
	updated := DefaultConfig()
	updated.ProcessName = "other.exe"

	sc.Set(updated)
	if got := sc.Get(); got.ProcessName != "other.exe" {
		t.Fatalf("expected updated process name, got %q", got.ProcessName)
	}
}
