package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := loadConfig(newLogger(io.Discard, LogInfo))

	if cfg.Index != defaultIndexURL {
		t.Errorf("Index = %q, want %q", cfg.Index, defaultIndexURL)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != defaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL(), defaultCacheTTL)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `index = "https://test.pypi.org/pypi"

[cache]
backend = "none"
ttl = "1h"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(newLogger(io.Discard, LogInfo))

	if cfg.Index != "https://test.pypi.org/pypi" {
		t.Errorf("Index = %q", cfg.Index)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL())
	}
}

func TestLoadConfig_MalformedFileIgnored(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(newLogger(io.Discard, LogInfo))

	if cfg.Index != defaultIndexURL {
		t.Errorf("Index = %q, want defaults after malformed config", cfg.Index)
	}
}

func TestCacheTTL_Malformed(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.TTL = "three days"

	if got := cfg.CacheTTL(); got != defaultCacheTTL {
		t.Errorf("CacheTTL = %v, want default on malformed value", got)
	}
}
