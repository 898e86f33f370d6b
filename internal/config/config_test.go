package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fdk/internal/domain"
)

// ==================== Types Tests ====================

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default returned nil")
	}

	// Log configuration
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected log format 'text', got %q", cfg.Log.Format)
	}
	if cfg.Log.Output != "stderr" {
		t.Errorf("expected log output 'stderr', got %q", cfg.Log.Output)
	}
	if cfg.Log.MaxSizeMB != 100 {
		t.Errorf("expected log max size 100, got %d", cfg.Log.MaxSizeMB)
	}
	if len(cfg.Log.RedactFields) == 0 {
		t.Error("expected redact fields to have default values")
	}

	// Output configuration
	if cfg.Output.Format != "table" {
		t.Errorf("expected output format 'table', got %q", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("expected output color to be true")
	}

	// Source configuration
	if cfg.Source.Timeout != 30*time.Second {
		t.Errorf("expected source timeout 30s, got %v", cfg.Source.Timeout)
	}
	if cfg.Source.Language != "en" {
		t.Errorf("expected source language 'en', got %q", cfg.Source.Language)
	}

	// Cache configuration
	if !cfg.Cache.Enabled {
		t.Error("expected cache to be enabled by default")
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("expected cache backend 'sqlite', got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.SQLite.Compression != "zstd" {
		t.Errorf("expected compression 'zstd', got %q", cfg.Cache.SQLite.Compression)
	}
	if cfg.Cache.SQLite.CompressionLevel != 5 {
		t.Errorf("expected compression level 5, got %d", cfg.Cache.SQLite.CompressionLevel)
	}

	// Fetch configuration
	if cfg.Fetch.MaxConcurrent != 10 {
		t.Errorf("expected max concurrent 10, got %d", cfg.Fetch.MaxConcurrent)
	}
	if cfg.Fetch.SearchConcurrent != 20 {
		t.Errorf("expected search concurrent 20, got %d", cfg.Fetch.SearchConcurrent)
	}
	if cfg.Fetch.MaxAttempts != 3 {
		t.Errorf("expected max attempts 3, got %d", cfg.Fetch.MaxAttempts)
	}
	if cfg.Fetch.BaseDelay != time.Second {
		t.Errorf("expected base delay 1s, got %v", cfg.Fetch.BaseDelay)
	}
	if cfg.Fetch.EstimateSecondsPerObject != 0.5 {
		t.Errorf("expected estimate 0.5s per object, got %v", cfg.Fetch.EstimateSecondsPerObject)
	}

	if cfg.DataDir != "~/.local/share/fdk" {
		t.Errorf("expected data dir '~/.local/share/fdk', got %q", cfg.DataDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
		{"negative timeout", func(c *Config) { c.Source.Timeout = -time.Second }, "source.timeout"},
		{"negative rate limit", func(c *Config) { c.Source.RateLimit = -1 }, "source.rate_limit"},
		{"negative concurrency", func(c *Config) { c.Fetch.MaxConcurrent = -1 }, "fetch.max_concurrent"},
		{"negative attempts", func(c *Config) { c.Fetch.MaxAttempts = -1 }, "fetch.max_attempts"},
		{"negative estimate", func(c *Config) { c.Fetch.EstimateSecondsPerObject = -0.5 }, "fetch.estimate_seconds_per_object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

// ==================== Loader Tests ====================

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
log:
  level: debug
  format: json
source:
  language: de
  timeout: 10s
cache:
  backend: postgres
  postgres:
    dsn: postgres://fdk@localhost/fdk
fetch:
  max_concurrent: 4
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("file values not applied: %+v", cfg.Log)
	}
	if cfg.Source.Language != "de" || cfg.Source.Timeout != 10*time.Second {
		t.Errorf("source values not applied: %+v", cfg.Source)
	}
	if cfg.Cache.Backend != "postgres" || cfg.Cache.Postgres.DSN != "postgres://fdk@localhost/fdk" {
		t.Errorf("cache values not applied: %+v", cfg.Cache)
	}
	if cfg.Fetch.MaxConcurrent != 4 {
		t.Errorf("fetch values not applied: %+v", cfg.Fetch)
	}

	// Untouched keys keep their defaults.
	if cfg.Fetch.MaxAttempts != 3 {
		t.Errorf("expected default max attempts, got %d", cfg.Fetch.MaxAttempts)
	}
	if cfg.Cache.SQLite.Compression != "zstd" {
		t.Errorf("expected default compression, got %q", cfg.Cache.SQLite.Compression)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FDK_LOG_LEVEL", "warn")
	t.Setenv("FDK_SOURCE_LANGUAGE", "fr")
	t.Setenv("FDK_FETCH_MAX_CONCURRENT", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected env log level 'warn', got %q", cfg.Log.Level)
	}
	if cfg.Source.Language != "fr" {
		t.Errorf("expected env language 'fr', got %q", cfg.Source.Language)
	}
	if cfg.Fetch.MaxConcurrent != 2 {
		t.Errorf("expected env max concurrent 2, got %d", cfg.Fetch.MaxConcurrent)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(cfgPath, []byte("log:\n  level: chatty\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

// ==================== Secrets Tests ====================

func TestResolveSecrets(t *testing.T) {
	t.Setenv("FDK_TEST_DSN", "postgres://secret@db/fdk")

	secretFile := filepath.Join(t.TempDir(), "dsn")
	if err := os.WriteFile(secretFile, []byte("postgres://file@db/fdk\n"), 0600); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}

	cfg := Default()
	cfg.Cache.Postgres.DSN = "env://FDK_TEST_DSN"
	if err := resolveSecrets(cfg); err != nil {
		t.Fatalf("resolveSecrets failed: %v", err)
	}
	if cfg.Cache.Postgres.DSN != "postgres://secret@db/fdk" {
		t.Errorf("env secret not resolved: %q", cfg.Cache.Postgres.DSN)
	}

	cfg = Default()
	cfg.Cache.Postgres.DSN = "file://" + secretFile
	if err := resolveSecrets(cfg); err != nil {
		t.Fatalf("resolveSecrets failed: %v", err)
	}
	if cfg.Cache.Postgres.DSN != "postgres://file@db/fdk" {
		t.Errorf("file secret not resolved or not trimmed: %q", cfg.Cache.Postgres.DSN)
	}

	cfg = Default()
	cfg.Cache.Postgres.DSN = "env://FDK_TEST_UNSET_DSN"
	if err := resolveSecrets(cfg); err == nil {
		t.Error("expected error for unset environment variable")
	}
}

// ==================== Generator Tests ====================

func TestGenerateConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GenerateConfig("yaml")
	if err != nil {
		t.Fatalf("GenerateConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("generated config missing: %v", err)
	}

	// The generated file must load back cleanly.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("unexpected backend in generated config: %q", cfg.Cache.Backend)
	}

	// A second generation must refuse to overwrite.
	if _, err := GenerateConfig("yaml"); err == nil {
		t.Error("expected error when config already exists")
	}

	if _, err := GenerateConfig("ini"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestResolveDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir failed: %v", err)
	}
	if dir != filepath.Join(home, ".local", "share", "fdk") {
		t.Errorf("unexpected data dir: %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}

	cfg.DataDir = filepath.Join(home, "elsewhere")
	dir, err = cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir failed: %v", err)
	}
	if dir != filepath.Join(home, "elsewhere") {
		t.Errorf("unexpected data dir: %q", dir)
	}
}
