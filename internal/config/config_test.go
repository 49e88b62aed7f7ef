package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.Analysis.MaxDepth != def.Analysis.MaxDepth || cfg.Analysis.MaxPaths != def.Analysis.MaxPaths {
		t.Errorf("missing config should yield defaults, got %+v", cfg.Analysis)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, ".dbimpact")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "analysis": {"maxDepth": 2, "maxPaths": 50, "fetchTimeoutMs": 5000},
  "logging": {"format": "json", "level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(confDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.MaxDepth != 2 || cfg.Analysis.MaxPaths != 50 {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Unset fields keep their defaults.
	if cfg.Store.DatabasePath == "" {
		t.Errorf("databasePath default was lost")
	}
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero maxDepth", func(c *Config) { c.Analysis.MaxDepth = 0 }},
		{"negative maxPaths", func(c *Config) { c.Analysis.MaxPaths = -1 }},
		{"zero timeout", func(c *Config) { c.Analysis.FetchTimeoutMs = 0 }},
		{"bad compression", func(c *Config) { c.Export.CompressionLevel = 9 }},
		{"bad version", func(c *Config) { c.Version = 99 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Analysis.MaxDepth = 7

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Analysis.MaxDepth != 7 {
		t.Errorf("round trip lost maxDepth: %d", loaded.Analysis.MaxDepth)
	}
}
