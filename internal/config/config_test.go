package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("expected default fetch_timeout 30s, got %s", cfg.FetchTimeout)
	}
	if cfg.LightStyle != "github" || cfg.DarkStyle != "github-dark" {
		t.Errorf("unexpected default styles %q / %q", cfg.LightStyle, cfg.DarkStyle)
	}
	if cfg.DBPath() != filepath.Join(".learnhub", "learnhub.db") {
		t.Errorf("unexpected db path %q", cfg.DBPath())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.learnhub.yml")

	original := DefaultConfig()
	original.ContentDir = dir
	original.CatalogFile = CatalogDiscover
	original.Port = 9000
	original.FetchTimeout = 5 * time.Second
	original.LightStyle = "monokailight"
	original.Log.Level = "debug"
	original.Log.JSON = true

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.ContentDir != original.ContentDir {
		t.Errorf("content_dir: got %q, want %q", loaded.ContentDir, original.ContentDir)
	}
	if loaded.CatalogFile != original.CatalogFile {
		t.Errorf("catalog_file: got %q, want %q", loaded.CatalogFile, original.CatalogFile)
	}
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.FetchTimeout != original.FetchTimeout {
		t.Errorf("fetch_timeout: got %s, want %s", loaded.FetchTimeout, original.FetchTimeout)
	}
	if loaded.LightStyle != original.LightStyle {
		t.Errorf("light_style: got %q, want %q", loaded.LightStyle, original.LightStyle)
	}
	if loaded.Log != original.Log {
		t.Errorf("log: got %+v, want %+v", loaded.Log, original.Log)
	}
}

func TestSavedDurationIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "fetch_timeout: 30s"; !strings.Contains(string(data), want) {
		t.Errorf("saved config missing %q:\n%s", want, data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("LEARNHUB_PORT", "9191")
	t.Setenv("LEARNHUB_FETCH_TIMEOUT", "2s")
	t.Setenv("LEARNHUB_LOG__LEVEL", "warn")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9191 {
		t.Errorf("env override failed: got port %d, want 9191", loaded.Port)
	}
	if loaded.FetchTimeout != 2*time.Second {
		t.Errorf("env override failed: got fetch_timeout %s, want 2s", loaded.FetchTimeout)
	}
	if loaded.Log.Level != "warn" {
		t.Errorf("env override failed: got log level %q, want warn", loaded.Log.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("port: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file.md")
	if err := os.WriteFile(notADir, []byte("# x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"huge port", func(c *Config) { c.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }},
		{"file base url", func(c *Config) { c.BaseURL = "file:///home/me/hub/" }},
		{"missing content dir", func(c *Config) { c.ContentDir = filepath.Join(t.TempDir(), "nope") }},
		{"content dir is a file", func(c *Config) { c.ContentDir = notADir }},
		{"discover without content", func(c *Config) { c.CatalogFile = CatalogDiscover }},
		{"unknown style", func(c *Config) { c.DarkStyle = "neon-pink" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsZeroTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FetchTimeout = 0
	cfg.BaseURL = "http://localhost:8080/content/"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDetectContentDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if got := detectContentDir(); got != "" {
		t.Errorf("empty dir detected as content: %q", got)
	}
	if err := os.MkdirAll(filepath.Join(dir, "Go", "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := detectContentDir(); got != "." {
		t.Errorf("detectContentDir() = %q, want \".\"", got)
	}
}
