package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/sysla.db")
	if cfg.Database.Path != "/tmp/sysla.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.API.BaseURL == "" || cfg.API.UserID != 1 {
		t.Fatalf("unexpected api defaults %+v", cfg.API)
	}
	if cfg.UI.DefaultFilter != "all" || !cfg.UI.ShowCounts {
		t.Fatalf("unexpected ui defaults %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/sysla.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != defaults.API.BaseURL {
		t.Fatalf("expected default base url, got %q", cfg.API.BaseURL)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://todos.example.com"
user_id = 6550
timeout_seconds = 3

[database]
path = "/custom/sysla.db"

[ui]
default_filter = "active"
show_counts = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://todos.example.com" || cfg.API.UserID != 6550 {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Database.Path != "/custom/sysla.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.UI.DefaultFilter != "active" || cfg.UI.ShowCounts {
		t.Fatalf("unexpected ui config %+v", cfg.UI)
	}
}

func TestLoadRejectsInvalidFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
path = "/custom/sysla.db"

[ui]
default_filter = "weird"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default("/tmp/default.db")); err == nil {
		t.Fatal("expected error for invalid filter")
	}
}

func TestValidateRejectsBadUserID(t *testing.T) {
	cfg := Default("/tmp/sysla.db")
	cfg.API.UserID = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive user id")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
