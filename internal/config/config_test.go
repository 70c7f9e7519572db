package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "sqlite" {
		t.Errorf("expected storage 'sqlite', got %q", cfg.Storage)
	}
	if cfg.DataDir != DefaultDataDir() {
		t.Errorf("expected data_dir %q, got %q", DefaultDataDir(), cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log_level 'info', got %q", cfg.LogLevel)
	}
	if !cfg.DetectProject {
		t.Error("expected detect_project to default to true")
	}
	if cfg.Limits != DefaultLimits {
		t.Errorf("expected limits %+v, got %+v", DefaultLimits, cfg.Limits)
	}
	if cfg.Limits.Search != 20 || cfg.Limits.Recent != 10 || cfg.Limits.TimeQuery != 0 {
		t.Errorf("unexpected limits: %+v", cfg.Limits)
	}
	if cfg.Capture.Interval != 30*time.Minute {
		t.Errorf("expected capture interval 30m, got %v", cfg.Capture.Interval)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
storage = "markdown"
data_dir = "~/journal"
detect_project = false

[limits]
search = 50

[capture]
interval = "1h"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage != "markdown" {
		t.Errorf("expected storage 'markdown', got %q", cfg.Storage)
	}
	home, _ := os.UserHomeDir()
	if cfg.DataDir != filepath.Join(home, "journal") {
		t.Errorf("expected expanded data_dir, got %q", cfg.DataDir)
	}
	if cfg.DetectProject {
		t.Error("expected detect_project false")
	}
	if cfg.Limits.Search != 50 {
		t.Errorf("expected search limit 50, got %d", cfg.Limits.Search)
	}
	if cfg.Limits.Recent != 10 {
		t.Errorf("expected recent limit default 10, got %d", cfg.Limits.Recent)
	}
	if cfg.Capture.Interval != time.Hour {
		t.Errorf("expected capture interval 1h, got %v", cfg.Capture.Interval)
	}
}

func TestLoadFromXDG(t *testing.T) {
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(xdg, "devjournal"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "devjournal", "config.toml"), []byte(`log_level = "debug"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level 'debug', got %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DEVJOURNAL_STORAGE", "markdown")
	t.Setenv("DEVJOURNAL_LIMITS_RECENT", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage != "markdown" {
		t.Errorf("expected storage from env, got %q", cfg.Storage)
	}
	if cfg.Limits.Recent != 3 {
		t.Errorf("expected recent limit from env, got %d", cfg.Limits.Recent)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"~":           home,
		"~/data":      filepath.Join(home, "data"),
		"/abs/path":   "/abs/path",
		"relative":    "relative",
		"~other/path": "~other/path",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
