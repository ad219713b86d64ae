package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BackendURL != "http://localhost:8002/api" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.UserID != "" {
		t.Fatalf("UserID should default empty, got %q", cfg.UserID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	// Point the config dir at an empty temp dir so no real file is read.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ELEVATE_BACKEND_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8002/api" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ELEVATE_BACKEND_URL", "")

	cfgDir := filepath.Join(dir, "elevate")
	os.MkdirAll(cfgDir, 0o755)
	content := "backend_url: https://tasks.example.com/api\nuser_id: user_fixed\nrequest_timeout: 45\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "https://tasks.example.com/api" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.UserID != "user_fixed" {
		t.Fatalf("UserID = %q", cfg.UserID)
	}
	if cfg.RequestTimeout != 45 {
		t.Fatalf("RequestTimeout = %d", cfg.RequestTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "elevate")
	os.MkdirAll(cfgDir, 0o755)
	os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("backend_url: https://file.example.com\n"), 0o644)

	t.Setenv("ELEVATE_BACKEND_URL", "https://env.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Fatalf("env should win, got %q", cfg.BackendURL)
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "elevate")
	os.MkdirAll(cfgDir, 0o755)
	os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte("backend_url: [not: valid"), 0o644)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/xdg/elevate/config.yaml" {
		t.Fatalf("path = %q", path)
	}
}
