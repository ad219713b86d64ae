// Package config loads the client configuration from
// ~/.config/elevate/config.yaml. A missing file is not an error; the
// defaults point at a local backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultBackendURL = "http://localhost:8002/api"

type Config struct {
	// BackendURL is the base URL of the task backend, including any
	// path prefix the deployment mounts the API under.
	BackendURL string `yaml:"backend_url"`
	// UserID overrides the locally generated identity. Leave empty to
	// let the client generate and persist one.
	UserID string `yaml:"user_id"`
	// RequestTimeout is the per-request timeout in seconds. Zero keeps
	// the client default.
	RequestTimeout int `yaml:"request_timeout"`
}

func Default() Config {
	return Config{BackendURL: defaultBackendURL}
}

// Load reads the config file and applies the environment override.
// ELEVATE_BACKEND_URL wins over the file, which wins over the default.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if url := os.Getenv("ELEVATE_BACKEND_URL"); url != "" {
		cfg.BackendURL = url
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultBackendURL
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, cfg)
}

// Path returns ~/.config/elevate/config.yaml
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "elevate", "config.yaml"), nil
}
