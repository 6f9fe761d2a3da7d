package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shapeshift/pkg/core"
)

// Environment variables that override the credentials from the config file.
const (
	EnvAPIKey = "SHAPESHIFT_API_KEY"
	EnvSecret = "SHAPESHIFT_SECRET"
)

// loadConfig reads a YAML config over the defaults. An empty path skips the
// file. Credentials from the environment win over the file.
func loadConfig(path string, getenv func(string) string) (*core.Config, error) {
	cfg := core.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg, getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *core.Config, getenv func(string) string) {
	apiKey, secret := getenv(EnvAPIKey), getenv(EnvSecret)
	if apiKey == "" && secret == "" {
		return
	}
	if cfg.Credentials == nil {
		cfg.Credentials = &core.Credentials{}
	}
	if apiKey != "" {
		cfg.Credentials.APIKey = apiKey
	}
	if secret != "" {
		cfg.Credentials.SecretKey = secret
	}
}
