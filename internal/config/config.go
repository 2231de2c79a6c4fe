package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is the AthletiTrade backend used when none is configured.
const DefaultAPIBaseURL = "http://127.0.0.1:5001"

// DefaultTokenValidityMinutes matches the 24h expiry the backend puts in its JWTs.
const DefaultTokenValidityMinutes = 24 * 60

// ErrNotLoggedIn is returned by commands that need a configured account.
var ErrNotLoggedIn = errors.New("not logged in. Run: att login")

// Config holds the CLI configuration.
type Config struct {
	Username             string `yaml:"username"`
	APIBaseURL           string `yaml:"api_base_url"`
	TokenValidityMinutes int    `yaml:"token_validity_minutes"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:           DefaultAPIBaseURL,
		TokenValidityMinutes: DefaultTokenValidityMinutes,
	}
}

// ConfigDir returns the directory holding CLI state.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/att.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "att")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "att")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config from the given path. Missing fields fall back to
// defaults; a missing file is an error so callers can decide to start fresh.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.TokenValidityMinutes <= 0 {
		cfg.TokenValidityMinutes = DefaultTokenValidityMinutes
	}

	return cfg, nil
}

// Save writes the config to the given path, creating parent directories
// with 0700 permissions. The file is written with 0600 permissions.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
