package tui

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/athletitrade/att/internal/config"
)

// UIConfig holds TUI-specific configuration separate from CLI config.
type UIConfig struct {
	// Favorites are player ids pinned at the top of the search view.
	Favorites []string `yaml:"favorites,omitempty"`
}

// ConfigPath returns the path to the TUI config file.
func ConfigPath() string {
	return filepath.Join(config.ConfigDir(), "ui.yaml")
}

// LoadConfig loads the TUI config from disk. A missing file yields an empty
// config.
func LoadConfig() (*UIConfig, error) {
	cfg := &UIConfig{}
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the TUI config to disk.
func SaveConfig(cfg *UIConfig) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// AddFavorite appends a player id if not already present. Returns true when
// the list changed.
func (c *UIConfig) AddFavorite(playerID string) bool {
	for _, id := range c.Favorites {
		if id == playerID {
			return false
		}
	}
	c.Favorites = append(c.Favorites, playerID)
	return true
}

// RemoveFavorite drops a player id. Returns true when the list changed.
func (c *UIConfig) RemoveFavorite(playerID string) bool {
	for i, id := range c.Favorites {
		if id == playerID {
			c.Favorites = append(c.Favorites[:i], c.Favorites[i+1:]...)
			return true
		}
	}
	return false
}
