package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `username: ron
api_base_url: http://localhost:5001
token_validity_minutes: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ron", cfg.Username)
	assert.Equal(t, "http://localhost:5001", cfg.APIBaseURL)
	assert.Equal(t, 60, cfg.TokenValidityMinutes)
}

func TestLoad_PartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: ron\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ron", cfg.Username)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultTokenValidityMinutes, cfg.TokenValidityMinutes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{
		Username:             "ron",
		APIBaseURL:           "http://localhost:5001",
		TokenValidityMinutes: 90,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	require.NoError(t, Save(path, DefaultConfig()))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultTokenValidityMinutes, cfg.TokenValidityMinutes)
	assert.Empty(t, cfg.Username)
}

func TestConfigDir_WithXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/att", ConfigDir())
}

func TestConfigPath_WithXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/att/config.yaml", ConfigPath())
}
