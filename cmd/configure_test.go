package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

func TestConfigureShowsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Username = "alice"
	require.NoError(t, config.Save(path, cfg))

	store := keyring.NewMockStore().WithData(keyring.ServiceName, keyring.KeyPassword, "pw")
	cmd := newConfigureCmd(configureOptions{configPath: path, store: store})

	out, err := execute(t, cmd)

	require.NoError(t, err)
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Password: Stored")
	assert.Contains(t, out, config.DefaultAPIBaseURL)
}

func TestConfigureSetsAPIURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd := newConfigureCmd(configureOptions{configPath: path, store: keyring.NewMockStore()})

	out, err := execute(t, cmd, "--api-url", "http://localhost:9999")

	require.NoError(t, err)
	assert.Contains(t, out, "saved")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
}

func TestConfigureRejectsBadURL(t *testing.T) {
	cmd := newConfigureCmd(configureOptions{
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
		store:      keyring.NewMockStore(),
	})

	_, err := execute(t, cmd, "--api-url", "not a url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API URL")
}

func TestConfigureSetsTokenValidity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd := newConfigureCmd(configureOptions{configPath: path, store: keyring.NewMockStore()})

	_, err := execute(t, cmd, "--token-validity", "720")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.TokenValidityMinutes)
}

func TestConfigureRejectsBadValidity(t *testing.T) {
	cmd := newConfigureCmd(configureOptions{
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
		store:      keyring.NewMockStore(),
	})

	_, err := execute(t, cmd, "--token-validity", "-5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token validity")
}
