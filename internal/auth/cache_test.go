package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".token_cache")
	token := &Token{AccessToken: "jwt-123", ExpiresAt: time.Now().Add(time.Hour).Unix()}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.ExpiresAt, loaded.ExpiresAt)
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadTokenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".token_cache")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := LoadToken(path)
	assert.Error(t, err)
}

func TestClearToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".token_cache")
	require.NoError(t, SaveToken(path, &Token{AccessToken: "t"}))

	require.NoError(t, ClearToken(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-missing cache is not an error.
	assert.NoError(t, ClearToken(path))
}

func TestTokenCachePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/att/.token_cache", TokenCachePath())
}
