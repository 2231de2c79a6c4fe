package auth

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/athletitrade/att/internal/config"
)

// tokenCache is the JSON structure for the cached token file.
type tokenCache struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// SaveToken writes a token to the cache file.
// Creates parent directories if needed with 0700 permissions.
// The file is written with 0600 permissions.
func SaveToken(path string, token *Token) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	cache := tokenCache{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// LoadToken reads a token from the cache file.
// Returns an error if the file doesn't exist or contains invalid JSON.
func LoadToken(path string) (*Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cache tokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: cache.AccessToken,
		ExpiresAt:   cache.ExpiresAt,
	}, nil
}

// ClearToken removes the token cache file.
// Returns nil if the file doesn't exist.
func ClearToken(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// TokenCachePath returns the path to the token cache file.
func TokenCachePath() string {
	return filepath.Join(config.ConfigDir(), ".token_cache")
}
