package auth

import (
	"context"
	"time"
)

// GetToken returns a valid access token, logging in again if necessary.
// It first tries to load a cached token. If the cached token is valid,
// it returns immediately. If the token is expired, missing, or corrupted,
// it logs in with the stored credentials and caches the fresh token.
func GetToken(ctx context.Context, cachePath, baseURL, username, password string, validity time.Duration) (*Token, error) {
	return GetTokenWithRefresh(ctx, cachePath, baseURL, username, password, validity, false)
}

// GetTokenWithRefresh returns a valid access token.
// If forceRefresh is true, it ignores any cached token and logs in again.
// Use forceRefresh=true when you get a 401 error with a cached token.
func GetTokenWithRefresh(ctx context.Context, cachePath, baseURL, username, password string, validity time.Duration, forceRefresh bool) (*Token, error) {
	if !forceRefresh {
		token, err := LoadToken(cachePath)
		if err == nil && token.IsValid() {
			return token, nil
		}
	}

	// Token missing, expired, corrupted, or force refresh - log in again
	token, err := Login(ctx, baseURL, username, password, validity)
	if err != nil {
		return nil, err
	}

	// Cache the new token (ignore save errors - token is still usable)
	_ = SaveToken(cachePath, token)

	return token, nil
}
