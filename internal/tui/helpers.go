package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/auth"
	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

// getAuthToken retrieves a valid access token, logging in with the stored
// password when the cached token is missing or expired.
func getAuthToken(cfg *config.Config, store keyring.Store, forceRefresh bool) (string, error) {
	if cfg.Username == "" {
		return "", config.ErrNotLoggedIn
	}

	password, err := store.Get(keyring.ServiceName, keyring.KeyPassword)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", config.ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to retrieve password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	validity := time.Duration(cfg.TokenValidityMinutes) * time.Minute
	token, err := auth.GetTokenWithRefresh(ctx, auth.TokenCachePath(), cfg.APIBaseURL, cfg.Username, password, validity, forceRefresh)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}

	return token.AccessToken, nil
}

// newClient builds an API client whose 401 handling re-logs-in through the
// keyring-stored password.
func newClient(cfg *config.Config, store keyring.Store) (*api.Client, error) {
	token, err := getAuthToken(cfg, store, false)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL, token).WithTokenRefresher(func() (string, error) {
		return getAuthToken(cfg, store, true)
	})
	return client, nil
}
