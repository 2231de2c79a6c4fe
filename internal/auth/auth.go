package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/athletitrade/att/internal/api"
)

// Token represents a backend-issued JWT with its client-side expiry.
// The backend does not return the expiry; callers derive it from the
// configured token validity.
type Token struct {
	AccessToken string
	ExpiresAt   int64
}

// IsValid returns true if the token has not expired.
func (t *Token) IsValid() bool {
	return t.ExpiresAt > time.Now().Unix()
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// Login exchanges a username and password for a JWT at /auth/login.
// Validity controls the client-side expiry stamped on the returned token.
func Login(ctx context.Context, baseURL, username, password string, validity time.Duration) (*Token, error) {
	var loginResp loginResponse
	if err := postAuth(ctx, baseURL+"/auth/login", credentials{username, password}, &loginResp); err != nil {
		return nil, err
	}

	if loginResp.Token == "" {
		return nil, fmt.Errorf("empty token in response")
	}

	return &Token{
		AccessToken: loginResp.Token,
		ExpiresAt:   time.Now().Add(validity).Unix(),
	}, nil
}

// Register creates a new account at /auth/register and returns the new user id.
func Register(ctx context.Context, baseURL, username, password string) (string, error) {
	var regResp registerResponse
	if err := postAuth(ctx, baseURL+"/auth/register", credentials{username, password}, &regResp); err != nil {
		return "", err
	}
	return regResp.UserID, nil
}

// postAuth posts a JSON payload to an auth endpoint. Backend rejections come
// back as *api.APIError carrying the {"message": ...} payload.
func postAuth(ctx context.Context, url string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := api.CheckResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
