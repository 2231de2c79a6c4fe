package keyring

import (
	"errors"
	"os"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service name for storing credentials.
	// Uses reverse domain notation for proper namespacing.
	ServiceName = "com.athletitrade.att"

	// KeyPassword is the keyring key for the account password. The backend
	// only issues short-lived JWTs, so the password is kept around to
	// re-login when the cached token expires.
	KeyPassword = "password"

	// EnvPassword is the environment variable name for the password.
	// When set, it overrides keyring lookups for CI/headless environments.
	EnvPassword = "ATT_PASSWORD"
)

// ErrNotFound is returned when a credential is not found in the keyring.
var ErrNotFound = errors.New("credential not found")

// Store provides an interface for secure credential storage.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// SystemStore implements Store using the system keyring.
type SystemStore struct{}

// NewSystemStore creates a new system keyring store.
func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

// Get retrieves a credential from the system keyring.
func (s *SystemStore) Get(service, key string) (string, error) {
	secret, err := gokeyring.Get(service, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set stores a credential in the system keyring.
func (s *SystemStore) Set(service, key, value string) error {
	return gokeyring.Set(service, key, value)
}

// Delete removes a credential from the system keyring.
func (s *SystemStore) Delete(service, key string) error {
	err := gokeyring.Delete(service, key)
	if err != nil && errors.Is(err, gokeyring.ErrNotFound) {
		return nil // Deleting non-existent key is not an error
	}
	return err
}

// EnvStore wraps another Store and checks environment variables first.
// This enables CI/headless environments to provide credentials via env vars.
type EnvStore struct {
	underlying Store
}

// NewEnvStore creates a new EnvStore wrapping the given store.
func NewEnvStore(underlying Store) *EnvStore {
	return &EnvStore{underlying: underlying}
}

// Get retrieves a credential, checking the env var first for password lookups.
func (e *EnvStore) Get(service, key string) (string, error) {
	if key == KeyPassword {
		if envVal := os.Getenv(EnvPassword); envVal != "" {
			return envVal, nil
		}
	}
	return e.underlying.Get(service, key)
}

// Set stores a credential in the underlying store.
func (e *EnvStore) Set(service, key, value string) error {
	return e.underlying.Set(service, key, value)
}

// Delete removes a credential from the underlying store.
func (e *EnvStore) Delete(service, key string) error {
	return e.underlying.Delete(service, key)
}
