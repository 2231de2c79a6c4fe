package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/auth"
	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

// passwordReader abstracts terminal password input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// prompter abstracts line input for testing.
type prompter interface {
	ReadLine(prompt string) (string, error)
}

// terminalPrompter implements prompter using stdin.
type terminalPrompter struct {
	reader io.Reader
	writer io.Writer
}

func newTerminalPrompter(r io.Reader, w io.Writer) *terminalPrompter {
	return &terminalPrompter{reader: r, writer: w}
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)
	scanner := bufio.NewScanner(p.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// apiOptions holds the authenticated dependencies shared by the data
// commands. Populated lazily in PersistentPreRunE so unauthenticated
// commands stay usable.
type apiOptions struct {
	baseURL        string
	authToken      string
	jsonMode       bool
	tokenRefresher api.TokenRefresher
}

// newAPIClient builds a client from resolved options.
func (o apiOptions) newAPIClient() *api.Client {
	return api.NewClient(o.baseURL, o.authToken).WithTokenRefresher(o.tokenRefresher)
}

// getAuthToken retrieves a valid access token for the configured user,
// re-logging-in with the keyring-stored password when needed.
func getAuthToken(store keyring.Store, cfg *config.Config, forceRefresh bool) (string, error) {
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

// resolveAPIOptions loads config and authenticates. Used as the
// PersistentPreRunE of every data command.
func resolveAPIOptions(opts *apiOptions) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return config.ErrNotLoggedIn
	}

	store := keyring.NewEnvStore(keyring.NewSystemStore())
	token, err := getAuthToken(store, cfg, false)
	if err != nil {
		return err
	}

	opts.baseURL = cfg.APIBaseURL
	opts.authToken = token
	opts.jsonMode = GetJSONMode()
	opts.tokenRefresher = func() (string, error) {
		return getAuthToken(store, cfg, true)
	}
	return nil
}
