package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/auth"
	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

// loginOptions holds dependencies for the login command.
// This allows for dependency injection in tests.
type loginOptions struct {
	configPath     string
	store          keyring.Store
	passwordReader passwordReader
	prompt         prompter
}

// newLoginCmd creates the login command with the given options.
func newLoginCmd(opts loginOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to AthletiTrade",
		Long: `Log in with your AthletiTrade username and password.

The password is stored in the system keyring and used to refresh the
session token when it expires.

Examples:
  att login
  att login --username alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.SilenceUsage = true

	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions, username string) error {
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("login requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
	}

	if username == "" {
		var err error
		username, err = opts.prompt.ReadLine("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	password, err := opts.passwordReader.ReadPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Validate the credentials before storing anything.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	validity := time.Duration(cfg.TokenValidityMinutes) * time.Minute
	token, err := auth.Login(ctx, cfg.APIBaseURL, username, password, validity)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := opts.store.Set(keyring.ServiceName, keyring.KeyPassword, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}

	cfg.Username = username
	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Cache the session token so the next command skips the login round trip.
	_ = auth.SaveToken(auth.TokenCachePath(), token)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
	return nil
}

func init() {
	loginCmd := newLoginCmd(loginOptions{
		configPath:     config.ConfigPath(),
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(loginCmd)
}
