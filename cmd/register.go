package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/auth"
	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

// registerOptions holds dependencies for the register command.
type registerOptions struct {
	configPath     string
	passwordReader passwordReader
	prompt         prompter
}

// newRegisterCmd creates the register command with the given options.
func newRegisterCmd(opts registerOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new AthletiTrade account",
		Long: `Create a new AthletiTrade account.

Examples:
  att register
  att register --username alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, opts, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.SilenceUsage = true

	return cmd
}

func runRegister(cmd *cobra.Command, opts registerOptions, username string) error {
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("register requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
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

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	confirm, err := opts.passwordReader.ReadPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := auth.Register(ctx, cfg.APIBaseURL, username, password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Account created. Run: att login --username %s\n", username)
	return nil
}

func init() {
	registerCmd := newRegisterCmd(registerOptions{
		configPath:     config.ConfigPath(),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(registerCmd)
}

// logoutOptions holds dependencies for the logout command.
type logoutOptions struct {
	store          keyring.Store
	tokenCachePath string
}

// newLogoutCmd creates the logout command with the given options.
func newLogoutCmd(opts logoutOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runLogout(cmd *cobra.Command, opts logoutOptions) error {
	if err := auth.ClearToken(opts.tokenCachePath); err != nil {
		return fmt.Errorf("failed to clear token cache: %w", err)
	}

	if err := opts.store.Delete(keyring.ServiceName, keyring.KeyPassword); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear password: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func init() {
	logoutCmd := newLogoutCmd(logoutOptions{
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		tokenCachePath: auth.TokenCachePath(),
	})
	rootCmd.AddCommand(logoutCmd)
}
