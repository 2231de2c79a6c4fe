package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
)

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath string
	store      keyring.Store
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var apiURL string
	var tokenValidity int

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "View or change CLI settings",
		Long: `View or change the backend URL and token validity. With no flags,
prints the current configuration.

Examples:
  att configure
  att configure --api-url http://localhost:5001
  att configure --token-validity 720`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts, apiURL, tokenValidity)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Backend base URL")
	cmd.Flags().IntVar(&tokenValidity, "token-validity", 0, "Token validity in minutes")
	cmd.SilenceUsage = true

	return cmd
}

func runConfigure(cmd *cobra.Command, opts configureOptions, apiURL string, tokenValidity int) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	changed := false

	if apiURL != "" {
		parsed, err := url.Parse(apiURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid API URL: %s", apiURL)
		}
		cfg.APIBaseURL = apiURL
		changed = true
	}

	if tokenValidity != 0 {
		if tokenValidity < 1 {
			return fmt.Errorf("token validity must be at least 1 minute")
		}
		cfg.TokenValidityMinutes = tokenValidity
		changed = true
	}

	if changed {
		if err := config.Save(opts.configPath, cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved.")
		return nil
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Current Configuration:")
	_, _ = fmt.Fprintln(out, "----------------------")

	if cfg.Username != "" {
		_, _ = fmt.Fprintf(out, "Username: %s\n", cfg.Username)
	} else {
		_, _ = fmt.Fprintln(out, "Username: Not set (run: att login)")
	}

	if _, err := opts.store.Get(keyring.ServiceName, keyring.KeyPassword); err == nil {
		_, _ = fmt.Fprintln(out, "Password: Stored")
	} else {
		_, _ = fmt.Fprintln(out, "Password: Not stored")
	}

	_, _ = fmt.Fprintf(out, "API base URL: %s\n", cfg.APIBaseURL)
	_, _ = fmt.Fprintf(out, "Token validity: %d minutes\n", cfg.TokenValidityMinutes)

	return nil
}

func init() {
	configureCmd := newConfigureCmd(configureOptions{
		configPath: config.ConfigPath(),
		store:      keyring.NewEnvStore(keyring.NewSystemStore()),
	})
	rootCmd.AddCommand(configureCmd)
}
