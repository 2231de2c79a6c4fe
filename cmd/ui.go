package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/keyring"
	"github.com/athletitrade/att/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the full-screen terminal UI with portfolio, player search,
live player detail with order entry, and the leaderboard.

Example:
  att ui`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ConfigPath())
		if err != nil {
			return config.ErrNotLoggedIn
		}

		uiCfg, err := tui.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load UI config: %w", err)
		}

		store := keyring.NewEnvStore(keyring.NewSystemStore())
		return tui.Run(cfg, uiCfg, store)
	},
}

func init() {
	uiCmd.SilenceUsage = true
	rootCmd.AddCommand(uiCmd)
}
