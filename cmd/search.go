package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/output"
)

// newSearchCmd creates the search command with the given options.
func newSearchCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [TERM]",
		Short: "Search players by name",
		Long: `Search players by partial name. With no term, lists every player
with an active market.

Examples:
  att search lebron
  att search`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) > 0 {
				term = args[0]
			}
			return runSearch(cmd, opts, term)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runSearch(cmd *cobra.Command, opts *apiOptions, term string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := opts.newAPIClient()

	var players []string
	var err error
	if strings.TrimSpace(term) == "" {
		players, err = client.GetAllPlayers(ctx)
	} else {
		players, err = client.SearchPlayers(ctx, term)
	}
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(players)
	}

	if len(players) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No players found")
		return nil
	}

	for _, p := range players {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// newLeaderboardCmd creates the leaderboard command with the given options.
func newLeaderboardCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "View top users by portfolio value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaderboard(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runLeaderboard(cmd *cobra.Command, opts *apiOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := opts.newAPIClient().GetLeaderboard(ctx)
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No users yet")
		return nil
	}

	headers := []string{"#", "User", "Total Value"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Username,
			output.Money(e.TotalValue),
		})
	}

	return formatter.Table(headers, rows)
}

func init() {
	var searchOpts apiOptions
	searchCmd := newSearchCmd(&searchOpts)
	searchCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&searchOpts)
	}
	rootCmd.AddCommand(searchCmd)

	var lbOpts apiOptions
	leaderboardCmd := newLeaderboardCmd(&lbOpts)
	leaderboardCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&lbOpts)
	}
	rootCmd.AddCommand(leaderboardCmd)
}
