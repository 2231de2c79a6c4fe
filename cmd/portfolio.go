package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/output"
)

// newPortfolioCmd creates the portfolio command with the given options.
func newPortfolioCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "View holdings and balances",
		Long: `View your holdings, cash balance, and total portfolio value.

Example:
  att portfolio`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolio(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runPortfolio(cmd *cobra.Command, opts *apiOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	portfolio, err := opts.newAPIClient().GetPortfolio(ctx)
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	if opts.jsonMode {
		return formatter.Print(portfolio)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total Value: %s\n", output.Money(portfolio.TotalValue))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cash: %s\n\n", output.Money(portfolio.CashBalance))

	if len(portfolio.Holdings) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No holdings")
		return nil
	}

	headers := []string{"Player", "Qty", "Avg Cost", "Mkt Value", "G/L"}
	rows := make([][]string, 0, len(portfolio.Holdings))
	for _, h := range portfolio.Holdings {
		costBasis := float64(h.Quantity) * h.AvgCost
		rows = append(rows, []string{
			h.PlayerID,
			strconv.Itoa(h.Quantity),
			output.Money(h.AvgCost),
			output.Money(h.MarketValue),
			output.SignedMoney(h.MarketValue - costBasis),
		})
	}

	return formatter.Table(headers, rows)
}

func init() {
	var opts apiOptions

	portfolioCmd := newPortfolioCmd(&opts)
	portfolioCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&opts)
	}
	rootCmd.AddCommand(portfolioCmd)
}
