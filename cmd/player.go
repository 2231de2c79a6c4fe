package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/engine"
	"github.com/athletitrade/att/internal/output"
)

// newPlayerCmd creates the player command with the given options.
func newPlayerCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player PLAYER_ID",
		Short: "View a player's market",
		Long: `View everything about one player's market in a single consistent
snapshot: current price, the order book, your position, your lifetime
result, and your open orders on the player.

Example:
  att player lebron-james`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd, opts, args[0])
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runPlayer(cmd *cobra.Command, opts *apiOptions, playerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eng := engine.New(opts.newAPIClient())
	vm, err := eng.Load(ctx, playerID)
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)

	if opts.jsonMode {
		return formatter.Print(vm)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s  %s\n\n", vm.PlayerID, output.Money(vm.CurrentPrice))

	if vm.Position != nil {
		pos := vm.Position
		_, _ = fmt.Fprintf(out, "Position: avg cost %s, market value %s, G/L %s (%s)\n",
			output.Money(pos.AvgCost), output.Money(pos.MarketValue),
			output.SignedMoney(pos.GainLoss), output.Percent(pos.PercentChange))
	}
	if vm.Lifetime != nil {
		lt := vm.Lifetime
		_, _ = fmt.Fprintf(out, "Lifetime: %s (%s)\n",
			output.SignedMoney(lt.TotalReturn), output.Percent(lt.TotalReturnPercent))
	}
	if vm.Position != nil || vm.Lifetime != nil {
		_, _ = fmt.Fprintln(out)
	}

	bids := engine.SortedBids(vm.Book)
	asks := engine.SortedAsks(vm.Book)
	if len(bids) > 0 || len(asks) > 0 {
		_, _ = fmt.Fprintln(out, "Order Book:")
		headers := []string{"Bid", "Bid Qty", "Ask", "Ask Qty"}
		depth := len(bids)
		if len(asks) > depth {
			depth = len(asks)
		}
		rows := make([][]string, 0, depth)
		for i := 0; i < depth; i++ {
			row := []string{"", "", "", ""}
			if i < len(bids) {
				row[0] = bids[i].Price.StringFixed(2)
				row[1] = strconv.Itoa(bids[i].Quantity)
			}
			if i < len(asks) {
				row[2] = asks[i].Price.StringFixed(2)
				row[3] = strconv.Itoa(asks[i].Quantity)
			}
			rows = append(rows, row)
		}
		if err := formatter.Table(headers, rows); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(vm.History) > 0 {
		first := vm.History[0].Price
		last := vm.History[len(vm.History)-1].Price
		change := last - first
		percent := 0.0
		if first != 0 {
			percent = change / first * 100
		}
		_, _ = fmt.Fprintf(out, "History: %s (%s) over %d points\n",
			output.SignedMoney(change), output.Percent(percent), len(vm.History))
		const recent = 5
		start := len(vm.History) - recent
		if start < 0 {
			start = 0
		}
		for i := len(vm.History) - 1; i >= start; i-- {
			p := vm.History[i]
			_, _ = fmt.Fprintf(out, "  %s  %s\n",
				time.Unix(p.Time, 0).UTC().Format("2006-01-02 15:04"), output.Money(p.Price))
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(vm.OpenOrders) > 0 {
		_, _ = fmt.Fprintln(out, "Open Orders:")
		for _, o := range vm.OpenOrders {
			_, _ = fmt.Fprintf(out, "  #%d %s %d @ %s\n", o.OrderID, o.Side, o.Quantity, output.Money(o.Price))
		}
	}

	return nil
}

func init() {
	var opts apiOptions

	playerCmd := newPlayerCmd(&opts)
	playerCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&opts)
	}
	rootCmd.AddCommand(playerCmd)
}
