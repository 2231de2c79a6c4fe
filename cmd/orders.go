package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/output"
)

// newOrdersCmd creates the orders command with the given options.
func newOrdersCmd(opts *apiOptions) *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List and cancel open orders",
		Long: `List your resting orders, optionally filtered by player.

Examples:
  att orders
  att orders --player lebron-james
  att orders cancel 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersList(cmd, opts, playerID)
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Only show orders for this player")
	cmd.SilenceUsage = true

	cmd.AddCommand(newOrdersCancelCmd(opts))
	return cmd
}

func runOrdersList(cmd *cobra.Command, opts *apiOptions, playerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orders, err := opts.newAPIClient().GetOpenOrders(ctx)
	if err != nil {
		return err
	}

	if playerID != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.PlayerID == playerID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(orders)
	}

	if len(orders) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No open orders")
		return nil
	}

	headers := []string{"Order", "Player", "Side", "Price", "Qty"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.OrderID, 10),
			o.PlayerID,
			o.Side,
			output.Money(o.Price),
			strconv.Itoa(o.Quantity),
		})
	}

	return formatter.Table(headers, rows)
}

func newOrdersCancelCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel an open order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id: %s", args[0])
			}
			return runOrdersCancel(cmd, opts, orderID)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runOrdersCancel(cmd *cobra.Command, opts *apiOptions, orderID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := opts.newAPIClient().CancelOrder(ctx, orderID); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order #%d cancelled\n", orderID)
	return nil
}

func init() {
	var opts apiOptions

	ordersCmd := newOrdersCmd(&opts)
	ordersCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&opts)
	}
	rootCmd.AddCommand(ordersCmd)
}
