package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/engine"
	"github.com/athletitrade/att/internal/output"
)

// newOrderCmd creates the order command with the given options.
func newOrderCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a limit order",
		Long: `Place a limit order for a player's shares.

Examples:
  att order buy lebron-james --qty 5 --price 120.50
  att order sell lebron-james --qty 2 --price 130.00`,
	}
	cmd.SilenceUsage = true

	cmd.AddCommand(newOrderSideCmd(opts, "buy"))
	cmd.AddCommand(newOrderSideCmd(opts, "sell"))
	return cmd
}

func newOrderSideCmd(opts *apiOptions, side string) *cobra.Command {
	var quantity int
	var price float64

	cmd := &cobra.Command{
		Use:   side + " PLAYER_ID",
		Short: fmt.Sprintf("Place a %s order", side),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, args[0], engine.OrderForm{
				Side:     side,
				Quantity: quantity,
				Price:    price,
			})
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 0, "Number of shares")
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "Limit price per share")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("price")
	cmd.SilenceUsage = true

	return cmd
}

func runOrder(cmd *cobra.Command, opts *apiOptions, playerID string, form engine.OrderForm) error {
	// Reject malformed orders before they reach the network.
	if err := form.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	placed, err := opts.newAPIClient().PlaceOrder(ctx, api.OrderRequest{
		PlayerID: playerID,
		Side:     form.Side,
		Price:    form.Price,
		Quantity: form.Quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(placed)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order placed: #%d %s %d %s @ %s\n",
		placed.OrderID, form.Side, form.Quantity, playerID, output.Money(form.Price))
	return nil
}

func init() {
	var opts apiOptions

	orderCmd := newOrderCmd(&opts)
	orderCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return resolveAPIOptions(&opts)
	}
	rootCmd.AddCommand(orderCmd)
}
