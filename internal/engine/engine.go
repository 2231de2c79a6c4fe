// Package engine joins the independent backend reads behind the player
// detail view into one consistent view model, derives position and lifetime
// figures from it, and reconciles client state after order actions by
// re-reading server state. It also owns the keystroke-to-lookup search
// pipeline.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/athletitrade/att/internal/api"
)

// Fallback texts used when a backend rejection carries no message.
const (
	fallbackPlaceOrder  = "Failed to place order."
	fallbackCancelOrder = "Failed to cancel order."

	orderPlacedText = "Order placed successfully!"

	// minOrderPrice is the smallest accepted limit price.
	minOrderPrice = 0.01
)

// DataSource is the data-access collaborator the engine reads from and
// writes through. *api.Client satisfies it.
type DataSource interface {
	GetPortfolio(ctx context.Context) (*api.Portfolio, error)
	GetPlayerHistory(ctx context.Context, playerID string) (*api.PriceSeries, error)
	GetPlayerOrderBook(ctx context.Context, playerID string) (*api.OrderBook, error)
	GetOpenOrders(ctx context.Context) ([]api.OpenOrder, error)
	GetPlayerLifetimeStats(ctx context.Context, playerID string) (*api.LifetimeStats, error)
	PlaceOrder(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error)
	CancelOrder(ctx context.Context, orderID int64) error
}

// Engine aggregates backend state for one player detail view.
type Engine struct {
	src DataSource
}

// New creates an engine backed by the given data source.
func New(src DataSource) *Engine {
	return &Engine{src: src}
}

// Load issues the five reads behind the detail view concurrently and joins
// them into a fresh ViewModel. The join fails together: if any read fails,
// the whole load fails and no partial view is produced. The returned view is
// complete and self-consistent; callers publish it wholesale.
func (e *Engine) Load(ctx context.Context, playerID string) (*ViewModel, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}

	var (
		series    *api.PriceSeries
		book      *api.OrderBook
		orders    []api.OpenOrder
		portfolio *api.Portfolio
		stats     *api.LifetimeStats
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = e.src.GetPlayerHistory(ctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		book, err = e.src.GetPlayerOrderBook(ctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = e.src.GetOpenOrders(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		portfolio, err = e.src.GetPortfolio(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = e.src.GetPlayerLifetimeStats(ctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load player view: %w", err)
	}

	currentPrice := 0.0
	var history []api.PricePoint
	if series != nil {
		currentPrice = series.CurrentPrice
		history = series.Prices
	}

	playerOrders := make([]api.OpenOrder, 0, len(orders))
	for _, o := range orders {
		if o.PlayerID == playerID {
			playerOrders = append(playerOrders, o)
		}
	}

	return &ViewModel{
		PlayerID:     playerID,
		IsLoading:    false,
		CurrentPrice: currentPrice,
		History:      history,
		Book:         book,
		OpenOrders:   playerOrders,
		Portfolio:    portfolio,
		Position:     positionStats(portfolio, playerID, currentPrice),
		Lifetime:     lifetimeReturn(portfolio, playerID, currentPrice, stats),
		Form:         OrderForm{Side: "buy", Price: currentPrice},
	}, nil
}

// Result is the outcome of an order action: an optional refreshed view and a
// transient message. View is nil when no refresh happened (validation or
// backend rejection), in which case callers keep showing their current view.
type Result struct {
	View    *ViewModel
	Message Message
}

// Validate checks the form locally. A non-nil error means the order must not
// reach the network.
func (f OrderForm) Validate() error {
	if f.Side != "buy" && f.Side != "sell" {
		return fmt.Errorf("side must be buy or sell")
	}
	if f.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if f.Price < minOrderPrice {
		return fmt.Errorf("price must be at least %.2f", minOrderPrice)
	}
	return nil
}

// PlaceOrder validates the form, submits it, and on acceptance re-reads the
// full view. The engine never guesses whether the order filled; the refreshed
// server state is the only source of truth. On rejection the current view is
// left alone and only a transient error message is produced.
//
// The returned error is non-nil only when the order was accepted but the
// follow-up refresh failed; the success message is still returned so callers
// can tell the user the order went through.
func (e *Engine) PlaceOrder(ctx context.Context, playerID string, form OrderForm) (Result, error) {
	if err := form.Validate(); err != nil {
		return Result{Message: Message{Text: err.Error(), Kind: MessageError}}, nil
	}

	req := api.OrderRequest{
		PlayerID: playerID,
		Side:     form.Side,
		Price:    form.Price,
		Quantity: form.Quantity,
	}
	if _, err := e.src.PlaceOrder(ctx, req); err != nil {
		return Result{Message: Message{
			Text: api.ErrorMessage(err, fallbackPlaceOrder),
			Kind: MessageError,
		}}, nil
	}

	msg := Message{Text: orderPlacedText, Kind: MessageSuccess}

	vm, err := e.Load(ctx, playerID)
	if err != nil {
		return Result{Message: msg}, err
	}

	// Reset the form: keep the chosen side, re-seed price, clear quantity.
	vm.Form.Side = form.Side

	return Result{View: vm, Message: msg}, nil
}

// CancelOrder cancels an open order and re-reads the full view on success.
// On failure only a transient error message is produced; the order list is
// never mutated speculatively.
func (e *Engine) CancelOrder(ctx context.Context, playerID string, orderID int64) (Result, error) {
	if err := e.src.CancelOrder(ctx, orderID); err != nil {
		return Result{Message: Message{
			Text: api.ErrorMessage(err, fallbackCancelOrder),
			Kind: MessageError,
		}}, nil
	}

	vm, err := e.Load(ctx, playerID)
	if err != nil {
		return Result{}, err
	}

	return Result{View: vm}, nil
}
