package engine

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athletitrade/att/internal/api"
)

// mockSource is a DataSource backed by overridable funcs, with sane defaults
// so tests only stub what they care about.
type mockSource struct {
	mu sync.Mutex

	portfolioFn func(ctx context.Context) (*api.Portfolio, error)
	historyFn   func(ctx context.Context, playerID string) (*api.PriceSeries, error)
	bookFn      func(ctx context.Context, playerID string) (*api.OrderBook, error)
	ordersFn    func(ctx context.Context) ([]api.OpenOrder, error)
	statsFn     func(ctx context.Context, playerID string) (*api.LifetimeStats, error)
	placeFn     func(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error)
	cancelFn    func(ctx context.Context, orderID int64) error

	placeCalls  []api.OrderRequest
	cancelCalls []int64
	loadCount   int
}

func newMockSource() *mockSource {
	return &mockSource{
		portfolioFn: func(ctx context.Context) (*api.Portfolio, error) {
			return &api.Portfolio{
				Holdings:    []api.Holding{{PlayerID: "p1", Quantity: 10, AvgCost: 100}},
				CashBalance: 1000,
				TotalValue:  2200,
			}, nil
		},
		historyFn: func(ctx context.Context, playerID string) (*api.PriceSeries, error) {
			return &api.PriceSeries{
				CurrentPrice: 120,
				Prices:       []api.PricePoint{{Time: 1700000000, Price: 110}, {Time: 1700003600, Price: 120}},
			}, nil
		},
		bookFn: func(ctx context.Context, playerID string) (*api.OrderBook, error) {
			return &api.OrderBook{
				Bids: map[string]int{"119.00": 3},
				Asks: map[string]int{"121.00": 2},
			}, nil
		},
		ordersFn: func(ctx context.Context) ([]api.OpenOrder, error) {
			return []api.OpenOrder{
				{OrderID: 1, UserID: "u7", PlayerID: "p1", Side: "buy", Price: 118, Quantity: 2},
				{OrderID: 2, UserID: "u7", PlayerID: "p2", Side: "sell", Price: 40, Quantity: 5},
			}, nil
		},
		statsFn: func(ctx context.Context, playerID string) (*api.LifetimeStats, error) {
			return &api.LifetimeStats{TotalCost: 1000, TotalProceeds: 0}, nil
		},
		placeFn: func(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error) {
			return &api.PlaceOrderResponse{Message: "Order placed", OrderID: 3}, nil
		},
		cancelFn: func(ctx context.Context, orderID int64) error {
			return nil
		},
	}
}

func (m *mockSource) GetPortfolio(ctx context.Context) (*api.Portfolio, error) {
	m.mu.Lock()
	m.loadCount++
	m.mu.Unlock()
	return m.portfolioFn(ctx)
}

func (m *mockSource) GetPlayerHistory(ctx context.Context, playerID string) (*api.PriceSeries, error) {
	return m.historyFn(ctx, playerID)
}

func (m *mockSource) GetPlayerOrderBook(ctx context.Context, playerID string) (*api.OrderBook, error) {
	return m.bookFn(ctx, playerID)
}

func (m *mockSource) GetOpenOrders(ctx context.Context) ([]api.OpenOrder, error) {
	return m.ordersFn(ctx)
}

func (m *mockSource) GetPlayerLifetimeStats(ctx context.Context, playerID string) (*api.LifetimeStats, error) {
	return m.statsFn(ctx, playerID)
}

func (m *mockSource) PlaceOrder(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error) {
	m.mu.Lock()
	m.placeCalls = append(m.placeCalls, req)
	m.mu.Unlock()
	return m.placeFn(ctx, req)
}

func (m *mockSource) CancelOrder(ctx context.Context, orderID int64) error {
	m.mu.Lock()
	m.cancelCalls = append(m.cancelCalls, orderID)
	m.mu.Unlock()
	return m.cancelFn(ctx, orderID)
}

func (m *mockSource) loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCount
}

func TestLoad(t *testing.T) {
	src := newMockSource()
	eng := New(src)

	vm, err := eng.Load(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "p1", vm.PlayerID)
	assert.False(t, vm.IsLoading)
	assert.Equal(t, 120.0, vm.CurrentPrice)
	assert.Len(t, vm.History, 2)
	require.NotNil(t, vm.Book)
	require.NotNil(t, vm.Portfolio)

	// Only this player's open orders survive the join.
	require.Len(t, vm.OpenOrders, 1)
	assert.Equal(t, int64(1), vm.OpenOrders[0].OrderID)

	require.NotNil(t, vm.Position)
	assert.Equal(t, 1200.0, vm.Position.MarketValue)
	assert.Equal(t, 200.0, vm.Position.GainLoss)
	assert.Equal(t, 20.0, vm.Position.PercentChange)

	require.NotNil(t, vm.Lifetime)
	assert.Equal(t, 200.0, vm.Lifetime.TotalReturn)

	// Form seeded with the fresh price.
	assert.Equal(t, "buy", vm.Form.Side)
	assert.Equal(t, 120.0, vm.Form.Price)
	assert.Equal(t, 0, vm.Form.Quantity)
}

func TestLoadFailsTogether(t *testing.T) {
	tests := []struct {
		name  string
		fail func(*mockSource)
	}{
		{
			name: "portfolio read fails",
			fail: func(m *mockSource) {
				m.portfolioFn = func(ctx context.Context) (*api.Portfolio, error) {
					return nil, errors.New("boom")
				}
			},
		},
		{
			name: "history read fails",
			fail: func(m *mockSource) {
				m.historyFn = func(ctx context.Context, playerID string) (*api.PriceSeries, error) {
					return nil, errors.New("boom")
				}
			},
		},
		{
			name: "order book read fails",
			fail: func(m *mockSource) {
				m.bookFn = func(ctx context.Context, playerID string) (*api.OrderBook, error) {
					return nil, errors.New("boom")
				}
			},
		},
		{
			name: "open orders read fails",
			fail: func(m *mockSource) {
				m.ordersFn = func(ctx context.Context) ([]api.OpenOrder, error) {
					return nil, errors.New("boom")
				}
			},
		},
		{
			name: "lifetime stats read fails",
			fail: func(m *mockSource) {
				m.statsFn = func(ctx context.Context, playerID string) (*api.LifetimeStats, error) {
					return nil, errors.New("boom")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newMockSource()
			tt.fail(src)
			eng := New(src)

			vm, err := eng.Load(context.Background(), "p1")

			assert.Error(t, err)
			assert.Nil(t, vm)
		})
	}
}

func TestLoadRequiresPlayerID(t *testing.T) {
	eng := New(newMockSource())

	vm, err := eng.Load(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, vm)
}

func TestOrderFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    OrderForm
		wantErr string
	}{
		{
			name: "valid buy",
			form: OrderForm{Side: "buy", Quantity: 1, Price: 0.01},
		},
		{
			name: "valid sell",
			form: OrderForm{Side: "sell", Quantity: 100, Price: 42.5},
		},
		{
			name:    "bad side",
			form:    OrderForm{Side: "hold", Quantity: 1, Price: 1},
			wantErr: "side",
		},
		{
			name:    "zero quantity",
			form:    OrderForm{Side: "buy", Quantity: 0, Price: 1},
			wantErr: "quantity",
		},
		{
			name:    "negative quantity",
			form:    OrderForm{Side: "buy", Quantity: -3, Price: 1},
			wantErr: "quantity",
		},
		{
			name:    "price below minimum",
			form:    OrderForm{Side: "buy", Quantity: 1, Price: 0.001},
			wantErr: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPlaceOrderInvalidFormSkipsNetwork(t *testing.T) {
	src := newMockSource()
	eng := New(src)

	res, err := eng.PlaceOrder(context.Background(), "p1", OrderForm{Side: "buy", Quantity: 0, Price: 120})

	require.NoError(t, err)
	assert.Nil(t, res.View)
	assert.Equal(t, MessageError, res.Message.Kind)
	assert.Empty(t, src.placeCalls)
	assert.Zero(t, src.loads())
}

func TestPlaceOrderRejected(t *testing.T) {
	tests := []struct {
		name     string
		placeErr error
		wantText string
	}{
		{
			name:     "backend message surfaces",
			placeErr: &api.APIError{StatusCode: http.StatusBadRequest, Message: "Insufficient funds"},
			wantText: "Insufficient funds",
		},
		{
			name:     "messageless rejection uses fallback",
			placeErr: &api.APIError{StatusCode: http.StatusInternalServerError},
			wantText: "Failed to place order.",
		},
		{
			name:     "transport error uses fallback",
			placeErr: errors.New("connection refused"),
			wantText: "Failed to place order.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newMockSource()
			src.placeFn = func(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error) {
				return nil, tt.placeErr
			}
			eng := New(src)

			res, err := eng.PlaceOrder(context.Background(), "p1", OrderForm{Side: "buy", Quantity: 1, Price: 120})

			require.NoError(t, err)
			assert.Nil(t, res.View)
			assert.Equal(t, MessageError, res.Message.Kind)
			assert.Equal(t, tt.wantText, res.Message.Text)
			// A rejected order must not trigger a refresh.
			assert.Zero(t, src.loads())
		})
	}
}

func TestPlaceOrderSuccessRefreshes(t *testing.T) {
	src := newMockSource()
	src.historyFn = func(ctx context.Context, playerID string) (*api.PriceSeries, error) {
		return &api.PriceSeries{CurrentPrice: 125}, nil
	}
	eng := New(src)

	form := OrderForm{Side: "sell", Quantity: 3, Price: 124}
	res, err := eng.PlaceOrder(context.Background(), "p1", form)

	require.NoError(t, err)
	require.Len(t, src.placeCalls, 1)
	assert.Equal(t, api.OrderRequest{PlayerID: "p1", Side: "sell", Price: 124, Quantity: 3}, src.placeCalls[0])

	assert.Equal(t, MessageSuccess, res.Message.Kind)
	assert.Equal(t, "Order placed successfully!", res.Message.Text)

	// The refreshed view reflects server state, and the form keeps the
	// chosen side with price re-seeded and quantity cleared.
	require.NotNil(t, res.View)
	assert.Equal(t, 125.0, res.View.CurrentPrice)
	assert.Equal(t, "sell", res.View.Form.Side)
	assert.Equal(t, 125.0, res.View.Form.Price)
	assert.Equal(t, 0, res.View.Form.Quantity)
	assert.Equal(t, 1, src.loads())
}

func TestPlaceOrderRefreshFailure(t *testing.T) {
	src := newMockSource()
	src.portfolioFn = func(ctx context.Context) (*api.Portfolio, error) {
		return nil, errors.New("boom")
	}
	eng := New(src)

	res, err := eng.PlaceOrder(context.Background(), "p1", OrderForm{Side: "buy", Quantity: 1, Price: 120})

	// The order went through even though the refresh did not.
	assert.Error(t, err)
	assert.Nil(t, res.View)
	assert.Equal(t, MessageSuccess, res.Message.Kind)
	require.Len(t, src.placeCalls, 1)
}

func TestCancelOrder(t *testing.T) {
	src := newMockSource()
	eng := New(src)

	res, err := eng.CancelOrder(context.Background(), "p1", 42)

	require.NoError(t, err)
	require.Len(t, src.cancelCalls, 1)
	assert.Equal(t, int64(42), src.cancelCalls[0])
	require.NotNil(t, res.View)
	assert.Equal(t, Message{}, res.Message)
}

func TestCancelOrderRejected(t *testing.T) {
	tests := []struct {
		name      string
		cancelErr error
		wantText  string
	}{
		{
			name:      "backend message surfaces",
			cancelErr: &api.APIError{StatusCode: http.StatusForbidden, Message: "Not your order"},
			wantText:  "Not your order",
		},
		{
			name:      "messageless rejection uses fallback",
			cancelErr: &api.APIError{StatusCode: http.StatusNotFound},
			wantText:  "Failed to cancel order.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newMockSource()
			src.cancelFn = func(ctx context.Context, orderID int64) error {
				return tt.cancelErr
			}
			eng := New(src)

			res, err := eng.CancelOrder(context.Background(), "p1", 42)

			require.NoError(t, err)
			assert.Nil(t, res.View)
			assert.Equal(t, MessageError, res.Message.Kind)
			assert.Equal(t, tt.wantText, res.Message.Text)
			assert.Zero(t, src.loads())
		})
	}
}

func TestPlaceOrderRoundTrip(t *testing.T) {
	src := newMockSource()
	var placed bool
	src.placeFn = func(ctx context.Context, req api.OrderRequest) (*api.PlaceOrderResponse, error) {
		src.mu.Lock()
		placed = true
		src.mu.Unlock()
		return &api.PlaceOrderResponse{Message: "Order placed", OrderID: 9}, nil
	}
	src.ordersFn = func(ctx context.Context) ([]api.OpenOrder, error) {
		src.mu.Lock()
		defer src.mu.Unlock()
		orders := []api.OpenOrder{
			{OrderID: 1, UserID: "u7", PlayerID: "p1", Side: "buy", Price: 118, Quantity: 2},
		}
		if placed {
			orders = append(orders, api.OpenOrder{OrderID: 9, UserID: "u7", PlayerID: "p1", Side: "buy", Price: 119, Quantity: 1})
		}
		return orders, nil
	}
	eng := New(src)

	res, err := eng.PlaceOrder(context.Background(), "p1", OrderForm{Side: "buy", Quantity: 1, Price: 119})

	require.NoError(t, err)
	require.NotNil(t, res.View)
	// The new resting order shows up only because the refresh re-read it.
	require.Len(t, res.View.OpenOrders, 2)
	assert.Equal(t, int64(9), res.View.OpenOrders[1].OrderID)
}
