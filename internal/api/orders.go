package api

import (
	"context"
	"fmt"
)

// GetOpenOrders retrieves all of the user's resting orders, across every
// market. Callers filter by player where needed.
func (c *Client) GetOpenOrders(ctx context.Context) ([]OpenOrder, error) {
	var orders []OpenOrder
	if err := c.getJSON(ctx, "/api/orders", &orders); err != nil {
		return nil, fmt.Errorf("failed to fetch open orders: %w", err)
	}
	return orders, nil
}

// PlaceOrder submits a limit order. The backend validates buying power and
// available shares; rejections come back as an *APIError with the backend's
// explanation.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*PlaceOrderResponse, error) {
	var placed PlaceOrderResponse
	if err := c.postJSON(ctx, "/api/orders", req, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

// CancelOrder cancels one of the user's open orders by id.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	resp, err := c.Delete(ctx, fmt.Sprintf("/api/orders/%d", orderID))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return CheckResponse(resp)
}
