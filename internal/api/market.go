package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GetPlayerHistory retrieves the price history and current price for a player.
func (c *Client) GetPlayerHistory(ctx context.Context, playerID string) (*PriceSeries, error) {
	var series PriceSeries
	path := fmt.Sprintf("/market/history/%s", playerID)
	if err := c.getJSON(ctx, path, &series); err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	return &series, nil
}

// GetPlayerOrderBook retrieves the live order book for a player.
func (c *Client) GetPlayerOrderBook(ctx context.Context, playerID string) (*OrderBook, error) {
	var book OrderBook
	path := fmt.Sprintf("/market/orderbooks/%s", playerID)
	if err := c.getJSON(ctx, path, &book); err != nil {
		return nil, fmt.Errorf("failed to fetch order book: %w", err)
	}
	return &book, nil
}

// GetAllPlayers lists all players with active markets.
func (c *Client) GetAllPlayers(ctx context.Context) ([]string, error) {
	var players PlayersResponse
	if err := c.getJSON(ctx, "/market/players", &players); err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	return players.Players, nil
}

// SearchPlayers looks up players by partial name. Empty or whitespace-only
// terms resolve to an empty result list without a network call.
func (c *Client) SearchPlayers(ctx context.Context, term string) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return []string{}, nil
	}

	resp, err := c.GetWithParams(ctx, "/market/players/search", map[string]string{"q": term})
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return nil, err
	}

	var results []string
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return results, nil
}
