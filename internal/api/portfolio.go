package api

import (
	"context"
	"fmt"
)

// GetPortfolio retrieves the authenticated user's portfolio snapshot.
func (c *Client) GetPortfolio(ctx context.Context) (*Portfolio, error) {
	var portfolio Portfolio
	if err := c.getJSON(ctx, "/api/portfolio", &portfolio); err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio: %w", err)
	}
	return &portfolio, nil
}

// GetPlayerLifetimeStats retrieves the user's cumulative cost and proceeds
// for one player.
func (c *Client) GetPlayerLifetimeStats(ctx context.Context, playerID string) (*LifetimeStats, error) {
	var stats LifetimeStats
	path := fmt.Sprintf("/api/portfolio/history/%s", playerID)
	if err := c.getJSON(ctx, path, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch lifetime stats: %w", err)
	}
	return &stats, nil
}

// GetLeaderboard retrieves the top users by portfolio value.
func (c *Client) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := c.getJSON(ctx, "/leaderboard/leaderboard", &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return entries, nil
}
