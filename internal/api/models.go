package api

// Wire models for the AthletiTrade backend. Numeric fields that the backend
// may omit (e.g. current_price before the first trade) decode to their zero
// value, which callers treat as the documented default.

// Holding is one position in the user's portfolio.
type Holding struct {
	PlayerID    string  `json:"player_id"`
	Quantity    int     `json:"quantity"`
	AvgCost     float64 `json:"avg_cost"`
	MarketValue float64 `json:"market_value"`
}

// Portfolio is a snapshot of the user's account. Every read returns a fresh
// copy; nothing in the client mutates it between reads.
type Portfolio struct {
	Holdings    []Holding `json:"holdings"`
	CashBalance float64   `json:"cash_balance"`
	TotalValue  float64   `json:"total_value"`
}

// PricePoint is one sample in a player's price history.
type PricePoint struct {
	Time  int64   `json:"time"` // epoch seconds
	Price float64 `json:"price"`
}

// PriceSeries holds a player's current price and historical samples,
// time ascending.
type PriceSeries struct {
	CurrentPrice float64      `json:"current_price"`
	Prices       []PricePoint `json:"prices"`
}

// OrderBook aggregates outstanding interest by price level for one player.
// Keys are decimal-string price levels; the backend does not guarantee any
// ordering, so levels are sorted at render time only.
type OrderBook struct {
	Bids map[string]int `json:"bids"`
	Asks map[string]int `json:"asks"`
}

// OpenOrder is one of the user's resting orders, across all markets.
type OpenOrder struct {
	OrderID  int64   `json:"order_id"`
	UserID   string  `json:"user_id"`
	PlayerID string  `json:"player_id"`
	Side     string  `json:"side"` // "buy" or "sell"
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LifetimeStats holds cumulative cost and proceeds for one player across the
// user's full trading history, independent of current holdings.
type LifetimeStats struct {
	TotalCost     float64 `json:"total_cost"`
	TotalProceeds float64 `json:"total_proceeds"`
}

// OrderRequest is the payload for placing a limit order.
type OrderRequest struct {
	PlayerID string  `json:"player_id"`
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PlaceOrderResponse is the backend's acknowledgement of an accepted order.
// The engine never inspects fill information; consistency comes from
// re-reading server state.
type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// PlayersResponse lists all players with active markets.
type PlayersResponse struct {
	Players []string `json:"players"`
}

// LeaderboardEntry is one row of the leaderboard, sorted by total value.
type LeaderboardEntry struct {
	Username   string  `json:"username"`
	TotalValue float64 `json:"total_value"`
}
