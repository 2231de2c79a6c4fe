package tui

import (
	"time"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/engine"
)

// Message types for async operations

// PortfolioLoadedMsg is sent when the portfolio snapshot is loaded.
type PortfolioLoadedMsg struct {
	Portfolio *api.Portfolio
}

// PortfolioErrorMsg is sent when portfolio loading fails.
type PortfolioErrorMsg struct {
	Err error
}

// DetailLoadedMsg is sent when the joined player view is loaded. PlayerID
// lets the receiver drop results for a player it is no longer showing.
type DetailLoadedMsg struct {
	PlayerID string
	View     *engine.ViewModel
}

// DetailErrorMsg is sent when loading the player view fails.
type DetailErrorMsg struct {
	PlayerID string
	Err      error
}

// OrderActionMsg is sent when an order placement or cancellation completes,
// successfully or not. Err is the refresh-after-success failure, if any.
type OrderActionMsg struct {
	PlayerID string
	Result   engine.Result
	Err      error
}

// SearchUpdateMsg wraps one emission from the search pipeline.
type SearchUpdateMsg engine.SearchUpdate

// PlayerSelectedMsg is sent when a search result or holding is chosen.
type PlayerSelectedMsg struct {
	PlayerID string
}

// ClearMessageMsg is sent when a transient notice's display time elapses.
type ClearMessageMsg struct {
	Message engine.Message
}

// LeaderboardLoadedMsg is sent when the leaderboard is loaded.
type LeaderboardLoadedMsg struct {
	Entries []api.LeaderboardEntry
}

// LeaderboardErrorMsg is sent when leaderboard loading fails.
type LeaderboardErrorMsg struct {
	Err error
}

// TickMsg is sent periodically for auto-refresh.
type TickMsg time.Time
