package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/athletitrade/att/internal/api"
)

// PositionStats are derived figures for the user's current position in the
// viewed player. Present only while a holding with quantity > 0 exists;
// a nil value means there is nothing to show.
type PositionStats struct {
	AvgCost       float64
	MarketValue   float64
	GainLoss      float64
	PercentChange float64
}

// LifetimeReturn is the user's all-time result for one player, counting the
// market value of anything still held. Nil unless the user has ever traded
// the player.
type LifetimeReturn struct {
	TotalReturn        float64
	TotalReturnPercent float64
}

// MessageKind classifies a transient user-visible message.
type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageError
)

// Message is a transient, auto-clearing notice produced by order actions.
// The zero value means "no message".
type Message struct {
	Text string
	Kind MessageKind
}

// Duration returns how long the message should stay visible.
func (m Message) Duration() time.Duration {
	if m.Kind == MessageError {
		return 5 * time.Second
	}
	return 3 * time.Second
}

// OrderForm is the order-entry state owned by the view model. It is seeded
// with the current price on every load and reset after a successful
// placement, preserving the last-chosen side.
type OrderForm struct {
	Side     string // "buy" or "sell"
	Quantity int
	Price    float64
}

// ViewModel aggregates everything the player detail view renders. It is
// replaced wholesale on every refresh; no partial field updates happen across
// asynchronous completions, so the five reads are never shown in a mixed
// combination.
type ViewModel struct {
	PlayerID  string
	IsLoading bool

	CurrentPrice float64
	History      []api.PricePoint
	Book         *api.OrderBook
	OpenOrders   []api.OpenOrder
	Portfolio    *api.Portfolio

	Position *PositionStats
	Lifetime *LifetimeReturn

	Form OrderForm
}

// NewViewModel returns the initial state for a detail-view session:
// loading, all data fields empty.
func NewViewModel(playerID string) *ViewModel {
	return &ViewModel{
		PlayerID:  playerID,
		IsLoading: true,
		Form:      OrderForm{Side: "buy"},
	}
}

// findHolding locates the holding for playerID, or nil.
func findHolding(p *api.Portfolio, playerID string) *api.Holding {
	if p == nil {
		return nil
	}
	for i := range p.Holdings {
		if p.Holdings[i].PlayerID == playerID {
			return &p.Holdings[i]
		}
	}
	return nil
}

// positionStats derives the current-position figures. A zero cost basis
// reports a percent change of 0 rather than dividing by zero.
func positionStats(p *api.Portfolio, playerID string, currentPrice float64) *PositionStats {
	holding := findHolding(p, playerID)
	if holding == nil || holding.Quantity <= 0 {
		return nil
	}

	marketValue := float64(holding.Quantity) * currentPrice
	costBasis := float64(holding.Quantity) * holding.AvgCost
	gainLoss := marketValue - costBasis

	percentChange := 0.0
	if costBasis > 0 {
		percentChange = gainLoss / costBasis * 100
	}

	return &PositionStats{
		AvgCost:       holding.AvgCost,
		MarketValue:   marketValue,
		GainLoss:      gainLoss,
		PercentChange: percentChange,
	}
}

// lifetimeReturn derives the all-time result: proceeds plus the market value
// of whatever is still held, minus total cost. Nil when the user never
// traded the player.
func lifetimeReturn(p *api.Portfolio, playerID string, currentPrice float64, stats *api.LifetimeStats) *LifetimeReturn {
	if stats == nil {
		return nil
	}
	if stats.TotalCost <= 0 && stats.TotalProceeds <= 0 {
		return nil
	}

	currentMarketValue := 0.0
	if holding := findHolding(p, playerID); holding != nil {
		currentMarketValue = float64(holding.Quantity) * currentPrice
	}

	totalReturn := stats.TotalProceeds + currentMarketValue - stats.TotalCost
	totalReturnPercent := 0.0
	if stats.TotalCost > 0 {
		totalReturnPercent = totalReturn / stats.TotalCost * 100
	}

	return &LifetimeReturn{
		TotalReturn:        totalReturn,
		TotalReturnPercent: totalReturnPercent,
	}
}

// BookLevel is one price level of the order book, ready for display.
type BookLevel struct {
	Price    decimal.Decimal
	Quantity int
}

// SortedBids returns the bid levels sorted by price descending. Levels with
// unparseable price keys are dropped at this boundary.
func SortedBids(book *api.OrderBook) []BookLevel {
	if book == nil {
		return nil
	}
	levels := parseLevels(book.Bids)
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price.GreaterThan(levels[j].Price)
	})
	return levels
}

// SortedAsks returns the ask levels sorted by price ascending.
func SortedAsks(book *api.OrderBook) []BookLevel {
	if book == nil {
		return nil
	}
	levels := parseLevels(book.Asks)
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price.LessThan(levels[j].Price)
	})
	return levels
}

func parseLevels(side map[string]int) []BookLevel {
	levels := make([]BookLevel, 0, len(side))
	for price, qty := range side {
		d, err := decimal.NewFromString(price)
		if err != nil {
			continue
		}
		levels = append(levels, BookLevel{Price: d, Quantity: qty})
	}
	return levels
}
