package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/engine"
)

func loadedView(playerID string) *engine.ViewModel {
	return &engine.ViewModel{
		PlayerID:     playerID,
		CurrentPrice: 120,
		Book: &api.OrderBook{
			Bids: map[string]int{"119.00": 3},
			Asks: map[string]int{"121.00": 2},
		},
		OpenOrders: []api.OpenOrder{
			{OrderID: 1, PlayerID: playerID, Side: "buy", Price: 118, Quantity: 2},
		},
		Portfolio: &api.Portfolio{},
		Position:  &engine.PositionStats{AvgCost: 100, MarketValue: 1200, GainLoss: 200, PercentChange: 20},
		Form:      engine.OrderForm{Side: "buy", Price: 120},
	}
}

func TestDetailLoaded(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")

	m, cmd := m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	assert.Nil(t, cmd)
	assert.Equal(t, DetailStateLoaded, m.State)
	assert.Equal(t, "buy", m.Side)
	assert.Equal(t, "120.00", m.PriceInput.Value())
	assert.Empty(t, m.QuantityInput.Value())
}

func TestDetailIgnoresStaleLoad(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	// Navigate to another player; the old player's late result must not
	// overwrite the view.
	m.Show("p2")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	assert.Equal(t, DetailStateLoading, m.State)
	assert.Equal(t, "p2", m.PlayerID)

	m, _ = m.Update(DetailErrorMsg{PlayerID: "p1", Err: assert.AnError}, nil)
	assert.Equal(t, DetailStateLoading, m.State)
}

func TestDetailOrderActionSuccess(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)
	m.Submitting = true

	refreshed := loadedView("p1")
	refreshed.CurrentPrice = 125
	refreshed.Form = engine.OrderForm{Side: "sell", Price: 125}

	m, cmd := m.Update(OrderActionMsg{
		PlayerID: "p1",
		Result: engine.Result{
			View:    refreshed,
			Message: engine.Message{Text: "Order placed successfully!", Kind: engine.MessageSuccess},
		},
	}, nil)

	assert.False(t, m.Submitting)
	assert.Equal(t, "Order placed successfully!", m.Message.Text)
	assert.Equal(t, "sell", m.Side)
	assert.Equal(t, "125.00", m.PriceInput.Value())
	// A clear timer was armed for the notice.
	require.NotNil(t, cmd)
}

func TestDetailOrderActionRejected(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)
	before := m.VM

	m, cmd := m.Update(OrderActionMsg{
		PlayerID: "p1",
		Result: engine.Result{
			Message: engine.Message{Text: "Insufficient funds", Kind: engine.MessageError},
		},
	}, nil)

	// The current view survives a rejection untouched.
	assert.Same(t, before, m.VM)
	assert.Equal(t, "Insufficient funds", m.Message.Text)
	assert.NotNil(t, cmd)
}

func TestDetailClearMessage(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	notice := engine.Message{Text: "Order placed successfully!", Kind: engine.MessageSuccess}
	m.Message = notice

	// A timer for some other notice fires late: nothing happens.
	m, _ = m.Update(ClearMessageMsg{Message: engine.Message{Text: "old", Kind: engine.MessageError}}, nil)
	assert.Equal(t, notice, m.Message)

	// The matching timer clears it.
	m, _ = m.Update(ClearMessageMsg{Message: notice}, nil)
	assert.Equal(t, engine.Message{}, m.Message)
}

func TestDetailSideToggle(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, nil)
	assert.Equal(t, "sell", m.Side)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, nil)
	assert.Equal(t, "buy", m.Side)
}

func TestDetailFormAssembly(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	m.QuantityInput.SetValue("5")
	m.PriceInput.SetValue("118.50")
	m.Side = "sell"

	form := m.form()
	assert.Equal(t, engine.OrderForm{Side: "sell", Quantity: 5, Price: 118.5}, form)

	// Garbage input degrades to zero values for the validator to reject.
	m.QuantityInput.SetValue("abc")
	assert.Equal(t, 0, m.form().Quantity)
}

func TestDetailFocusCycle(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	assert.Equal(t, focusQuantity, m.Focus)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}, nil)
	assert.Equal(t, focusPrice, m.Focus)

	// One open order exists, so tab reaches the orders list.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}, nil)
	assert.Equal(t, focusOrders, m.Focus)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}, nil)
	assert.Equal(t, focusQuantity, m.Focus)
}

func TestDetailViewRendersBookAndOrders(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	view := m.View()
	assert.Contains(t, view, "p1")
	assert.Contains(t, view, "$120.00")
	assert.Contains(t, view, "Order Book")
	assert.Contains(t, view, "119.00 x3")
	assert.Contains(t, view, "121.00 x2")
	assert.Contains(t, view, "Open Orders")
	assert.Contains(t, view, "Place Order")
}

func TestDetailShowSeedsLoadingView(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")

	require.NotNil(t, m.VM)
	assert.True(t, m.VM.IsLoading)
	assert.Equal(t, "p1", m.VM.PlayerID)
	assert.Equal(t, "buy", m.Side)
	assert.Contains(t, m.View(), "Loading p1")
}

func TestDetailViewRendersLoss(t *testing.T) {
	view := loadedView("p1")
	view.Position = &engine.PositionStats{AvgCost: 130, MarketValue: 1200, GainLoss: -100, PercentChange: -7.69}

	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: view}, nil)

	out := m.View()
	assert.Contains(t, out, "-$100.00")
	assert.Contains(t, out, "-7.69%")
}

func TestDetailHistoryToggle(t *testing.T) {
	view := loadedView("p1")
	view.History = []api.PricePoint{
		{Time: 1700000000, Price: 100},
		{Time: 1700003600, Price: 119},
	}

	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: view}, nil)
	assert.Contains(t, m.View(), "Order Book")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB}, nil)
	out := m.View()
	assert.Contains(t, out, "Price History")
	assert.Contains(t, out, "+$19.00 (+19.00%)")
	assert.Contains(t, out, "over 2 points")
	assert.Contains(t, out, "$119.00")
	assert.NotContains(t, out, "Order Book")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB}, nil)
	assert.Contains(t, m.View(), "Order Book")
}

func TestDetailHistoryEmpty(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB}, nil)
	assert.Contains(t, m.View(), "No trades yet")
}

func TestDetailRefreshKeepsTypedForm(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)

	// User is mid-order; a background refresh arrives with a new price.
	m.QuantityInput.SetValue("3")
	m.PriceInput.SetValue("118.50")

	refreshed := loadedView("p1")
	refreshed.CurrentPrice = 125
	refreshed.Form.Price = 125
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: refreshed}, nil)

	assert.Same(t, refreshed, m.VM)
	assert.Equal(t, "3", m.QuantityInput.Value())
	assert.Equal(t, "118.50", m.PriceInput.Value())
}

func TestDetailRefreshSyncsUntouchedForm(t *testing.T) {
	m := NewDetailModel()
	m.Show("p1")
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: loadedView("p1")}, nil)
	assert.Equal(t, "120.00", m.PriceInput.Value())

	refreshed := loadedView("p1")
	refreshed.Form.Price = 125
	m, _ = m.Update(DetailLoadedMsg{PlayerID: "p1", View: refreshed}, nil)

	assert.Equal(t, "125.00", m.PriceInput.Value())
}
