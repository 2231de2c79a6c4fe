package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/athletitrade/att/internal/engine"
	"github.com/athletitrade/att/internal/output"
)

// DetailState represents the loading state of the player detail view.
type DetailState int

const (
	DetailStateEmpty DetailState = iota
	DetailStateLoading
	DetailStateLoaded
	DetailStateError
)

// detailFocus identifies which control the cursor is on.
type detailFocus int

const (
	focusQuantity detailFocus = iota
	focusPrice
	focusOrders
)

// DetailModel holds the state for the player detail view: the joined view
// model, the order-entry form, and the transient notice.
type DetailModel struct {
	State    DetailState
	PlayerID string
	VM       *engine.ViewModel
	Err      error

	Message engine.Message

	Side          string
	QuantityInput textinput.Model
	PriceInput    textinput.Model
	Focus         detailFocus
	OrderCursor   int
	Submitting    bool
	ShowHistory   bool

	// Values syncForm last wrote, to tell user edits from stale seeds.
	syncedQty   string
	syncedPrice string
}

// NewDetailModel creates an empty detail model.
func NewDetailModel() *DetailModel {
	qty := textinput.New()
	qty.Placeholder = "qty"
	qty.CharLimit = 6
	qty.Width = 8

	price := textinput.New()
	price.Placeholder = "price"
	price.CharLimit = 10
	price.Width = 10

	m := &DetailModel{
		State:         DetailStateEmpty,
		Side:          "buy",
		QuantityInput: qty,
		PriceInput:    price,
	}
	m.setFocus(focusQuantity)
	return m
}

// Show switches the view to a player and marks it loading. The caller issues
// the matching LoadDetail command.
func (m *DetailModel) Show(playerID string) {
	m.State = DetailStateLoading
	m.PlayerID = playerID
	m.VM = engine.NewViewModel(playerID)
	m.Err = nil
	m.Message = engine.Message{}
	m.OrderCursor = 0
	m.Submitting = false
	m.Side = m.VM.Form.Side
}

func (m *DetailModel) setFocus(f detailFocus) {
	m.Focus = f
	m.QuantityInput.Blur()
	m.PriceInput.Blur()
	switch f {
	case focusQuantity:
		m.QuantityInput.Focus()
	case focusPrice:
		m.PriceInput.Focus()
	}
}

// syncForm seeds the inputs from a freshly published view model.
func (m *DetailModel) syncForm(vm *engine.ViewModel) {
	m.Side = vm.Form.Side
	if vm.Form.Quantity > 0 {
		m.QuantityInput.SetValue(strconv.Itoa(vm.Form.Quantity))
	} else {
		m.QuantityInput.SetValue("")
	}
	if vm.Form.Price > 0 {
		m.PriceInput.SetValue(fmt.Sprintf("%.2f", vm.Form.Price))
	} else {
		m.PriceInput.SetValue("")
	}
	if m.OrderCursor >= len(vm.OpenOrders) {
		m.OrderCursor = 0
	}
	m.syncedQty = m.QuantityInput.Value()
	m.syncedPrice = m.PriceInput.Value()
}

// formEdited reports whether either input holds text the user typed since
// the last sync.
func (m *DetailModel) formEdited() bool {
	return m.QuantityInput.Value() != m.syncedQty || m.PriceInput.Value() != m.syncedPrice
}

// form assembles the order form from the current inputs. Unparseable
// numbers become zero values and fail validation downstream.
func (m *DetailModel) form() engine.OrderForm {
	qty, _ := strconv.Atoi(strings.TrimSpace(m.QuantityInput.Value()))
	price, _ := strconv.ParseFloat(strings.TrimSpace(m.PriceInput.Value()), 64)
	return engine.OrderForm{Side: m.Side, Quantity: qty, Price: price}
}

// Update handles messages for the detail view.
func (m *DetailModel) Update(msg tea.Msg, eng *engine.Engine) (*DetailModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case DetailLoadedMsg:
		// Results for a player we already navigated away from are stale.
		if msg.PlayerID != m.PlayerID {
			return m, nil
		}
		refresh := m.State == DetailStateLoaded
		m.State = DetailStateLoaded
		m.VM = msg.View
		m.Err = nil
		if refresh && m.formEdited() {
			// A background refresh must not clobber an order the user is
			// mid-typing. Only clamp the cursor to the new order list.
			if m.OrderCursor >= len(msg.View.OpenOrders) {
				m.OrderCursor = 0
			}
		} else {
			m.syncForm(msg.View)
		}
		return m, nil

	case DetailErrorMsg:
		if msg.PlayerID != m.PlayerID {
			return m, nil
		}
		m.State = DetailStateError
		m.Err = msg.Err
		return m, nil

	case OrderActionMsg:
		if msg.PlayerID != m.PlayerID {
			return m, nil
		}
		m.Submitting = false
		if msg.Result.View != nil {
			m.State = DetailStateLoaded
			m.VM = msg.Result.View
			m.syncForm(msg.Result.View)
		}
		if msg.Err != nil && msg.Result.View == nil {
			// The action went through but the refresh did not.
			m.State = DetailStateError
			m.Err = msg.Err
		}
		if msg.Result.Message != (engine.Message{}) {
			m.Message = msg.Result.Message
			return m, clearMessageCmd(msg.Result.Message)
		}
		return m, nil

	case ClearMessageMsg:
		// Only clear the notice the timer was armed for; a newer one owns
		// the slot now.
		if msg.Message == m.Message {
			m.Message = engine.Message{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg, eng)
	}

	return m, cmd
}

func (m *DetailModel) updateKeys(msg tea.KeyMsg, eng *engine.Engine) (*DetailModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "tab":
		switch m.Focus {
		case focusQuantity:
			m.setFocus(focusPrice)
		case focusPrice:
			if m.VM != nil && len(m.VM.OpenOrders) > 0 {
				m.setFocus(focusOrders)
			} else {
				m.setFocus(focusQuantity)
			}
		case focusOrders:
			m.setFocus(focusQuantity)
		}
		return m, nil

	case "shift+tab":
		switch m.Focus {
		case focusQuantity:
			if m.VM != nil && len(m.VM.OpenOrders) > 0 {
				m.setFocus(focusOrders)
			} else {
				m.setFocus(focusPrice)
			}
		case focusPrice:
			m.setFocus(focusQuantity)
		case focusOrders:
			m.setFocus(focusPrice)
		}
		return m, nil

	case "ctrl+b":
		m.ShowHistory = !m.ShowHistory
		return m, nil

	case "ctrl+s":
		if m.Side == "buy" {
			m.Side = "sell"
		} else {
			m.Side = "buy"
		}
		return m, nil

	case "up", "down":
		if m.Focus == focusOrders && m.VM != nil {
			if msg.String() == "up" && m.OrderCursor > 0 {
				m.OrderCursor--
			}
			if msg.String() == "down" && m.OrderCursor < len(m.VM.OpenOrders)-1 {
				m.OrderCursor++
			}
			return m, nil
		}

	case "enter":
		if m.State != DetailStateLoaded || m.Submitting {
			return m, nil
		}
		if m.Focus == focusOrders {
			if m.VM != nil && m.OrderCursor < len(m.VM.OpenOrders) {
				m.Submitting = true
				orderID := m.VM.OpenOrders[m.OrderCursor].OrderID
				return m, SubmitCancel(eng, m.PlayerID, orderID)
			}
			return m, nil
		}
		m.Submitting = true
		return m, SubmitOrder(eng, m.PlayerID, m.form())
	}

	// Route typing to the focused input.
	switch m.Focus {
	case focusQuantity:
		m.QuantityInput, cmd = m.QuantityInput.Update(msg)
	case focusPrice:
		m.PriceInput, cmd = m.PriceInput.Update(msg)
	}
	return m, cmd
}

// View renders the detail view.
func (m *DetailModel) View() string {
	var b strings.Builder

	switch m.State {
	case DetailStateEmpty:
		b.WriteString(LabelStyle.Render("No player selected. Use the search view to pick one."))
		return b.String()

	case DetailStateLoading:
		b.WriteString(fmt.Sprintf("Loading %s...", m.PlayerID))
		return b.String()

	case DetailStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
		return b.String()
	}

	vm := m.VM

	b.WriteString(SummaryStyle.Render(vm.PlayerID))
	b.WriteString("  ")
	b.WriteString(ValueStyle.Render(output.Money(vm.CurrentPrice)))
	b.WriteString("\n\n")

	m.renderPosition(&b, vm)
	if m.ShowHistory {
		m.renderHistory(&b, vm)
	} else {
		m.renderBook(&b, vm)
	}
	m.renderOrders(&b, vm)
	m.renderForm(&b)

	if m.Message != (engine.Message{}) {
		b.WriteString("\n")
		if m.Message.Kind == engine.MessageError {
			b.WriteString(ErrorStyle.Render(m.Message.Text))
		} else {
			b.WriteString(SuccessStyle.Render(m.Message.Text))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *DetailModel) renderPosition(b *strings.Builder, vm *engine.ViewModel) {
	if vm.Position != nil {
		pos := vm.Position
		b.WriteString(LabelStyle.Render("Avg Cost: "))
		b.WriteString(ValueStyle.Render(output.Money(pos.AvgCost)))
		b.WriteString("  ")
		b.WriteString(LabelStyle.Render("Mkt Value: "))
		b.WriteString(ValueStyle.Render(output.Money(pos.MarketValue)))
		b.WriteString("  ")
		b.WriteString(LabelStyle.Render("G/L: "))
		b.WriteString(gainLossStyle(pos.GainLoss).Render(
			output.SignedMoney(pos.GainLoss) + " (" + output.Percent(pos.PercentChange) + ")"))
		b.WriteString("\n")
	}

	if vm.Lifetime != nil {
		lt := vm.Lifetime
		b.WriteString(LabelStyle.Render("Lifetime: "))
		b.WriteString(gainLossStyle(lt.TotalReturn).Render(
			output.SignedMoney(lt.TotalReturn) + " (" + output.Percent(lt.TotalReturnPercent) + ")"))
		b.WriteString("\n")
	}

	if vm.Position != nil || vm.Lifetime != nil {
		b.WriteString("\n")
	}
}

func (m *DetailModel) renderBook(b *strings.Builder, vm *engine.ViewModel) {
	bids := engine.SortedBids(vm.Book)
	asks := engine.SortedAsks(vm.Book)
	if len(bids) == 0 && len(asks) == 0 {
		return
	}

	const depth = 5
	b.WriteString(SummaryStyle.Render("Order Book"))
	b.WriteString(LabelStyle.Render("  (ctrl+b for history)"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("  Bids            Asks"))
	b.WriteString("\n")
	for i := 0; i < depth && (i < len(bids) || i < len(asks)); i++ {
		bid, ask := "", ""
		if i < len(bids) {
			bid = fmt.Sprintf("%s x%d", bids[i].Price.StringFixed(2), bids[i].Quantity)
		}
		if i < len(asks) {
			ask = fmt.Sprintf("%s x%d", asks[i].Price.StringFixed(2), asks[i].Quantity)
		}
		b.WriteString(fmt.Sprintf("  %-15s %s\n", GreenStyle.Render(bid), RedStyle.Render(ask)))
	}
	b.WriteString("\n")
}

func (m *DetailModel) renderHistory(b *strings.Builder, vm *engine.ViewModel) {
	b.WriteString(SummaryStyle.Render("Price History"))
	b.WriteString(LabelStyle.Render("  (ctrl+b for book)"))
	b.WriteString("\n")

	if len(vm.History) == 0 {
		b.WriteString(LabelStyle.Render("  No trades yet"))
		b.WriteString("\n\n")
		return
	}

	first := vm.History[0].Price
	last := vm.History[len(vm.History)-1].Price
	change := last - first
	percent := 0.0
	if first != 0 {
		percent = change / first * 100
	}
	b.WriteString(LabelStyle.Render("  Change: "))
	b.WriteString(gainLossStyle(change).Render(
		output.SignedMoney(change) + " (" + output.Percent(percent) + ")"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf("  over %d points", len(vm.History))))
	b.WriteString("\n")

	const recent = 10
	start := len(vm.History) - recent
	if start < 0 {
		start = 0
	}
	// Newest first.
	for i := len(vm.History) - 1; i >= start; i-- {
		p := vm.History[i]
		ts := time.Unix(p.Time, 0).Format("Jan 02 15:04")
		b.WriteString(fmt.Sprintf("  %s  %s\n", LabelStyle.Render(ts), ValueStyle.Render(output.Money(p.Price))))
	}
	b.WriteString("\n")
}

func (m *DetailModel) renderOrders(b *strings.Builder, vm *engine.ViewModel) {
	if len(vm.OpenOrders) == 0 {
		return
	}

	b.WriteString(SummaryStyle.Render("Open Orders"))
	if m.Focus == focusOrders {
		b.WriteString(LabelStyle.Render("  (enter to cancel)"))
	}
	b.WriteString("\n")
	for i, o := range vm.OpenOrders {
		cursor := "  "
		if m.Focus == focusOrders && i == m.OrderCursor {
			cursor = KeyStyle.Render("> ")
		}
		line := fmt.Sprintf("#%d %s %d @ %s", o.OrderID, o.Side, o.Quantity, output.Money(o.Price))
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n")
}

func (m *DetailModel) renderForm(b *strings.Builder) {
	b.WriteString(SummaryStyle.Render("Place Order"))
	b.WriteString("\n")

	sideStyle := GreenStyle
	if m.Side == "sell" {
		sideStyle = RedStyle
	}
	b.WriteString(LabelStyle.Render("Side: "))
	b.WriteString(sideStyle.Render(strings.ToUpper(m.Side)))
	b.WriteString(LabelStyle.Render(" (ctrl+s to toggle)"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Qty: "))
	b.WriteString(m.QuantityInput.View())
	b.WriteString(LabelStyle.Render("  Price: "))
	b.WriteString(m.PriceInput.View())
	b.WriteString("\n")

	if m.Submitting {
		b.WriteString(LabelStyle.Render("Submitting..."))
		b.WriteString("\n")
	}
}

func gainLossStyle(v float64) lipgloss.Style {
	if v < 0 {
		return RedStyle
	}
	return GreenStyle
}

// LoadDetail returns a command that runs the joined load for a player.
func LoadDetail(eng *engine.Engine, playerID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		vm, err := eng.Load(ctx, playerID)
		if err != nil {
			return DetailErrorMsg{PlayerID: playerID, Err: err}
		}
		return DetailLoadedMsg{PlayerID: playerID, View: vm}
	}
}

// SubmitOrder returns a command that places an order and reports the result.
func SubmitOrder(eng *engine.Engine, playerID string, form engine.OrderForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := eng.PlaceOrder(ctx, playerID, form)
		return OrderActionMsg{PlayerID: playerID, Result: result, Err: err}
	}
}

// SubmitCancel returns a command that cancels an order and reports the result.
func SubmitCancel(eng *engine.Engine, playerID string, orderID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := eng.CancelOrder(ctx, playerID, orderID)
		return OrderActionMsg{PlayerID: playerID, Result: result, Err: err}
	}
}

// clearMessageCmd arms the auto-clear timer for a transient notice.
func clearMessageCmd(msg engine.Message) tea.Cmd {
	return tea.Tick(msg.Duration(), func(time.Time) tea.Msg {
		return ClearMessageMsg{Message: msg}
	})
}
