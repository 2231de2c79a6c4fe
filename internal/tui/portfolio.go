package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/output"
)

// PortfolioState represents the loading state of portfolio data.
type PortfolioState int

const (
	PortfolioStateLoading PortfolioState = iota
	PortfolioStateLoaded
	PortfolioStateError
)

// PortfolioModel holds the state for the portfolio view.
type PortfolioModel struct {
	State       PortfolioState
	Data        *api.Portfolio
	Err         error
	LastUpdated time.Time
	Table       table.Model
}

// NewPortfolioModel creates a new portfolio model.
func NewPortfolioModel() *PortfolioModel {
	cols := []table.Column{
		{Title: "Player", Width: 20},
		{Title: "Qty", Width: 8},
		{Title: "Avg Cost", Width: 12},
		{Title: "Mkt Value", Width: 12},
		{Title: "G/L", Width: 12},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	return &PortfolioModel{
		State: PortfolioStateLoading,
		Table: t,
	}
}

// SetHeight sets the table height.
func (m *PortfolioModel) SetHeight(height int) {
	m.Table.SetHeight(height)
}

// SelectedPlayer returns the player id on the table cursor, or "".
func (m *PortfolioModel) SelectedPlayer() string {
	row := m.Table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// Update handles messages for the portfolio view.
func (m *PortfolioModel) Update(msg tea.Msg) (*PortfolioModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case PortfolioLoadedMsg:
		m.State = PortfolioStateLoaded
		m.Data = msg.Portfolio
		m.LastUpdated = time.Now()
		m.Err = nil
		m.updateTable()

	case PortfolioErrorMsg:
		m.State = PortfolioStateError
		m.Err = msg.Err

	case tea.KeyMsg:
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m *PortfolioModel) updateTable() {
	rows := make([]table.Row, 0, len(m.Data.Holdings))
	for _, h := range m.Data.Holdings {
		costBasis := float64(h.Quantity) * h.AvgCost
		rows = append(rows, table.Row{
			h.PlayerID,
			strconv.Itoa(h.Quantity),
			output.Money(h.AvgCost),
			output.Money(h.MarketValue),
			output.SignedMoney(h.MarketValue - costBasis),
		})
	}
	m.Table.SetRows(rows)
}

// View renders the portfolio view.
func (m *PortfolioModel) View() string {
	var b strings.Builder

	switch m.State {
	case PortfolioStateLoading:
		b.WriteString("Loading portfolio...")
		return b.String()

	case PortfolioStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
		return b.String()

	case PortfolioStateLoaded:
		p := m.Data

		b.WriteString(SummaryStyle.Render("Account Summary"))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("Total Value: "))
		b.WriteString(ValueStyle.Render(output.Money(p.TotalValue)))
		b.WriteString("  ")
		b.WriteString(LabelStyle.Render("Cash: "))
		b.WriteString(ValueStyle.Render(output.Money(p.CashBalance)))
		b.WriteString("\n\n")

		if len(p.Holdings) == 0 {
			b.WriteString(LabelStyle.Render("No holdings"))
		} else {
			b.WriteString(SummaryStyle.Render("Holdings"))
			b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(p.Holdings))))
			b.WriteString("\n")
			b.WriteString(m.Table.View())
		}

		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Updated: %s", m.LastUpdated.Format("3:04:05 PM"))))
	}

	return b.String()
}

// FetchPortfolio returns a command that fetches the portfolio snapshot.
func FetchPortfolio(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		portfolio, err := client.GetPortfolio(ctx)
		if err != nil {
			return PortfolioErrorMsg{Err: err}
		}
		return PortfolioLoadedMsg{Portfolio: portfolio}
	}
}
