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

// LeaderboardState represents the loading state of the leaderboard.
type LeaderboardState int

const (
	LeaderboardStateLoading LeaderboardState = iota
	LeaderboardStateLoaded
	LeaderboardStateError
)

// LeaderboardModel holds the state for the leaderboard view.
type LeaderboardModel struct {
	State       LeaderboardState
	Entries     []api.LeaderboardEntry
	Err         error
	LastUpdated time.Time
	Table       table.Model
}

// NewLeaderboardModel creates a new leaderboard model.
func NewLeaderboardModel() *LeaderboardModel {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "User", Width: 20},
		{Title: "Total Value", Width: 14},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	return &LeaderboardModel{
		State: LeaderboardStateLoading,
		Table: t,
	}
}

// SetHeight sets the table height.
func (m *LeaderboardModel) SetHeight(height int) {
	m.Table.SetHeight(height)
}

// Update handles messages for the leaderboard view.
func (m *LeaderboardModel) Update(msg tea.Msg) (*LeaderboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case LeaderboardLoadedMsg:
		m.State = LeaderboardStateLoaded
		m.Entries = msg.Entries
		m.LastUpdated = time.Now()
		m.Err = nil

		rows := make([]table.Row, 0, len(m.Entries))
		for i, e := range m.Entries {
			rows = append(rows, table.Row{
				strconv.Itoa(i + 1),
				e.Username,
				output.Money(e.TotalValue),
			})
		}
		m.Table.SetRows(rows)

	case LeaderboardErrorMsg:
		m.State = LeaderboardStateError
		m.Err = msg.Err
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

// View renders the leaderboard view.
func (m *LeaderboardModel) View() string {
	var b strings.Builder

	switch m.State {
	case LeaderboardStateLoading:
		b.WriteString("Loading leaderboard...")

	case LeaderboardStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")

	case LeaderboardStateLoaded:
		b.WriteString(SummaryStyle.Render("Leaderboard"))
		b.WriteString("\n")
		if len(m.Entries) == 0 {
			b.WriteString(LabelStyle.Render("No users yet"))
		} else {
			b.WriteString(m.Table.View())
		}
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Updated: %s", m.LastUpdated.Format("3:04:05 PM"))))
	}

	return b.String()
}

// FetchLeaderboard returns a command that fetches the leaderboard.
func FetchLeaderboard(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := client.GetLeaderboard(ctx)
		if err != nil {
			return LeaderboardErrorMsg{Err: err}
		}
		return LeaderboardLoadedMsg{Entries: entries}
	}
}
