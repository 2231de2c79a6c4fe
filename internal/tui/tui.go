// Package tui is the interactive terminal front end: portfolio, player
// search, the player detail view with order entry, and the leaderboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/athletitrade/att/internal/api"
	"github.com/athletitrade/att/internal/config"
	"github.com/athletitrade/att/internal/engine"
	"github.com/athletitrade/att/internal/keyring"
)

// View represents the current active view in the TUI.
type View int

const (
	ViewPortfolio View = iota
	ViewSearch
	ViewDetail
	ViewLeaderboard
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	currentView View
	width       int
	height      int
	ready       bool

	cfg    *config.Config
	uiCfg  *UIConfig
	client *api.Client
	eng    *engine.Engine

	searcher *engine.Searcher

	portfolio   *PortfolioModel
	search      *SearchModel
	detail      *DetailModel
	leaderboard *LeaderboardModel

	refreshInterval time.Duration
}

// New creates a new TUI model on top of an authenticated API client.
func New(cfg *config.Config, uiCfg *UIConfig, client *api.Client) Model {
	return Model{
		currentView:     ViewPortfolio,
		cfg:             cfg,
		uiCfg:           uiCfg,
		client:          client,
		eng:             engine.New(client),
		searcher:        engine.NewSearcher(client.SearchPlayers),
		portfolio:       NewPortfolioModel(),
		search:          NewSearchModel(),
		detail:          NewDetailModel(),
		leaderboard:     NewLeaderboardModel(),
		refreshInterval: 30 * time.Second,
	}
}

// Run builds the client from stored credentials and runs the TUI until quit.
func Run(cfg *config.Config, uiCfg *UIConfig, store keyring.Store) error {
	client, err := newClient(cfg, store)
	if err != nil {
		return err
	}

	p := tea.NewProgram(New(cfg, uiCfg, client), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		FetchPortfolio(m.client),
		WaitForSearch(m.searcher),
		m.tickCmd(),
	)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Text-entry views consume printable keys, so only ctrl-keys and
		// keys they ignore are global there.
		switch msg.String() {
		case "ctrl+c":
			m.searcher.Close()
			return m, tea.Quit
		case "q":
			if m.currentView != ViewSearch && m.currentView != ViewDetail {
				m.searcher.Close()
				return m, tea.Quit
			}
		case "1", "2", "3", "4":
			if m.currentView != ViewSearch && m.currentView != ViewDetail {
				return m.switchView(msg.String())
			}
		case "ctrl+p":
			m.currentView = ViewPortfolio
			return m, nil
		case "ctrl+n":
			m.currentView = ViewSearch
			return m, nil
		case "ctrl+l":
			m.currentView = ViewLeaderboard
			cmds = append(cmds, FetchLeaderboard(m.client))
			return m, tea.Batch(cmds...)
		case "esc":
			if m.currentView == ViewDetail {
				m.currentView = ViewSearch
				return m, nil
			}
			return m, nil
		case "r":
			if m.currentView == ViewPortfolio {
				m.portfolio.State = PortfolioStateLoading
				return m, FetchPortfolio(m.client)
			}
			if m.currentView == ViewLeaderboard {
				m.leaderboard.State = LeaderboardStateLoading
				return m, FetchLeaderboard(m.client)
			}
			if m.currentView == ViewDetail && m.detail.State == DetailStateError {
				m.detail.Show(m.detail.PlayerID)
				return m, LoadDetail(m.eng, m.detail.PlayerID)
			}
		case "enter":
			if m.currentView == ViewPortfolio {
				if playerID := m.portfolio.SelectedPlayer(); playerID != "" {
					m.detail.Show(playerID)
					m.currentView = ViewDetail
					return m, LoadDetail(m.eng, playerID)
				}
				return m, nil
			}
		}

		// Route remaining keys to the active view.
		switch m.currentView {
		case ViewPortfolio:
			m.portfolio, cmd = m.portfolio.Update(msg)
		case ViewSearch:
			m.search, cmd = m.search.Update(msg, m.searcher, m.uiCfg)
		case ViewDetail:
			m.detail, cmd = m.detail.Update(msg, m.eng)
		case ViewLeaderboard:
			m.leaderboard, cmd = m.leaderboard.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		tableHeight := m.height - 11
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.portfolio.SetHeight(tableHeight)
		m.leaderboard.SetHeight(tableHeight)

	case PortfolioLoadedMsg, PortfolioErrorMsg:
		m.portfolio, cmd = m.portfolio.Update(msg)
		cmds = append(cmds, cmd)

	case SearchUpdateMsg:
		m.search, cmd = m.search.Update(msg, m.searcher, m.uiCfg)
		cmds = append(cmds, cmd, WaitForSearch(m.searcher))

	case PlayerSelectedMsg:
		m.detail.Show(msg.PlayerID)
		m.currentView = ViewDetail
		cmds = append(cmds, LoadDetail(m.eng, msg.PlayerID))

	case DetailLoadedMsg, DetailErrorMsg, OrderActionMsg, ClearMessageMsg:
		m.detail, cmd = m.detail.Update(msg, m.eng)
		cmds = append(cmds, cmd)

	case LeaderboardLoadedMsg, LeaderboardErrorMsg:
		m.leaderboard, cmd = m.leaderboard.Update(msg)
		cmds = append(cmds, cmd)

	case TickMsg:
		if m.currentView == ViewPortfolio && m.portfolio.State != PortfolioStateLoading {
			cmds = append(cmds, FetchPortfolio(m.client))
		}
		if m.currentView == ViewDetail && m.detail.State == DetailStateLoaded && !m.detail.Submitting {
			cmds = append(cmds, LoadDetail(m.eng, m.detail.PlayerID))
		}
		cmds = append(cmds, m.tickCmd())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) switchView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "1":
		m.currentView = ViewPortfolio
	case "2":
		m.currentView = ViewSearch
	case "3":
		m.currentView = ViewDetail
	case "4":
		m.currentView = ViewLeaderboard
		return m, FetchLeaderboard(m.client)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	content := m.renderContent()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, "")
	}
	if len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}
	content = strings.Join(contentLines, "\n")

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("att")

	tabs := []struct {
		name   string
		key    string
		active bool
	}{
		{"Portfolio", "^p", m.currentView == ViewPortfolio},
		{"Search", "^n", m.currentView == ViewSearch},
		{"Player", "esc", m.currentView == ViewDetail},
		{"Leaderboard", "^l", m.currentView == ViewLeaderboard},
	}

	var tabStrs []string
	for _, tab := range tabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if tab.active {
			style = style.Bold(true).Foreground(ColorPrimary)
		} else {
			style = style.Foreground(ColorMuted)
		}
		tabStrs = append(tabStrs, style.Render(fmt.Sprintf("[%s] %s", tab.key, tab.name)))
	}

	headerContent := title + "  " + strings.Join(tabStrs, " ")

	padding := m.width - lipgloss.Width(headerContent)
	if padding > 0 {
		headerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(headerContent)
}

func (m Model) renderContent() string {
	var content string
	switch m.currentView {
	case ViewPortfolio:
		content = m.portfolio.View()
	case ViewSearch:
		content = m.search.View(m.uiCfg)
	case ViewDetail:
		content = m.detail.View()
	case ViewLeaderboard:
		content = m.leaderboard.View()
	}
	return ContentStyle.Render(content)
}

func (m Model) renderFooter() string {
	keys := []struct {
		key  string
		desc string
	}{}

	switch m.currentView {
	case ViewPortfolio:
		keys = append(keys,
			struct{ key, desc string }{"↑/↓", "navigate"},
			struct{ key, desc string }{"enter", "open player"},
			struct{ key, desc string }{"r", "refresh"},
			struct{ key, desc string }{"q", "quit"},
		)
	case ViewSearch:
		keys = append(keys,
			struct{ key, desc string }{"↑/↓", "navigate"},
			struct{ key, desc string }{"enter", "open player"},
			struct{ key, desc string }{"ctrl+f", "favorite"},
			struct{ key, desc string }{"ctrl+c", "quit"},
		)
	case ViewDetail:
		keys = append(keys,
			struct{ key, desc string }{"tab", "next field"},
			struct{ key, desc string }{"ctrl+s", "side"},
			struct{ key, desc string }{"ctrl+b", "book/history"},
			struct{ key, desc string }{"enter", "submit/cancel"},
			struct{ key, desc string }{"esc", "back"},
		)
	case ViewLeaderboard:
		keys = append(keys,
			struct{ key, desc string }{"r", "refresh"},
			struct{ key, desc string }{"q", "quit"},
		)
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}

	footerContent := strings.Join(parts, "  •  ")

	padding := m.width - lipgloss.Width(footerContent)
	if padding > 0 {
		footerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(footerContent)
}
