package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/athletitrade/att/internal/engine"
)

// SearchModel holds the state for the player search view. Keystrokes feed
// the engine's search pipeline; the pipeline decides when a lookup actually
// happens and which response wins.
type SearchModel struct {
	Input   textinput.Model
	Results []string
	Err     error
	Cursor  int

	// Searching is true between a non-blank keystroke and the next pipeline
	// emission for it.
	Searching bool
}

// NewSearchModel creates a new search model.
func NewSearchModel() *SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search players"
	ti.CharLimit = 40
	ti.Width = 30
	ti.Focus()

	return &SearchModel{Input: ti}
}

// visible returns the list currently shown: live results, or the favorites
// when the input is blank.
func (m *SearchModel) visible(uiCfg *UIConfig) []string {
	if strings.TrimSpace(m.Input.Value()) == "" && len(m.Results) == 0 {
		return uiCfg.Favorites
	}
	return m.Results
}

// SelectedPlayer returns the player id under the cursor, or "".
func (m *SearchModel) SelectedPlayer(uiCfg *UIConfig) string {
	list := m.visible(uiCfg)
	if m.Cursor < 0 || m.Cursor >= len(list) {
		return ""
	}
	return list[m.Cursor]
}

// Update handles messages for the search view.
func (m *SearchModel) Update(msg tea.Msg, searcher *engine.Searcher, uiCfg *UIConfig) (*SearchModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case SearchUpdateMsg:
		m.Searching = false
		m.Results = msg.Results
		m.Err = msg.Err
		if m.Cursor >= len(m.Results) {
			m.Cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
			return m, nil

		case "down":
			if m.Cursor < len(m.visible(uiCfg))-1 {
				m.Cursor++
			}
			return m, nil

		case "enter":
			playerID := m.SelectedPlayer(uiCfg)
			if playerID == "" {
				return m, nil
			}
			// Selection resets the pipeline so nothing in flight can
			// repopulate the list afterwards.
			searcher.Reset()
			m.Input.SetValue("")
			m.Results = nil
			m.Cursor = 0
			m.Searching = false
			return m, func() tea.Msg {
				return PlayerSelectedMsg{PlayerID: playerID}
			}

		case "ctrl+f":
			playerID := m.SelectedPlayer(uiCfg)
			if playerID == "" {
				return m, nil
			}
			if !uiCfg.AddFavorite(playerID) {
				uiCfg.RemoveFavorite(playerID)
			}
			_ = SaveConfig(uiCfg)
			return m, nil
		}

		// Every other key is typing: update the input and feed the
		// pipeline the new text.
		before := m.Input.Value()
		m.Input, cmd = m.Input.Update(msg)
		after := m.Input.Value()
		if after != before {
			searcher.Input(after)
			m.Searching = strings.TrimSpace(after) != ""
			m.Cursor = 0
		}
		return m, cmd
	}

	return m, cmd
}

// View renders the search view.
func (m *SearchModel) View(uiCfg *UIConfig) string {
	var b strings.Builder

	b.WriteString(SummaryStyle.Render("Find Players"))
	b.WriteString("\n\n")
	b.WriteString(InputStyle.Render(m.Input.View()))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Search failed: %v", m.Err)))
		b.WriteString("\n")
		return b.String()
	}

	if m.Searching {
		b.WriteString(LabelStyle.Render("Searching..."))
		b.WriteString("\n")
		return b.String()
	}

	list := m.visible(uiCfg)
	if len(list) == 0 {
		if strings.TrimSpace(m.Input.Value()) != "" {
			b.WriteString(LabelStyle.Render("No players found"))
		} else {
			b.WriteString(LabelStyle.Render("Type to search. ctrl+f pins a favorite."))
		}
		b.WriteString("\n")
		return b.String()
	}

	if len(m.Results) == 0 {
		b.WriteString(LabelStyle.Render("Favorites"))
		b.WriteString("\n")
	}
	for i, id := range list {
		cursor := "  "
		if i == m.Cursor {
			cursor = KeyStyle.Render("> ")
		}
		b.WriteString(cursor + id + "\n")
	}

	return b.String()
}

// WaitForSearch returns a command that blocks for the next pipeline
// emission. The main model re-arms it after every SearchUpdateMsg.
func WaitForSearch(searcher *engine.Searcher) tea.Cmd {
	return func() tea.Msg {
		return SearchUpdateMsg(<-searcher.Updates())
	}
}
