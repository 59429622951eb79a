package tui

import tea "github.com/charmbracelet/bubbletea"

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SceneLoadedMsg:
		return m.handleSceneLoaded(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
	case "r":
		m.Loaded = false
		return m, loadScene(m.load)
	}
	return m, nil
}

func (m Model) handleSceneLoaded(msg SceneLoadedMsg) (tea.Model, tea.Cmd) {
	m.Loaded = true
	m.Err = msg.Err
	if msg.Err != nil {
		m.Rows = nil
		m.Total = 0
		m.Cursor = 0
		return m, nil
	}
	m.Rows = Rows(msg.Scene)
	m.Total = msg.Scene.Timeline.TotalDuration()
	if m.Cursor >= len(m.Rows) {
		m.Cursor = max(len(m.Rows)-1, 0)
	}
	return m, nil
}
