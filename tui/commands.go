package tui

import tea "github.com/charmbracelet/bubbletea"

// loadScene runs the loader off the UI goroutine
func loadScene(load Loader) tea.Cmd {
	return func() tea.Msg {
		scene, err := load()
		return SceneLoadedMsg{Scene: scene, Err: err}
	}
}
