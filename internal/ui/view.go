package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a modal shown above every panel. It implements Bubble Tea's
// Init/Update/View and receives keys before anything else while on top.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
