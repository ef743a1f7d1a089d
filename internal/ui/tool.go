package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"debugdeck/internal/panel"
)

// Tool is the content hosted by one panel. Render draws the body at the size
// the panel gives it; Update receives keys while the panel is focused and
// every message that is not a key or mouse event.
type Tool interface {
	panel.Content
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
}

// Clicker is implemented by tools that react to presses inside their body.
// at is relative to the body's top-left cell.
type Clicker interface {
	Click(at panel.Point) tea.Cmd
}

// Capturer is implemented by tools with text input. While Capturing reports
// true, keys bypass the global keybinds.
type Capturer interface {
	Capturing() bool
}

// Closer is implemented by tools holding resources such as subscriptions or
// processes. Close runs when the panel closes.
type Closer interface {
	Close()
}

// Scroller is implemented by tools that handle the mouse wheel.
type Scroller interface {
	Scroll(lines int)
}
