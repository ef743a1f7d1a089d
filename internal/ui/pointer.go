package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"debugdeck/internal/panel"
)

// PointerFromMouse translates a Bubble Tea mouse message into a panel
// pointer event. Only the left button starts interactions; motion and
// release are forwarded whatever the button so an active drag can follow
// the pointer. Wheel and other buttons report false.
func PointerFromMouse(msg tea.MouseMsg) (panel.PointerEvent, bool) {
	ev := panel.PointerEvent{
		Source: panel.SourceMouse,
		Points: []panel.Point{{X: msg.X, Y: msg.Y}},
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return panel.PointerEvent{}, false
		}
		ev.Kind = panel.PointerDown
	case tea.MouseActionMotion:
		ev.Kind = panel.PointerMove
	case tea.MouseActionRelease:
		ev.Kind = panel.PointerUp
	default:
		return panel.PointerEvent{}, false
	}
	return ev, true
}

// isWheel reports whether msg is a scroll wheel event.
func isWheel(msg tea.MouseMsg) bool {
	return tea.MouseEvent(msg).IsWheel()
}
