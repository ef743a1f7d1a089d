package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal with the key that dismisses it.
type Overlay struct {
	View    View
	Dismiss string // e.g. "esc"
}

// IsDismissKey returns true if the given key string should dismiss this overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return key == o.Dismiss
}

// OverlayStack holds the open modals; the topmost receives input first.
type OverlayStack struct {
	Stack[Overlay]
}

// UpdateTop passes msg to the top overlay's Update and replaces its View with the result.
// Returns the cmd from the overlay's Update. Caller must run the cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if s.Len() == 0 {
		return nil, false
	}
	top := &s.items[len(s.items)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}
