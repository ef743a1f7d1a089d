package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal asks before a destructive action.
// Enter or y confirms; Esc or n cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string // optional warning details
	OnConfirm tea.Cmd
	styles    Styles
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(st Styles, title, label string, onConfirm tea.Cmd) *ConfirmModal {
	return &ConfirmModal{
		Title:     title,
		Label:     label,
		OnConfirm: onConfirm,
		styles:    st,
	}
}

// WithDetails adds warning details to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "esc", "n":
		return m, dismissModal
	case "enter", "y":
		if m.OnConfirm != nil {
			return m, tea.Batch(dismissModal, m.OnConfirm)
		}
		return m, dismissModal
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.styles.TitleWarning.Render(m.Title) + "\n\n"
	content += m.styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + m.styles.Details.Render(m.Details)
	}
	content += "\n\n" + m.styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return m.styles.BoxWarning.Render(content)
}

func dismissModal() tea.Msg { return DismissModalMsg{} }

// centerIn returns the offset that centers a rendered block in a width x
// height area.
func centerIn(block string, width, height int) (int, int) {
	x := (width - lipgloss.Width(block)) / 2
	y := (height - lipgloss.Height(block)) / 2
	return max(x, 0), max(y, 0)
}
