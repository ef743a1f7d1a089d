package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// leaderKeyMap adapts the hints of a pending sequence to help.KeyMap.
type leaderKeyMap struct {
	hints map[string]string
}

func newLeaderKeyMap(h *KeyHandler, mode AppMode) leaderKeyMap {
	return leaderKeyMap{hints: h.Registry.LeaderHints(h.Sequence(), mode)}
}

// ShortHelp lists the next keys in key order, followed by esc.
func (km leaderKeyMap) ShortHelp() []key.Binding {
	if len(km.hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(km.hints))
	for k := range km.hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, km.hints[k])))
	}
	return append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (km leaderKeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); short != nil {
		return [][]key.Binding{short}
	}
	return nil
}

// RenderKeybindHelp produces the transient help box shown after SPC,
// listing the next keys of the pending sequence for the current mode.
func RenderKeybindHelp(h *KeyHandler, mode AppMode, st Styles) string {
	if h == nil || !h.Pending() {
		return ""
	}
	bindings := newLeaderKeyMap(h, mode).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Styles.ShortKey = st.Selected
	helpModel.Styles.ShortDesc = st.Hint
	helpModel.Styles.ShortSeparator = st.Hint

	content := st.Hint.Render(h.Sequence()) + " " + helpModel.ShortHelpView(bindings)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.BorderFocused).
		Padding(0, 1).
		Render(content)
}
