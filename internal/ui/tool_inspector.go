package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"debugdeck/internal/panel"
)

// toggleLabel is the clickable switch on the inspector's first row.
const toggleLabel = "[toggle]"

// InspectorTool shows inspect mode, the inspected panel and the latest
// panel event.
type InspectorTool struct {
	state  *Inspection
	styles Styles
}

// NewInspectorTool creates an inspector over shared inspect state.
func NewInspectorTool(state *Inspection, st Styles) *InspectorTool {
	if state == nil {
		state = NewInspection()
	}
	return &InspectorTool{state: state, styles: st}
}

func (t *InspectorTool) Init() tea.Cmd { return nil }

func (t *InspectorTool) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "i", "enter":
			return toggleInspect
		}
	}
	return nil
}

// Click toggles inspect mode when the switch on row 0 is pressed.
func (t *InspectorTool) Click(at panel.Point) tea.Cmd {
	if at.Y == 0 && at.X >= t.toggleX() && at.X < t.toggleX()+len(toggleLabel) {
		return toggleInspect
	}
	return nil
}

func (t *InspectorTool) toggleX() int {
	return len(t.modeText()) + 1
}

func (t *InspectorTool) modeText() string {
	if t.state.Active {
		return fmt.Sprintf("inspect: on (%d)", t.state.Count())
	}
	return "inspect: off"
}

func (t *InspectorTool) Render(width, height int) (string, error) {
	var lines []string
	mode := t.styles.Muted.Render(t.modeText())
	if t.state.Active {
		mode = t.styles.Selected.Render(t.modeText())
	}
	lines = append(lines, mode+" "+t.styles.Action.Render(toggleLabel))

	if p := t.state.Target; p != nil && !p.Closed() {
		placement := "placed"
		if a, docked := p.Docked(); docked {
			placement = "docked " + a.String()
		}
		lines = append(lines,
			"",
			t.styles.Title.Render(p.Title()),
			fmt.Sprintf("id     %s", p.ID()),
			fmt.Sprintf("state  %s  rank %d", p.State(), p.Rank()),
			fmt.Sprintf("bounds %s  %s", p.Bounds(), placement),
		)
		if err := p.LastRenderError(); err != nil {
			lines = append(lines, t.styles.Error.Render(err.Error()))
		}
	} else if t.state.Active {
		lines = append(lines, "", t.styles.Hint.Render("click a panel to highlight it"))
	} else {
		lines = append(lines, "", t.styles.Hint.Render("i: start inspecting"))
	}

	if t.state.HasEvent {
		ev := t.state.LastEvent
		lines = append(lines, "", t.styles.Muted.Render(
			fmt.Sprintf("last: %s %s %s", ev.Kind, ev.Title, ev.Bounds)))
	}
	return strings.Join(lines, "\n"), nil
}

func toggleInspect() tea.Msg { return ToggleInspectMsg{} }
