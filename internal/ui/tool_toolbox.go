package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"debugdeck/internal/panel"
	"debugdeck/internal/ui/textutil"
)

// ToolboxTool lists the other tools. Typing filters the list; enter or a
// click opens the selection.
type ToolboxTool struct {
	specs  []ToolSpec
	filter string
	cursor int
	styles Styles
}

// NewToolboxTool creates a launcher for specs, leaving itself out.
func NewToolboxTool(specs []ToolSpec, st Styles) *ToolboxTool {
	var others []ToolSpec
	for _, s := range specs {
		if s.Name != ToolToolbox {
			others = append(others, s)
		}
	}
	return &ToolboxTool{specs: others, styles: st}
}

// Matches returns the tools passing the current filter, best first.
func (t *ToolboxTool) Matches() []ToolSpec {
	return rankTools(t.specs, t.filter)
}

// Filter returns the current filter text.
func (t *ToolboxTool) Filter() string { return t.filter }

func (t *ToolboxTool) Init() tea.Cmd { return nil }

func (t *ToolboxTool) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	matches := t.Matches()
	switch km.Type {
	case tea.KeyUp:
		if t.cursor > 0 {
			t.cursor--
		}
	case tea.KeyDown:
		if t.cursor < len(matches)-1 {
			t.cursor++
		}
	case tea.KeyEnter:
		return t.open(t.cursor)
	case tea.KeyBackspace:
		if r := []rune(t.filter); len(r) > 0 {
			t.setFilter(string(r[:len(r)-1]))
		}
	case tea.KeyEsc:
		t.setFilter("")
	case tea.KeyRunes:
		t.setFilter(t.filter + string(km.Runes))
	}
	return nil
}

func (t *ToolboxTool) setFilter(f string) {
	t.filter = f
	t.cursor = 0
}

func (t *ToolboxTool) open(i int) tea.Cmd {
	matches := t.Matches()
	if i < 0 || i >= len(matches) {
		return nil
	}
	name := matches[i].Name
	return func() tea.Msg { return OpenToolMsg{Name: name} }
}

// Click opens the tool on the clicked row. Row 0 is the filter line.
func (t *ToolboxTool) Click(at panel.Point) tea.Cmd {
	i := at.Y - 1
	if i < 0 || i >= len(t.Matches()) {
		return nil
	}
	t.cursor = i
	return t.open(i)
}

func (t *ToolboxTool) Render(width, height int) (string, error) {
	var b strings.Builder
	if t.filter == "" {
		b.WriteString(t.styles.Hint.Render("type to filter"))
	} else {
		b.WriteString(t.styles.Label.Render("/" + t.filter))
	}

	matches := t.Matches()
	if len(matches) == 0 {
		b.WriteString("\n" + t.styles.Empty.Render("no matching tools"))
		return b.String(), nil
	}
	const nameWidth = 10
	for i, s := range matches {
		if i+1 >= height {
			break
		}
		prefix, style := "  ", t.styles.Normal
		if i == t.cursor {
			prefix, style = "› ", t.styles.Selected
		}
		name := textutil.PadRightVisual(s.Name, nameWidth)
		b.WriteString("\n" + style.Render(prefix+name) + " " + t.styles.Muted.Render(s.Description))
	}
	return b.String(), nil
}
