package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debugdeck/internal/console"
	"debugdeck/internal/panel"
)

func newTestApp(t *testing.T) *AppModel {
	t.Helper()
	a := NewAppModel(Options{Deps: Deps{Sink: console.NewSink(50)}})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return a
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// clickHeader presses and releases on the title area of p's header.
func clickHeader(a *AppModel, p *panel.Panel) {
	b := p.Bounds()
	a.Update(press(b.X+2, b.Y+1))
	a.Update(release(b.X+2, b.Y+1))
}

func openNamed(t *testing.T, a *AppModel, name string) *panel.Panel {
	t.Helper()
	a.Update(OpenToolMsg{Name: name})
	panels := a.Manager.Panels()
	require.NotEmpty(t, panels)
	p := panels[len(panels)-1]
	require.Equal(t, name, p.Title())
	return p
}

func TestAppModel_HeaderClickRaisesConsoleAboveToolbox(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	require.NoError(t, con.Raise())
	assert.Equal(t, 1, con.Rank())

	box := openNamed(t, a, ToolToolbox)
	assert.Equal(t, 2, box.Rank())

	clickHeader(a, con)
	assert.Equal(t, 3, con.Rank())
	assert.Equal(t, 2, box.Rank())
	assert.Same(t, con, a.Manager.Front())
}

func TestAppModel_DragMovesPanelByPointerDelta(t *testing.T) {
	a := newTestApp(t)
	box := openNamed(t, a, ToolToolbox)
	start := box.Bounds()

	a.Update(press(start.X+3, start.Y+1))
	a.Update(motion(start.X+13, start.Y+6))
	a.Update(release(start.X+13, start.Y+6))

	got := box.Bounds()
	assert.Equal(t, start.X+10, got.X)
	assert.Equal(t, start.Y+5, got.Y)
	assert.Equal(t, start.Size(), got.Size())
	assert.Nil(t, a.Manager.Dragging())
}

func TestAppModel_CloseControlRemovesTool(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	id := con.ID()

	c := con.Chrome()
	a.Update(press(c.Close.X, c.Close.Y))

	assert.True(t, con.Closed())
	assert.Equal(t, 0, a.Manager.Len())
	_, ok := a.Tool(id)
	assert.False(t, ok)
	assert.ErrorIs(t, con.Raise(), panel.ErrClosed)
}

func TestAppModel_MinimizeDocksAndDockClickRestores(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	height := con.Bounds().H

	c := con.Chrome()
	a.Update(press(c.Minimize.X, c.Minimize.Y))
	require.Equal(t, panel.StateMinimized, con.State())
	require.Len(t, a.Manager.Dock(), 1)
	assert.Contains(t, a.View(), "▣ Console")

	a.Update(press(2, a.dockRow()))
	assert.Equal(t, panel.StateNormal, con.State())
	assert.Equal(t, height, con.Bounds().H)
	assert.Empty(t, a.Manager.Dock())
}

func TestAppModel_BodyClickReachesTool(t *testing.T) {
	a := newTestApp(t)
	box := openNamed(t, a, ToolToolbox)
	body := box.Chrome().Body

	// Row 0 is the filter line; row 1 is the first tool.
	cmd := a.Update(press(body.X+1, body.Y+1))
	require.NotNil(t, cmd)
	msg, ok := cmd().(OpenToolMsg)
	require.True(t, ok)
	assert.Equal(t, ToolConsole, msg.Name)
	assert.Nil(t, a.Update(release(body.X+1, body.Y+1)))
}

func TestAppModel_InspectModeHighlightsInsteadOfRaising(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	box := openNamed(t, a, ToolToolbox)
	rank := con.Rank()

	a.Update(ToggleInspectMsg{})
	require.Equal(t, ModeInspect, a.Mode)

	clickHeader(a, con)
	assert.True(t, a.Inspect.Highlighted(con.ID()))
	assert.Equal(t, rank, con.Rank())
	assert.Same(t, box, a.Manager.Front())
	assert.Contains(t, a.View(), "╔")

	clickHeader(a, con)
	assert.False(t, a.Inspect.Highlighted(con.ID()))

	clickHeader(a, con)
	cmd := a.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, ModeNormal, a.Mode)
	assert.Equal(t, 0, a.Inspect.Count())
}

func TestAppModel_InspectorStaysUsableInInspectMode(t *testing.T) {
	a := newTestApp(t)
	insp := openNamed(t, a, ToolInspector)
	a.Update(ToggleInspectMsg{})

	clickHeader(a, insp)
	assert.False(t, a.Inspect.Highlighted(insp.ID()))
}

func TestAppModel_LeaderKeysOpenTools(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"space", "t"}, ToolToolbox},
		{[]string{"space", "o", "c"}, ToolConsole},
		{[]string{"space", "o", "i"}, ToolInspector},
		{[]string{"space", "o", "x"}, ToolExec},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			a := newTestApp(t)
			var cmd tea.Cmd
			for _, k := range tt.keys {
				cmd = a.Update(keyMsg(k))
			}
			require.NotNil(t, cmd)
			a.Update(cmd())
			require.Equal(t, 1, a.Manager.Len())
			assert.Equal(t, tt.want, a.Manager.Panels()[0].Title())
		})
	}
}

func TestAppModel_InspectKeysDependOnMode(t *testing.T) {
	a := newTestApp(t)
	run := func(keys ...string) {
		var cmd tea.Cmd
		for _, k := range keys {
			cmd = a.Update(keyMsg(k))
		}
		if cmd != nil {
			a.Update(cmd())
		}
	}

	assert.Nil(t, a.Update(keyMsg("esc")), "esc is unbound outside inspect mode")
	assert.Equal(t, ModeNormal, a.Mode)

	a.Update(keyMsg("space"))
	assert.Contains(t, a.View(), "Inspect")
	assert.NotContains(t, a.View(), "Stop inspecting")
	run("i")
	require.Equal(t, ModeInspect, a.Mode)

	a.Update(keyMsg("space"))
	assert.Contains(t, a.View(), "Stop inspecting")
	run("i")
	assert.Equal(t, ModeNormal, a.Mode)

	run("space", "i")
	require.Equal(t, ModeInspect, a.Mode)
	run("esc")
	assert.Equal(t, ModeNormal, a.Mode)
}

func TestAppModel_PanelActions(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	before := con.Bounds()

	a.Update(PanelActionMsg{Action: ActionFullscreen})
	assert.Equal(t, panel.StateFullscreen, con.State())
	a.Update(PanelActionMsg{Action: ActionFullscreen})
	assert.Equal(t, before, con.Bounds())

	a.Update(PanelActionMsg{Action: ActionCycleCorner})
	anchor, docked := con.Docked()
	assert.True(t, docked)
	assert.Equal(t, panel.AnchorBottomLeft, anchor)

	a.Update(PanelActionMsg{Action: ActionMinimize})
	assert.Equal(t, panel.StateMinimized, con.State())
	a.Update(PanelActionMsg{Action: ActionRestoreDocked})
	assert.Equal(t, panel.StateNormal, con.State())

	a.Update(PanelActionMsg{Action: ActionClose})
	assert.Equal(t, 0, a.Manager.Len())
}

func TestAppModel_FocusCycleRaises(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	box := openNamed(t, a, ToolToolbox)
	require.Same(t, box, a.focused())

	a.Update(PanelActionMsg{Action: ActionFocusNext})
	assert.Same(t, con, a.focused())
	assert.Greater(t, con.Rank(), box.Rank())

	a.Update(PanelActionMsg{Action: ActionFocusPrev})
	assert.Same(t, box, a.focused())
}

func TestAppModel_KeysGoToFocusedTool(t *testing.T) {
	a := newTestApp(t)
	box := openNamed(t, a, ToolToolbox)
	tool, ok := a.Tool(box.ID())
	require.True(t, ok)

	typeText("cons", func(k tea.KeyMsg) { a.Update(k) })
	assert.Equal(t, "cons", tool.(*ToolboxTool).Filter())
}

func TestAppModel_ModalTakesKeysAndMouse(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	confirmed := false
	modal := NewConfirmModal(a.Styles, "Delete", "really?", func() tea.Msg {
		confirmed = true
		return nil
	})
	a.Update(ShowModalMsg{View: modal})
	require.Equal(t, 1, a.Overlays.Len())
	assert.Contains(t, a.View(), "really?")

	c := con.Chrome()
	a.Update(press(c.Close.X, c.Close.Y))
	assert.False(t, con.Closed())

	a.Update(keyMsg("esc"))
	assert.Equal(t, 0, a.Overlays.Len())
	assert.False(t, confirmed)
}

func TestAppModel_ViewFillsScreen(t *testing.T) {
	a := newTestApp(t)
	assert.Contains(t, a.View(), "SPC t opens the toolbox")

	openNamed(t, a, ToolConsole)
	openNamed(t, a, ToolToolbox)
	view := a.View()
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, view, "Console")
	assert.Contains(t, view, "Toolbox")
	assert.Contains(t, lines[len(lines)-1], "SPC menu")
}

func TestAppModel_ConsoleUpdatesReachConsoleTool(t *testing.T) {
	a := newTestApp(t)
	con := openNamed(t, a, ToolConsole)
	a.deps.Sink.Log(console.LevelWarn, "disk almost full")

	a.Update(consoleUpdatedMsg{})
	body, err := con.Render()
	require.NoError(t, err)
	assert.Contains(t, body, "disk almost full")
}

func TestAppModel_ConsoleWithoutSinkShowsPlaceholder(t *testing.T) {
	a := NewAppModel(Options{})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	con := openNamed(t, a, ToolConsole)

	body, err := con.Render()
	require.Error(t, err)
	assert.Contains(t, body, "content unavailable")
	assert.NotPanics(t, func() { _ = a.View() })
}

func TestAsTeaModel(t *testing.T) {
	m := NewAppModel(Options{}).AsTeaModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Same(t, m, next)
	assert.NotEmpty(t, m.View())
}
