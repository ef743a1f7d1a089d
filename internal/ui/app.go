package ui

import (
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"debugdeck/internal/panel"
	"debugdeck/internal/ui/textutil"
)

// wheelStep is the number of lines scrolled per wheel notch.
const wheelStep = 3

// Options configures the app model.
type Options struct {
	Deps        Deps
	Theme       Theme
	DefaultSize panel.Size
	Anchor      panel.Anchor
	DoubleClick time.Duration
	Catalog     []ToolSpec // nil uses DefaultCatalog
	Startup     []string   // tools opened at launch
	Logger      *slog.Logger
}

// AppModel is the root model. A panel manager hosts one tool per panel; the
// last screen row is the dock bar listing minimized panels; modals sit above
// everything.
type AppModel struct {
	Mode       AppMode
	Manager    *panel.Manager
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Focus      *FocusManager
	Inspect    *Inspection
	Styles     Styles

	catalog []ToolSpec
	deps    Deps
	tools   map[string]Tool
	startup []string
	width   int
	height  int
	log     *slog.Logger
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.AppModel.Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.AppModel.Update(msg)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	return a.AppModel.View()
}

// NewAppModel creates the root application model.
func NewAppModel(opts Options) *AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}

	a := &AppModel{
		Mode:    ModeNormal,
		Focus:   &FocusManager{},
		Inspect: opts.Deps.Inspection,
		Styles:  NewStyles(opts.Theme),
		catalog: catalog,
		tools:   make(map[string]Tool),
		startup: opts.Startup,
		log:     logger,
	}
	if a.Inspect == nil {
		a.Inspect = NewInspection()
	}
	a.deps = opts.Deps
	a.deps.Styles = a.Styles
	a.deps.Inspection = a.Inspect
	if a.deps.Logger == nil {
		a.deps.Logger = logger
	}

	mopts := []panel.Option{
		panel.WithAnchor(opts.Anchor),
		panel.WithDoubleClick(opts.DoubleClick),
		panel.WithLogger(logger),
		panel.WithEventHandler(a.onPanelEvent),
	}
	if opts.DefaultSize != (panel.Size{}) {
		mopts = append(mopts, panel.WithDefaultSize(opts.DefaultSize))
	}
	a.Manager = panel.NewManager(mopts...)

	a.Focus.OnChange = func(_, to string) {
		p, ok := a.Manager.Get(to)
		if !ok {
			return
		}
		if p.State() == panel.StateMinimized {
			_ = a.Manager.Restore(p)
			return
		}
		_ = p.Raise()
	}

	a.KeyHandler = NewKeyHandler(a.newKeybinds())
	return a
}

func (a *AppModel) newKeybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", "Quit", tea.Quit)
	reg.Bind("SPC t", "Toolbox", openTool(ToolToolbox))
	for _, spec := range a.catalog {
		if spec.Key != "" {
			reg.Bind("SPC o "+spec.Key, spec.Name, openTool(spec.Name))
		}
	}
	reg.Bind("SPC p c", "Close", panelAction(ActionClose))
	reg.Bind("SPC p f", "Fullscreen", panelAction(ActionFullscreen))
	reg.Bind("SPC p m", "Minimize", panelAction(ActionMinimize))
	reg.Bind("SPC p r", "Next corner", panelAction(ActionCycleCorner))
	reg.Bind("SPC p u", "Restore minimized", panelAction(ActionRestoreDocked))
	reg.Bind("SPC n", "Next panel", panelAction(ActionFocusNext))
	reg.Bind("SPC b", "Previous panel", panelAction(ActionFocusPrev))
	reg.Bind("SPC i", "Inspect", toggleInspect, ModeNormal)
	reg.Bind("SPC i", "Stop inspecting", toggleInspect, ModeInspect)
	reg.Bind("esc", "Stop inspecting", toggleInspect, ModeInspect)
	return reg
}

func openTool(name string) tea.Cmd {
	return func() tea.Msg { return OpenToolMsg{Name: name} }
}

func panelAction(action PanelAction) tea.Cmd {
	return func() tea.Msg { return PanelActionMsg{Action: action} }
}

// Init opens the startup tools and starts listening to the console sink.
func (a *AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{a.listenConsole()}
	for _, name := range a.startup {
		cmds = append(cmds, a.open(name))
	}
	return tea.Batch(cmds...)
}

// Update handles one message and returns the follow-up command.
func (a *AppModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return nil
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	case OpenToolMsg:
		return a.open(msg.Name)
	case PanelActionMsg:
		return a.applyAction(msg.Action)
	case ToggleInspectMsg:
		a.switchInspect()
		return nil
	case ShowModalMsg:
		a.Overlays.Push(Overlay{View: msg.View, Dismiss: "esc"})
		return msg.View.Init()
	case DismissModalMsg:
		a.Overlays.Pop()
		return nil
	case consoleUpdatedMsg:
		return tea.Batch(a.broadcast(msg), a.listenConsole())
	}
	return a.broadcast(msg)
}

func (a *AppModel) resize(w, h int) {
	a.width, a.height = w, h
	a.Manager.SetViewport(panel.Size{W: w, H: max(h-1, 0)})
}

// dockRow is the screen row of the dock bar.
func (a *AppModel) dockRow() int {
	return a.height - 1
}

func (a *AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.Overlays.Len() > 0 {
		return nil
	}
	pt := panel.Point{X: msg.X, Y: msg.Y}

	if isWheel(msg) {
		if p := a.Manager.PanelAt(pt); p != nil {
			if s, ok := a.tools[p.ID()].(Scroller); ok {
				step := wheelStep
				if msg.Button == tea.MouseButtonWheelUp {
					step = -wheelStep
				}
				s.Scroll(step)
			}
		}
		return nil
	}

	ev, ok := PointerFromMouse(msg)
	if !ok {
		return nil
	}
	if ev.Kind == panel.PointerDown && msg.Y == a.dockRow() && a.Manager.Dragging() == nil {
		a.clickDock(msg.X)
		return nil
	}
	if a.Mode == ModeInspect && ev.Kind == panel.PointerDown {
		if a.inspectPress(pt) {
			return nil
		}
	}

	hit := a.Manager.HandlePointer(ev)
	if ev.Kind != panel.PointerDown || hit.Panel == nil || hit.Zone != panel.ZoneBody {
		return nil
	}
	if c, ok := a.tools[hit.Panel.ID()].(Clicker); ok {
		return c.Click(hit.Local)
	}
	return nil
}

// inspectPress toggles the highlight of the panel under pt. Presses on an
// inspector panel pass through so it stays usable.
func (a *AppModel) inspectPress(pt panel.Point) bool {
	p := a.Manager.PanelAt(pt)
	if p == nil {
		return false
	}
	if _, ok := a.tools[p.ID()].(*InspectorTool); ok {
		return false
	}
	on := a.Inspect.Toggle(p)
	a.log.Info("inspect", "panel", p.Title(), "highlighted", on)
	return true
}

func (a *AppModel) switchInspect() {
	if a.Mode == ModeInspect {
		a.Mode = ModeNormal
	} else {
		a.Mode = ModeInspect
	}
	a.Inspect.SetActive(a.Mode == ModeInspect)
	a.log.Debug("mode changed", "mode", a.Mode.String())
}

func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	tool := a.focusedTool()
	if c, ok := tool.(Capturer); ok && c.Capturing() {
		return tool.Update(msg)
	}
	if consumed, cmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
		return cmd
	}
	if tool != nil {
		return tool.Update(msg)
	}
	return nil
}

// open creates a panel hosting a new instance of the named tool.
func (a *AppModel) open(name string) tea.Cmd {
	spec, ok := findTool(a.catalog, name)
	if !ok {
		a.log.Warn("unknown tool", "name", name)
		return nil
	}
	tool := spec.New(a.deps, a.catalog)
	p := a.Manager.Create(spec.Name, tool, spec.Place...)
	a.tools[p.ID()] = tool
	return tool.Init()
}

// Tool returns the tool hosted by the panel with id.
func (a *AppModel) Tool(id string) (Tool, bool) {
	t, ok := a.tools[id]
	return t, ok
}

func (a *AppModel) applyAction(action PanelAction) tea.Cmd {
	switch action {
	case ActionFocusNext, ActionFocusPrev:
		a.syncFocus()
		if action == ActionFocusNext {
			a.Focus.Next()
		} else {
			a.Focus.Prev()
		}
		return nil
	case ActionRestoreDocked:
		if dock := a.Manager.Dock(); len(dock) > 0 {
			_ = a.Manager.Restore(dock[len(dock)-1])
		}
		return nil
	}

	p := a.focused()
	if p == nil {
		return nil
	}
	var err error
	switch action {
	case ActionClose:
		err = p.Close()
	case ActionFullscreen:
		err = p.ToggleFullscreen()
	case ActionMinimize:
		err = p.ToggleMinimize()
	case ActionCycleCorner:
		err = p.CycleCorner()
	}
	if err != nil {
		a.log.Debug("panel action failed", "panel", p.Title(), "err", err)
	}
	return nil
}

func (a *AppModel) syncFocus() {
	panels := a.Manager.Panels()
	ids := make([]string, len(panels))
	for i, p := range panels {
		ids[i] = p.ID()
	}
	current := ""
	if f := a.focused(); f != nil {
		current = f.ID()
	}
	a.Focus.Sync(ids, current)
}

// focused returns the frontmost panel that is not minimized.
func (a *AppModel) focused() *panel.Panel {
	ordered := a.Manager.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].State() != panel.StateMinimized {
			return ordered[i]
		}
	}
	return nil
}

func (a *AppModel) focusedTool() Tool {
	if p := a.focused(); p != nil {
		return a.tools[p.ID()]
	}
	return nil
}

// broadcast delivers msg to every tool.
func (a *AppModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range a.Manager.Panels() {
		if t, ok := a.tools[p.ID()]; ok {
			cmds = append(cmds, t.Update(msg))
		}
	}
	return tea.Batch(cmds...)
}

func (a *AppModel) listenConsole() tea.Cmd {
	sink := a.deps.Sink
	if sink == nil {
		return nil
	}
	return func() tea.Msg {
		<-sink.Updates()
		return consoleUpdatedMsg{}
	}
}

func (a *AppModel) onPanelEvent(ev panel.Event) {
	a.Inspect.Record(ev)
	switch ev.Kind {
	case panel.EventRenderFailed:
		a.log.Warn("panel render failed", "panel", ev.Title, "err", ev.Err)
	case panel.EventClosed:
		if c, ok := a.tools[ev.PanelID].(Closer); ok {
			c.Close()
		}
		delete(a.tools, ev.PanelID)
		a.log.Debug("panel closed", "panel", ev.Title)
	default:
		a.log.Debug("panel "+ev.Kind.String(), "panel", ev.Title, "rank", ev.Rank, "state", ev.State.String(), "bounds", ev.Bounds.String())
	}
}

// View renders panels back to front, then the top modal, the leader help
// and the dock bar.
func (a *AppModel) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	h := max(a.height-1, 0)
	canvas := blankCanvas(a.width, h)

	if a.Manager.Len() == 0 {
		hint := a.Styles.Empty.Render("SPC t opens the toolbox")
		x, y := centerIn(hint, a.width, h)
		canvas = overlayAt(canvas, hint, x, y, a.width, h)
	}

	focused := a.focused()
	for _, p := range a.Manager.Ordered() {
		body, _ := p.Render()
		frame := renderFrame(p, body, a.Styles, frameOptions{
			Focused:     p == focused,
			Highlighted: a.Inspect.Highlighted(p.ID()),
		})
		b := p.Bounds()
		canvas = overlayAt(canvas, frame, b.X, b.Y, a.width, h)
	}

	if top, ok := a.Overlays.Peek(); ok {
		modal := top.View.View()
		x, y := centerIn(modal, a.width, h)
		canvas = overlayAt(canvas, modal, x, y, a.width, h)
	}
	if help := RenderKeybindHelp(a.KeyHandler, a.Mode, a.Styles); help != "" {
		canvas = overlayAt(canvas, help, 0, h-lipgloss.Height(help), a.width, h)
	}

	if h == 0 {
		return a.renderDock()
	}
	return canvas + "\n" + a.renderDock()
}

// dockSlot is one entry of the dock bar.
type dockSlot struct {
	panel *panel.Panel
	x     int
	label string
}

func (a *AppModel) dockSlots() []dockSlot {
	var slots []dockSlot
	x := 0
	for _, p := range a.Manager.Dock() {
		label := " ▣ " + textutil.Truncate(p.Title(), 16) + " "
		slots = append(slots, dockSlot{panel: p, x: x, label: label})
		x += ansi.StringWidth(label) + 1
	}
	return slots
}

func (a *AppModel) clickDock(x int) {
	for _, s := range a.dockSlots() {
		if x >= s.x && x < s.x+ansi.StringWidth(s.label) {
			_ = a.Manager.Restore(s.panel)
			return
		}
	}
}

func (a *AppModel) renderDock() string {
	var parts []string
	for _, s := range a.dockSlots() {
		parts = append(parts, a.Styles.DockEntry.Render(s.label))
	}
	left := strings.Join(parts, " ")

	status := "SPC menu"
	if a.Mode == ModeInspect {
		status = "INSPECT · esc to stop"
	}
	right := a.Styles.Dock.Render(status + " ")
	gap := a.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return textutil.FitLine(left, a.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}
