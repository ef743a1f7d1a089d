package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"debugdeck/internal/kvstore"
	"debugdeck/internal/panel"
	"debugdeck/internal/ui/textutil"
)

// errNoDatabase is shown in place of the browser when no store is open.
var errNoDatabase = errors.New("database not available")

const (
	backLabel    = "‹ back"
	exploreLabel = "[explore]"
	deleteLabel  = "[delete]"
)

type dbLoadedMsg struct {
	tool *DatabaseTool
	path string
	snap kvstore.Snapshot
	err  error
}

type dbChangedMsg struct {
	tool   *DatabaseTool
	change kvstore.Change
	ok     bool
}

type dbWrittenMsg struct {
	tool *DatabaseTool
	op   string
	path string
	err  error
}

// dbRow is the clickable region of one rendered child.
type dbRow struct {
	y       int
	child   int
	actionX int
}

// DatabaseTool browses the key-value store as a tree. Folders can be
// explored, leaves deleted; back returns along the navigation history. The
// view reloads whenever a write touches the current path.
type DatabaseTool struct {
	store   *kvstore.Store
	path    string
	history Stack[string]
	snap    kvstore.Snapshot
	loaded  bool
	err     error
	notice  string
	cursor  int
	offset  int
	styles  Styles

	formOpen  bool
	formFocus int
	keyInput  textinput.Model
	valInput  textinput.Model

	ctx     context.Context
	cancel  context.CancelFunc
	changes <-chan kvstore.Change
	rows    []dbRow
}

// NewDatabaseTool creates a browser opened at root.
func NewDatabaseTool(store *kvstore.Store, root string, st Styles) *DatabaseTool {
	key := textinput.New()
	key.Prompt = "key   "
	key.Placeholder = "empty for a generated key"
	val := textinput.New()
	val.Prompt = "value "
	ctx, cancel := context.WithCancel(context.Background())
	return &DatabaseTool{
		store:    store,
		path:     strings.Trim(root, "/"),
		styles:   st,
		keyInput: key,
		valInput: val,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Path returns the path being shown.
func (t *DatabaseTool) Path() string { return t.path }

// Snapshot returns the last loaded snapshot.
func (t *DatabaseTool) Snapshot() kvstore.Snapshot { return t.snap }

func (t *DatabaseTool) Init() tea.Cmd {
	if t.store == nil {
		return nil
	}
	t.changes = t.store.Subscribe(t.ctx)
	return tea.Batch(t.load(), t.waitChange())
}

// Close ends the realtime subscription.
func (t *DatabaseTool) Close() {
	t.cancel()
}

// Capturing implements Capturer.
func (t *DatabaseTool) Capturing() bool { return t.formOpen }

func (t *DatabaseTool) load() tea.Cmd {
	if t.store == nil {
		return nil
	}
	store, ctx, path := t.store, t.ctx, t.path
	return func() tea.Msg {
		snap, err := store.Get(ctx, path)
		return dbLoadedMsg{tool: t, path: path, snap: snap, err: err}
	}
}

func (t *DatabaseTool) waitChange() tea.Cmd {
	ch := t.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		return dbChangedMsg{tool: t, change: c, ok: ok}
	}
}

func (t *DatabaseTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dbLoadedMsg:
		if msg.tool != t || msg.path != t.path {
			return nil
		}
		t.snap, t.err, t.loaded = msg.snap, msg.err, true
		t.clampCursor()
		return nil
	case dbChangedMsg:
		if msg.tool != t || !msg.ok {
			return nil
		}
		if msg.change.Affects(t.path) {
			return tea.Batch(t.load(), t.waitChange())
		}
		return t.waitChange()
	case dbWrittenMsg:
		if msg.tool != t {
			return nil
		}
		if msg.err != nil {
			t.err = msg.err
			return nil
		}
		t.err = nil
		t.notice = fmt.Sprintf("%s %s", msg.op, msg.path)
		return t.load()
	case tea.KeyMsg:
		if t.formOpen {
			return t.updateForm(msg)
		}
		return t.handleKey(msg)
	}
	return nil
}

func (t *DatabaseTool) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.snap.Children)-1 {
			t.cursor++
		}
	case "enter", "right", "l", "e":
		return t.explore(t.cursor)
	case "d", "delete":
		return t.delete(t.cursor)
	case "b", "backspace", "left", "h":
		return t.Back()
	case "a":
		return t.openForm()
	case "r":
		return t.load()
	}
	return nil
}

// Explore opens the folder at child index i, remembering the current path.
func (t *DatabaseTool) explore(i int) tea.Cmd {
	if i < 0 || i >= len(t.snap.Children) || !t.snap.Children[i].Folder {
		return nil
	}
	t.history.Push(t.path)
	t.navigate(kvstore.Join(t.path, t.snap.Children[i].Key))
	return t.load()
}

// Back returns to the previous path, or to the parent when the history is
// empty.
func (t *DatabaseTool) Back() tea.Cmd {
	prev, ok := t.history.Pop()
	if !ok {
		if t.path == "" {
			return nil
		}
		prev = kvstore.Parent(t.path)
	}
	t.navigate(prev)
	return t.load()
}

func (t *DatabaseTool) navigate(path string) {
	t.path = path
	t.cursor, t.offset = 0, 0
	t.loaded = false
	t.notice = ""
	t.err = nil
}

func (t *DatabaseTool) delete(i int) tea.Cmd {
	if i < 0 || i >= len(t.snap.Children) {
		return nil
	}
	c := t.snap.Children[i]
	target := kvstore.Join(t.path, c.Key)
	if !c.Folder {
		return t.remove(target)
	}
	modal := NewConfirmModal(t.styles, "Delete folder?", target, t.remove(target)).
		WithDetails(fmt.Sprintf("%d entries will be removed", c.Count))
	return func() tea.Msg { return ShowModalMsg{View: modal} }
}

func (t *DatabaseTool) remove(path string) tea.Cmd {
	store, ctx := t.store, t.ctx
	return func() tea.Msg {
		err := store.Remove(ctx, path)
		return dbWrittenMsg{tool: t, op: "removed", path: path, err: err}
	}
}

func (t *DatabaseTool) openForm() tea.Cmd {
	t.formOpen = true
	t.formFocus = 0
	t.keyInput.Reset()
	t.valInput.Reset()
	t.valInput.Blur()
	return t.keyInput.Focus()
}

func (t *DatabaseTool) closeForm() {
	t.formOpen = false
	t.keyInput.Blur()
	t.valInput.Blur()
}

func (t *DatabaseTool) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		t.closeForm()
		return nil
	case tea.KeyTab, tea.KeyShiftTab:
		return t.focusField(1 - t.formFocus)
	case tea.KeyEnter:
		if t.formFocus == 0 {
			return t.focusField(1)
		}
		cmd := t.submit(strings.TrimSpace(t.keyInput.Value()), t.valInput.Value())
		t.closeForm()
		return cmd
	}
	var cmd tea.Cmd
	if t.formFocus == 0 {
		t.keyInput, cmd = t.keyInput.Update(msg)
	} else {
		t.valInput, cmd = t.valInput.Update(msg)
	}
	return cmd
}

func (t *DatabaseTool) focusField(i int) tea.Cmd {
	t.formFocus = i
	if i == 0 {
		t.valInput.Blur()
		return t.keyInput.Focus()
	}
	t.keyInput.Blur()
	return t.valInput.Focus()
}

// submit stores value under key at the current path; an empty key pushes a
// generated one.
func (t *DatabaseTool) submit(key, value string) tea.Cmd {
	store, ctx, parent := t.store, t.ctx, t.path
	return func() tea.Msg {
		if key == "" {
			k, err := store.Push(ctx, parent, value)
			return dbWrittenMsg{tool: t, op: "pushed", path: kvstore.Join(parent, k), err: err}
		}
		target := kvstore.Join(parent, key)
		err := store.Set(ctx, target, value)
		return dbWrittenMsg{tool: t, op: "set", path: target, err: err}
	}
}

// Click handles the back label, row selection and row actions.
func (t *DatabaseTool) Click(at panel.Point) tea.Cmd {
	if at.Y == 0 && at.X < ansi.StringWidth(backLabel) {
		return t.Back()
	}
	for _, r := range t.rows {
		if r.y != at.Y {
			continue
		}
		t.cursor = r.child
		if at.X < r.actionX {
			return nil
		}
		if t.snap.Children[r.child].Folder {
			return t.explore(r.child)
		}
		return t.delete(r.child)
	}
	return nil
}

func (t *DatabaseTool) clampCursor() {
	n := len(t.snap.Children)
	if t.cursor >= n {
		t.cursor = max(n-1, 0)
	}
}

func (t *DatabaseTool) Render(width, height int) (string, error) {
	if t.store == nil {
		return "", errNoDatabase
	}
	t.rows = t.rows[:0]

	shown := "/" + t.path
	header := t.styles.Action.Render(backLabel) + "  " + t.styles.Title.Render(textutil.Truncate(shown, max(width-10, 1)))
	lines := []string{header}

	switch {
	case t.err != nil:
		lines = append(lines, t.styles.Error.Render(t.err.Error()))
	case t.notice != "":
		lines = append(lines, t.styles.Hint.Render(t.notice))
	default:
		lines = append(lines, "")
	}

	footer := []string{t.styles.Hint.Render("a add · d delete · b back · r reload")}
	if t.formOpen {
		t.keyInput.Width = max(width-len(t.keyInput.Prompt)-1, 1)
		t.valInput.Width = max(width-len(t.valInput.Prompt)-1, 1)
		footer = []string{t.keyInput.View(), t.valInput.View()}
	}
	listH := height - len(lines) - len(footer)

	switch {
	case !t.loaded:
		lines = append(lines, t.styles.Empty.Render("loading…"))
	case !t.snap.Exists:
		lines = append(lines, t.styles.Empty.Render("nothing here"))
	case t.snap.Leaf:
		lines = append(lines, t.styles.Normal.Render(t.snap.Value))
	default:
		lines = append(lines, t.renderChildren(width, listH, len(lines))...)
	}

	for len(lines) < height-len(footer) {
		lines = append(lines, "")
	}
	return strings.Join(append(lines, footer...), "\n"), nil
}

func (t *DatabaseTool) renderChildren(width, height, top int) []string {
	if height <= 0 {
		return nil
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+height {
		t.offset = t.cursor - height + 1
	}

	var out []string
	for i := t.offset; i < len(t.snap.Children) && len(out) < height; i++ {
		c := t.snap.Children[i]
		action := deleteLabel
		text := c.Key + " = " + c.Value
		if c.Folder {
			action = exploreLabel
			text = fmt.Sprintf("%s/ (%d)", c.Key, c.Count)
		}
		marker, style := "  ", t.styles.Normal
		if i == t.cursor {
			marker, style = "› ", t.styles.Selected
		}
		actionX := width - ansi.StringWidth(action)
		left := textutil.FitLine(style.Render(marker+textutil.Truncate(text, max(actionX-3, 1))), max(actionX-1, 0))
		out = append(out, left+" "+t.styles.Action.Render(action))
		t.rows = append(t.rows, dbRow{y: top + len(out) - 1, child: i, actionX: actionX})
	}
	return out
}
