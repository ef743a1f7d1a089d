package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	oteltrace "go.opentelemetry.io/otel/trace"

	"debugdeck/internal/pty"
)

// maxExecLines bounds the output kept by one exec panel.
const maxExecLines = 2000

type execStartedMsg struct {
	tool    *ExecTool
	session *pty.Session
	err     error
}

type execLineMsg struct {
	tool *ExecTool
	line string
}

type execDoneMsg struct {
	tool *ExecTool
	code int
	err  error
}

// ExecTool runs a shell command under a PTY and streams its output.
type ExecTool struct {
	input   textinput.Model
	vp      viewport.Model
	lines   []string
	session *pty.Session
	runner  pty.Runner
	shell   string
	tracer  oteltrace.Tracer
	styles  Styles
	status  string
	size    pty.Size
}

// NewExecTool creates an exec panel using shell ("" picks $SHELL).
func NewExecTool(shell string, tracer oteltrace.Tracer, st Styles) *ExecTool {
	in := textinput.New()
	in.Prompt = "$ "
	in.Placeholder = "command"
	in.CharLimit = 512
	return &ExecTool{
		input:  in,
		vp:     viewport.New(0, 0),
		shell:  shell,
		tracer: tracer,
		styles: st,
		status: "enter: run · esc: leave input",
	}
}

// Running reports whether a command is active.
func (t *ExecTool) Running() bool { return t.session != nil }

// Output returns the captured lines.
func (t *ExecTool) Output() []string { return t.lines }

func (t *ExecTool) Init() tea.Cmd {
	return t.input.Focus()
}

// Capturing implements Capturer.
func (t *ExecTool) Capturing() bool {
	return t.input.Focused()
}

func (t *ExecTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case execStartedMsg:
		if msg.tool != t {
			return nil
		}
		if msg.err != nil {
			t.status = t.styles.Error.Render(msg.err.Error())
			return nil
		}
		t.session = msg.session
		t.status = "running " + msg.session.Command + " · ctrl+x: stop"
		return t.waitLine(msg.session)
	case execLineMsg:
		if msg.tool != t || t.session == nil {
			return nil
		}
		t.append(msg.line)
		return t.waitLine(t.session)
	case execDoneMsg:
		if msg.tool != t {
			return nil
		}
		t.session = nil
		t.status = fmt.Sprintf("exit %d", msg.code)
		if msg.err != nil && msg.code < 0 {
			t.status = t.styles.Error.Render(msg.err.Error())
		}
		return nil
	case tea.KeyMsg:
		return t.handleKey(msg)
	}
	if t.input.Focused() {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return cmd
	}
	return nil
}

func (t *ExecTool) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+x" {
		if t.session != nil {
			t.session.Stop()
		}
		return nil
	}
	if t.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			line := strings.TrimSpace(t.input.Value())
			if line == "" || t.session != nil {
				return nil
			}
			t.input.SetValue("")
			t.lines = append(t.lines, t.styles.Hint.Render("$ "+line))
			t.refresh()
			return t.start(line)
		case tea.KeyEsc:
			t.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "i", "enter":
		return t.input.Focus()
	}
	var cmd tea.Cmd
	t.vp, cmd = t.vp.Update(msg)
	return cmd
}

// Scroll moves the output by n lines.
func (t *ExecTool) Scroll(n int) {
	t.vp.SetYOffset(t.vp.YOffset + n)
}

// Close stops a running command.
func (t *ExecTool) Close() {
	if t.session != nil {
		t.session.Stop()
	}
}

func (t *ExecTool) start(line string) tea.Cmd {
	opts := pty.Options{Runner: t.runner, Shell: t.shell, Size: t.size, Tracer: t.tracer}
	return func() tea.Msg {
		s, err := pty.Start(context.Background(), line, opts)
		return execStartedMsg{tool: t, session: s, err: err}
	}
}

func (t *ExecTool) waitLine(s *pty.Session) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-s.Lines()
		if !ok {
			err := s.Wait()
			return execDoneMsg{tool: t, code: s.ExitCode(), err: err}
		}
		return execLineMsg{tool: t, line: line}
	}
}

func (t *ExecTool) append(line string) {
	t.lines = append(t.lines, line)
	if over := len(t.lines) - maxExecLines; over > 0 {
		t.lines = t.lines[over:]
	}
	t.refresh()
}

func (t *ExecTool) refresh() {
	atBottom := t.vp.AtBottom()
	t.vp.SetContent(strings.Join(t.lines, "\n"))
	if atBottom {
		t.vp.GotoBottom()
	}
}

func (t *ExecTool) Render(width, height int) (string, error) {
	t.input.Width = max(width-len(t.input.Prompt)-1, 1)
	if height < 3 {
		return t.input.View(), nil
	}
	outH := height - 2
	if t.vp.Width != width || t.vp.Height != outH {
		t.vp.Width, t.vp.Height = width, outH
		t.vp.GotoBottom()
		t.size = pty.Size{Rows: uint16(outH), Cols: uint16(width)}
		if t.session != nil {
			_ = t.session.Resize(t.size)
		}
	}
	return t.input.View() + "\n" + t.vp.View() + "\n" + t.styles.Hint.Render(t.status), nil
}
