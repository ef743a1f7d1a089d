package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"debugdeck/internal/console"
)

// ConsoleTool shows the console sink. It follows new lines until the user
// scrolls up; G jumps back to the bottom and resumes following.
type ConsoleTool struct {
	sink   *console.Sink
	vp     viewport.Model
	styles Styles
	follow bool
	lines  int
}

// NewConsoleTool creates a console view over sink.
func NewConsoleTool(sink *console.Sink, st Styles) *ConsoleTool {
	return &ConsoleTool{
		sink:   sink,
		vp:     viewport.New(0, 0),
		styles: st,
		follow: true,
	}
}

func (c *ConsoleTool) Init() tea.Cmd {
	c.refresh()
	return nil
}

func (c *ConsoleTool) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case consoleUpdatedMsg:
		c.refresh()
		return nil
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			if c.sink != nil {
				c.sink.Clear()
			}
			c.refresh()
			return nil
		case "G", "end":
			c.follow = true
			c.vp.GotoBottom()
			return nil
		}
		var cmd tea.Cmd
		c.vp, cmd = c.vp.Update(msg)
		c.follow = c.vp.AtBottom()
		return cmd
	}
	return nil
}

// Scroll moves the view by n lines; negative scrolls up.
func (c *ConsoleTool) Scroll(n int) {
	c.vp.SetYOffset(c.vp.YOffset + n)
	c.follow = c.vp.AtBottom()
}

// Following reports whether the view sticks to the newest line.
func (c *ConsoleTool) Following() bool { return c.follow }

func (c *ConsoleTool) refresh() {
	if c.sink == nil {
		return
	}
	lines := c.sink.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = c.styleLine(l)
	}
	c.lines = len(lines)
	c.vp.SetContent(strings.Join(out, "\n"))
	if c.follow {
		c.vp.GotoBottom()
	}
}

func (c *ConsoleTool) styleLine(l console.Line) string {
	s := l.String()
	if l.Source == console.SourceIngest {
		s = "» " + s
	}
	switch l.Level {
	case console.LevelDebug:
		return c.styles.LevelDebug.Render(s)
	case console.LevelWarn:
		return c.styles.LevelWarn.Render(s)
	case console.LevelError:
		return c.styles.LevelError.Render(s)
	default:
		return c.styles.Normal.Render(s)
	}
}

func (c *ConsoleTool) Render(width, height int) (string, error) {
	if c.sink == nil {
		return "", fmt.Errorf("console sink not configured")
	}
	if height < 2 {
		return c.status(), nil
	}
	if c.vp.Width != width || c.vp.Height != height-1 {
		c.vp.Width, c.vp.Height = width, height-1
		if c.follow {
			c.vp.GotoBottom()
		}
	}
	return c.vp.View() + "\n" + c.status(), nil
}

func (c *ConsoleTool) status() string {
	s := fmt.Sprintf("%d lines", c.lines)
	if d := c.sink.Dropped(); d > 0 {
		s += fmt.Sprintf(" · %d dropped", d)
	}
	if !c.follow {
		s += " · G follow"
	}
	return c.styles.Hint.Render(s + " · c clear")
}
