package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"debugdeck/internal/panel"
	"debugdeck/internal/ui/textutil"
)

// frameOptions selects the border treatment of one frame.
type frameOptions struct {
	Focused     bool
	Highlighted bool
}

// controlsRow is the header's right end: minimize, fullscreen and close,
// each followed by a blank cell. It lines up with panel.Chrome.
var controlsRow = panel.GlyphMinimize + " " + panel.GlyphFullscreen + " " + panel.GlyphClose + " "

// controlsCells is the width of controlsRow; ControlsWidth also counts the
// blank cell before it.
const controlsCells = panel.ControlsWidth - 1

// renderFrame draws p with body inside it. The result is exactly the size of
// p.Bounds(); the header controls and grip land on the cells panel.Chrome
// reports for hit testing.
func renderFrame(p *panel.Panel, body string, st Styles, opts frameOptions) string {
	c := p.Chrome()
	w, h := c.Frame.W, c.Frame.H
	if w < 2 || h < 2 {
		return ""
	}
	inner := w - 2

	titleStyle := st.TitleBlurred
	if opts.Focused {
		titleStyle = st.Title
	}
	titleWidth := inner - controlsCells - 1
	title := textutil.Truncate(p.Title(), max(titleWidth, 0))
	header := " " + titleStyle.Render(title)
	header = textutil.FitLine(header, inner-controlsCells) + st.Control.Render(controlsRow)

	rows := []string{header}
	if c.Body.H > 0 {
		rows = append(rows, textutil.FitBlock(body, c.Body.W, c.Body.H))
	}

	border := lipgloss.RoundedBorder()
	if c.HasGrip {
		border.BottomRight = panel.GlyphGrip
	}
	color := st.BorderBlurred
	switch {
	case opts.Highlighted:
		color = st.BorderHighlighted
		border = lipgloss.DoubleBorder()
		if c.HasGrip {
			border.BottomRight = panel.GlyphGrip
		}
	case opts.Focused:
		color = st.BorderFocused
	}

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(inner).
		Height(h - 2).
		MaxHeight(h).
		Render(strings.Join(rows, "\n"))
}
