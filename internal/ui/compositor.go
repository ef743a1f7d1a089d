package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// resetStyle ends styling carried over from the cells left of an overlay.
const resetStyle = "\x1b[m"

// blankCanvas returns height lines of width spaces.
func blankCanvas(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// overlayAt composites overlay on top of base with its top-left cell at
// (x, y). Both are line-based grids of width x height cells; parts of the
// overlay outside the grid, including negative offsets, are clipped.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)

	// clip on the left
	skip := 0
	if x < 0 {
		skip = -x
		overlayWidth -= skip
		x = 0
	}
	if overlayWidth <= 0 || x >= width {
		return base
	}
	if x+overlayWidth > width {
		overlayWidth = width - x
	}

	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if lw := ansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}
		if strings.Contains(left, "\x1b") {
			left += resetStyle
		}

		cell := padRight(line, skip+overlayWidth)
		if skip > 0 {
			cell = ansi.TruncateLeft(cell, skip, "")
		}
		cell = padRight(ansi.Truncate(cell, overlayWidth, ""), overlayWidth)

		pos := x + overlayWidth
		right := ansi.TruncateLeft(target, pos, "")
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}

		baseLines[row] = left + cell + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
