package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestOverlayAt(t *testing.T) {
	base := blankCanvas(10, 3)

	tests := []struct {
		name string
		x, y int
		want []string
	}{
		{"inside", 2, 1, []string{"          ", "  ab      ", "  cd      "}},
		{"clipped left", -1, 0, []string{"b         ", "d         ", "          "}},
		{"clipped right", 9, 0, []string{"         a", "         c", "          "}},
		{"clipped bottom", 0, 2, []string{"          ", "          ", "ab        "}},
		{"clipped top", 0, -1, []string{"cd        ", "          ", "          "}},
		{"fully off", 20, 0, []string{"          ", "          ", "          "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlayAt(base, "ab\ncd", tt.x, tt.y, 10, 3)
			assert.Equal(t, tt.want, strings.Split(got, "\n"))
		})
	}
}

func TestOverlayAt_StyledLayers(t *testing.T) {
	base := overlayAt(blankCanvas(8, 1), "\x1b[31mXXXX\x1b[0m", 0, 0, 8, 1)
	got := overlayAt(base, "yy", 2, 0, 8, 1)

	assert.Equal(t, "XXyy    ", ansi.Strip(got))
	assert.Equal(t, 8, ansi.StringWidth(got))
}

func TestOverlayAt_Stacking(t *testing.T) {
	canvas := blankCanvas(6, 2)
	canvas = overlayAt(canvas, "aaaa\naaaa", 0, 0, 6, 2)
	canvas = overlayAt(canvas, "bb", 3, 1, 6, 2)
	assert.Equal(t, "aaaa  \naaabb ", canvas)
}
