package ui

import (
	"github.com/charmbracelet/lipgloss"

	"debugdeck/internal/config"
)

// Default theme colors (ANSI 256).
const (
	ColorAccent    = "86"  // titles, focused borders
	ColorHighlight = "205" // selection, inspector highlight
	ColorDanger    = "196" // errors, destructive actions
	ColorMuted     = "241" // hints, unfocused borders
	ColorText      = "252" // normal text
	ColorWarning   = "208" // warning details
)

// Theme is the palette the styles are built from.
type Theme struct {
	Accent    string
	Highlight string
	Danger    string
	Muted     string
	Text      string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:    ColorAccent,
		Highlight: ColorHighlight,
		Danger:    ColorDanger,
		Muted:     ColorMuted,
		Text:      ColorText,
	}
}

// ThemeFromConfig builds a theme from configured colors, keeping defaults
// for empty values.
func ThemeFromConfig(c config.ThemeConfig) Theme {
	t := DefaultTheme()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Accent, c.Accent)
	set(&t.Highlight, c.Highlight)
	set(&t.Danger, c.Danger)
	set(&t.Muted, c.Muted)
	set(&t.Text, c.Text)
	return t
}

// Styles contains shared style definitions used by the frame, the dock and
// the tools.
type Styles struct {
	// Frame borders
	BorderFocused     lipgloss.Color
	BorderBlurred     lipgloss.Color
	BorderHighlighted lipgloss.Color

	// Title styles
	Title        lipgloss.Style // focused panel title
	TitleBlurred lipgloss.Style
	TitleWarning lipgloss.Style
	Control      lipgloss.Style // header buttons

	// Modal box
	BoxWarning lipgloss.Style

	// Text styles
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
	Label    lipgloss.Style
	Details  lipgloss.Style
	Action   lipgloss.Style // clickable labels such as [explore]

	// Dock bar
	Dock      lipgloss.Style
	DockEntry lipgloss.Style

	// Console levels
	LevelDebug lipgloss.Style
	LevelWarn  lipgloss.Style
	LevelError lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		BorderFocused:     lipgloss.Color(t.Accent),
		BorderBlurred:     lipgloss.Color(t.Muted),
		BorderHighlighted: lipgloss.Color(t.Highlight),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Accent)),
		TitleBlurred: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		TitleWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Danger)),
		Control: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		BoxWarning: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Danger)).
			Padding(1, 2),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Highlight)).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Italic(true),
		Label: lipgloss.NewStyle(),
		Details: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)),
		Action: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Underline(true),

		Dock: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		DockEntry: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color("236")),

		LevelDebug: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		LevelWarn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)),
		LevelError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
	}
}
