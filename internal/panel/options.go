package panel

import (
	"io"
	"log/slog"
	"time"
)

const (
	// MinimizedHeight is the height of a collapsed panel: top border,
	// header row, bottom border.
	MinimizedHeight = 3
	// MinWidth and MinHeight bound interactive resizing.
	MinWidth  = 20
	MinHeight = 5
	// DockMargin is the gap kept between a docked panel and the viewport edge.
	DockMargin = 1
)

// Defaults used when the manager is built without overrides.
var (
	DefaultSize        = Size{W: 48, H: 14}
	DefaultDoubleClick = 300 * time.Millisecond
)

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultSize sets the size given to panels created without Sized.
func WithDefaultSize(s Size) Option {
	return func(m *Manager) {
		if s.W >= MinWidth && s.H >= MinHeight {
			m.defaultSize = s
		}
	}
}

// WithAnchor sets the corner new panels dock to.
func WithAnchor(a Anchor) Option {
	return func(m *Manager) { m.defaultAnchor = a }
}

// WithDoubleClick sets the interval within which two header presses count
// as a double click. Zero disables corner cycling.
func WithDoubleClick(d time.Duration) Option {
	return func(m *Manager) { m.doubleClick = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used for panel lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithEventHandler registers a callback invoked synchronously after each
// panel change.
func WithEventHandler(fn func(Event)) Option {
	return func(m *Manager) { m.onEvent = fn }
}

// CreateOption customizes a single panel at creation.
type CreateOption func(*Panel)

// At places the panel at an explicit origin instead of docking it.
func At(p Point) CreateOption {
	return func(pn *Panel) {
		pn.geom.pos = p
		pn.geom.placed = true
	}
}

// Sized overrides the default size.
func Sized(s Size) CreateOption {
	return func(pn *Panel) {
		pn.geom.size = clampSize(s)
	}
}

// Docked docks the panel to the given corner.
func Docked(a Anchor) CreateOption {
	return func(pn *Panel) {
		pn.geom.anchor = a
		pn.geom.placed = false
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clampSize(s Size) Size {
	if s.W < MinWidth {
		s.W = MinWidth
	}
	if s.H < MinHeight {
		s.H = MinHeight
	}
	return s
}
