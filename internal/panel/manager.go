package panel

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

type dragKind int

const (
	dragMove dragKind = iota
	dragResize
)

// drag is the single active pointer interaction. Only one panel can be
// dragged at a time.
type drag struct {
	panel  *Panel
	kind   dragKind
	offset Point // move: pointer minus panel origin
	start  Point // resize: pointer at StartResize
	size   Size  // resize: size at StartResize
}

// headerPress remembers the last header press for double-click detection.
type headerPress struct {
	panelID string
	at      time.Time
}

// Manager owns the open panels, their ranks, the dock of minimized panels
// and the active drag.
type Manager struct {
	panels    []*Panel // open panels in creation order
	dock      []*Panel // minimized panels in the order they were minimized
	viewport  Size
	drag      *drag
	lastPress headerPress

	defaultSize   Size
	defaultAnchor Anchor
	doubleClick   time.Duration
	now           func() time.Time
	onEvent       func(Event)
	log           *slog.Logger
}

// NewManager creates an empty manager. The viewport starts at 80x24 until
// SetViewport is called.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		viewport:      Size{W: 80, H: 24},
		defaultSize:   DefaultSize,
		defaultAnchor: AnchorBottomRight,
		doubleClick:   DefaultDoubleClick,
		now:           time.Now,
		log:           discardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetViewport records the drawable area. Docked and fullscreen panels follow
// it; explicitly placed panels keep their coordinates.
func (m *Manager) SetViewport(s Size) {
	m.viewport = s
}

// Viewport returns the drawable area.
func (m *Manager) Viewport() Size { return m.viewport }

// Create opens a new panel at the default corner with the default size and
// makes it frontmost.
func (m *Manager) Create(title string, content Content, opts ...CreateOption) *Panel {
	p := &Panel{
		id:      uuid.NewString(),
		title:   title,
		content: content,
		mgr:     m,
		geom: geometry{
			anchor: m.defaultAnchor,
			size:   m.defaultSize,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rank = m.maxRank(nil) + 1
	m.panels = append(m.panels, p)
	m.log.Debug("panel created", "id", p.id, "title", title, "rank", p.rank, "bounds", p.Bounds().String())
	m.emit(EventCreated, p, nil)
	return p
}

// Len returns the number of open panels.
func (m *Manager) Len() int { return len(m.panels) }

// Get returns the open panel with the given id.
func (m *Manager) Get(id string) (*Panel, bool) {
	for _, p := range m.panels {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Panels returns the open panels in creation order.
func (m *Manager) Panels() []*Panel {
	return slices.Clone(m.panels)
}

// Ordered returns the open panels back to front (ascending rank), the order
// in which they should be painted.
func (m *Manager) Ordered() []*Panel {
	out := slices.Clone(m.panels)
	slices.SortFunc(out, func(a, b *Panel) int { return a.rank - b.rank })
	return out
}

// Front returns the frontmost open panel, or nil when none are open.
func (m *Manager) Front() *Panel {
	var front *Panel
	for _, p := range m.panels {
		if front == nil || p.rank > front.rank {
			front = p
		}
	}
	return front
}

// Dock returns the minimized panels in the order they were minimized.
func (m *Manager) Dock() []*Panel {
	return slices.Clone(m.dock)
}

// Restore brings a minimized panel back to the normal state and raises it.
func (m *Manager) Restore(p *Panel) error {
	if p.closed {
		return ErrClosed
	}
	if p.state == StateMinimized {
		if err := p.ToggleMinimize(); err != nil {
			return err
		}
	}
	return p.Raise()
}

// Dragging returns the panel that owns the active drag, if any.
func (m *Manager) Dragging() *Panel {
	if m.drag == nil {
		return nil
	}
	return m.drag.panel
}

// PanelAt returns the frontmost open panel whose bounds contain pt.
func (m *Manager) PanelAt(pt Point) *Panel {
	var hit *Panel
	for _, p := range m.panels {
		if !p.Bounds().Contains(pt) {
			continue
		}
		if hit == nil || p.rank > hit.rank {
			hit = p
		}
	}
	return hit
}

// raise assigns p a rank one greater than the current maximum among the
// other open panels. The read and the write happen in one call so no other
// raise can interleave.
func (m *Manager) raise(p *Panel) {
	top := m.maxRank(p)
	if p.rank > top {
		return
	}
	p.rank = top + 1
	m.log.Debug("panel raised", "id", p.id, "title", p.title, "rank", p.rank)
	m.emit(EventRaised, p, nil)
}

// maxRank returns the highest rank among open panels other than skip.
func (m *Manager) maxRank(skip *Panel) int {
	top := 0
	for _, p := range m.panels {
		if p != skip && p.rank > top {
			top = p.rank
		}
	}
	return top
}

func (m *Manager) dockPanel(p *Panel) {
	if !slices.Contains(m.dock, p) {
		m.dock = append(m.dock, p)
	}
}

func (m *Manager) undock(p *Panel) {
	m.dock = slices.DeleteFunc(m.dock, func(q *Panel) bool { return q == p })
}

func (m *Manager) cancelDrag(p *Panel) {
	if m.drag != nil && m.drag.panel == p {
		m.drag = nil
	}
}

func (m *Manager) remove(p *Panel) {
	m.cancelDrag(p)
	m.undock(p)
	m.panels = slices.DeleteFunc(m.panels, func(q *Panel) bool { return q == p })
	if m.lastPress.panelID == p.id {
		m.lastPress = headerPress{}
	}
	m.log.Debug("panel closed", "id", p.id, "title", p.title)
}

func (m *Manager) emit(kind EventKind, p *Panel, err error) {
	if m.onEvent == nil {
		return
	}
	m.onEvent(Event{
		Kind:    kind,
		PanelID: p.id,
		Title:   p.title,
		Rank:    p.rank,
		State:   p.state,
		Bounds:  p.Bounds(),
		Err:     err,
	})
}
