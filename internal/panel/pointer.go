package panel

// PointerKind is the phase of a pointer interaction.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerSource distinguishes mouse from touch input. Both are handled the
// same way.
type PointerSource int

const (
	SourceMouse PointerSource = iota
	SourceTouch
)

// PointerEvent is a host-neutral pointer event. Touch events may carry
// several points; only the first is used.
type PointerEvent struct {
	Kind   PointerKind
	Source PointerSource
	Points []Point
}

// Primary returns the point that drives the interaction.
func (e PointerEvent) Primary() (Point, bool) {
	if len(e.Points) == 0 {
		return Point{}, false
	}
	return e.Points[0], true
}

// Hit reports what a pointer event landed on.
type Hit struct {
	Panel *Panel
	Zone  Zone
	Local Point // body-relative position, meaningful for ZoneBody
}

// HandlePointer is the single pointer listener for every panel. Presses
// raise the panel under the pointer before anything else, then route to the
// control, grip or header under it. Moves and releases go to whichever panel
// owns the active drag, wherever the pointer is.
func (m *Manager) HandlePointer(ev PointerEvent) Hit {
	pt, ok := ev.Primary()
	if !ok {
		return Hit{}
	}
	switch ev.Kind {
	case PointerMove:
		if d := m.drag; d != nil {
			if d.kind == dragResize {
				_ = d.panel.ResizeTo(pt)
			} else {
				_ = d.panel.DragTo(pt)
			}
			return Hit{Panel: d.panel, Zone: ZoneHeader}
		}
		return Hit{}
	case PointerUp:
		if d := m.drag; d != nil {
			_ = d.panel.EndDrag()
			return Hit{Panel: d.panel, Zone: ZoneHeader}
		}
		return Hit{}
	}

	// A press while a drag is live means the release was lost; finish it.
	if d := m.drag; d != nil {
		_ = d.panel.EndDrag()
	}

	p := m.PanelAt(pt)
	if p == nil {
		return Hit{}
	}
	_ = p.Raise()

	chrome := p.Chrome()
	zone := chrome.ZoneAt(pt)
	hit := Hit{Panel: p, Zone: zone}
	switch zone {
	case ZoneClose:
		_ = p.Close()
	case ZoneMinimize:
		_ = p.ToggleMinimize()
	case ZoneFullscreen:
		_ = p.ToggleFullscreen()
	case ZoneResize:
		_ = p.StartResize(pt)
	case ZoneHeader:
		if m.isDoubleClick(p) {
			_ = p.CycleCorner()
		} else {
			_ = p.StartDrag(pt)
		}
	case ZoneBody:
		hit.Local = chrome.Local(pt)
	}
	return hit
}

func (m *Manager) isDoubleClick(p *Panel) bool {
	now := m.now()
	prev := m.lastPress
	m.lastPress = headerPress{panelID: p.id, at: now}
	if m.doubleClick <= 0 || prev.panelID != p.id {
		return false
	}
	if elapsed := now.Sub(prev.at); elapsed > 0 && elapsed <= m.doubleClick {
		m.lastPress = headerPress{}
		return true
	}
	return false
}
