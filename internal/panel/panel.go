package panel

import "fmt"

// geometry is the normal-state placement of a panel. Minimized and
// fullscreen bounds are projections of it, which is what lets both toggles
// restore the previous geometry exactly.
type geometry struct {
	pos    Point
	placed bool // false: docked at anchor, resolved against the viewport
	anchor Anchor
	size   Size
}

// Panel is one floating window. Handles stay valid after Close; every
// mutating method then returns ErrClosed.
type Panel struct {
	id      string
	title   string
	content Content
	mgr     *Manager

	geom      geometry
	state     ViewState
	rank      int
	closed    bool
	renderErr error
}

// ID returns the panel's unique identifier.
func (p *Panel) ID() string { return p.id }

// Title returns the header title.
func (p *Panel) Title() string { return p.title }

// SetTitle replaces the header title.
func (p *Panel) SetTitle(title string) { p.title = title }

// Content returns the payload hosted by the panel.
func (p *Panel) Content() Content { return p.content }

// Rank returns the z-order rank; higher draws on top.
func (p *Panel) Rank() int { return p.rank }

// State returns the current view state.
func (p *Panel) State() ViewState { return p.state }

// Closed reports whether Close has been called.
func (p *Panel) Closed() bool { return p.closed }

// Docked reports whether the panel is docked to a corner rather than placed
// at an explicit position, and which corner.
func (p *Panel) Docked() (Anchor, bool) { return p.geom.anchor, !p.geom.placed }

// LastRenderError returns the error from the most recent Render, if any.
func (p *Panel) LastRenderError() error { return p.renderErr }

// Bounds returns the panel's rectangle in viewport coordinates for its
// current view state.
func (p *Panel) Bounds() Rect {
	if p.state == StateFullscreen {
		vp := p.mgr.viewport
		return Rect{X: 0, Y: 0, W: vp.W, H: vp.H}
	}
	r := p.normalBounds()
	if p.state == StateMinimized {
		r.H = MinimizedHeight
	}
	return r
}

func (p *Panel) normalBounds() Rect {
	origin := p.geom.pos
	if !p.geom.placed {
		origin = p.geom.anchor.place(p.geom.size, p.mgr.viewport, DockMargin)
	}
	return Rect{X: origin.X, Y: origin.Y, W: p.geom.size.W, H: p.geom.size.H}
}

// pin turns a docked placement into an explicit one at the same origin.
func (p *Panel) pin() {
	if p.geom.placed {
		return
	}
	p.geom.pos = p.normalBounds().Origin()
	p.geom.placed = true
}

// Raise makes the panel frontmost.
func (p *Panel) Raise() error {
	if p.closed {
		return ErrClosed
	}
	p.mgr.raise(p)
	return nil
}

// StartDrag begins moving the panel, capturing the offset between the
// pointer and the panel origin. Fullscreen panels do not move.
func (p *Panel) StartDrag(at Point) error {
	if p.closed {
		return ErrClosed
	}
	if p.state == StateFullscreen {
		return nil
	}
	p.mgr.drag = &drag{panel: p, kind: dragMove, offset: at.Sub(p.normalBounds().Origin())}
	return nil
}

// DragTo moves the panel so the offset captured by StartDrag is preserved.
// It does nothing unless this panel owns the active drag. A docked panel
// becomes explicitly placed on its first move.
func (p *Panel) DragTo(at Point) error {
	if p.closed {
		return ErrClosed
	}
	d := p.mgr.drag
	if d == nil || d.panel != p || d.kind != dragMove {
		return nil
	}
	p.geom.placed = true
	p.geom.pos = at.Sub(d.offset)
	return nil
}

// StartResize begins resizing from the bottom-right grip. Only panels in the
// normal state resize.
func (p *Panel) StartResize(at Point) error {
	if p.closed {
		return ErrClosed
	}
	if p.state != StateNormal {
		return nil
	}
	p.mgr.drag = &drag{panel: p, kind: dragResize, start: at, size: p.geom.size}
	return nil
}

// ResizeTo grows or shrinks the panel by the pointer's travel since
// StartResize. The origin stays put; the size never drops below
// MinWidth x MinHeight.
func (p *Panel) ResizeTo(at Point) error {
	if p.closed {
		return ErrClosed
	}
	d := p.mgr.drag
	if d == nil || d.panel != p || d.kind != dragResize {
		return nil
	}
	p.pin()
	delta := at.Sub(d.start)
	p.geom.size = clampSize(Size{W: d.size.W + delta.X, H: d.size.H + delta.Y})
	return nil
}

// EndDrag finishes an active move or resize. There is no inertia or
// snapping.
func (p *Panel) EndDrag() error {
	if p.closed {
		return ErrClosed
	}
	d := p.mgr.drag
	if d == nil || d.panel != p {
		return nil
	}
	p.mgr.drag = nil
	if d.kind == dragResize {
		p.mgr.emit(EventResized, p, nil)
	} else {
		p.mgr.emit(EventMoved, p, nil)
	}
	return nil
}

// ToggleFullscreen alternates between the normal geometry and the full
// viewport. Leaving fullscreen always lands in the normal state.
func (p *Panel) ToggleFullscreen() error {
	if p.closed {
		return ErrClosed
	}
	p.mgr.cancelDrag(p)
	if p.state == StateFullscreen {
		p.state = StateNormal
	} else {
		p.mgr.undock(p)
		p.state = StateFullscreen
	}
	p.mgr.emit(EventStateChanged, p, nil)
	return nil
}

// ToggleMinimize alternates between the normal height and a header-only
// height. Width and position are preserved.
func (p *Panel) ToggleMinimize() error {
	if p.closed {
		return ErrClosed
	}
	p.mgr.cancelDrag(p)
	if p.state == StateMinimized {
		p.state = StateNormal
		p.mgr.undock(p)
	} else {
		p.state = StateMinimized
		p.mgr.dockPanel(p)
	}
	p.mgr.emit(EventStateChanged, p, nil)
	return nil
}

// CycleCorner docks the panel to the next viewport corner. A panel placed at
// an explicit position docks to the bottom-right first.
func (p *Panel) CycleCorner() error {
	if p.closed {
		return ErrClosed
	}
	if p.state != StateNormal {
		return nil
	}
	if p.geom.placed {
		p.geom.placed = false
		p.geom.anchor = AnchorBottomRight
	} else {
		p.geom.anchor = p.geom.anchor.next()
	}
	p.mgr.emit(EventMoved, p, nil)
	return nil
}

// Close removes the panel permanently, along with its dock entry.
func (p *Panel) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.mgr.remove(p)
	p.closed = true
	p.mgr.emit(EventClosed, p, nil)
	return nil
}

// Render renders the content into the body area. A content error or panic
// is converted into a *RenderError and an inline placeholder; the chrome is
// unaffected.
func (p *Panel) Render() (body string, err error) {
	if p.closed {
		return "", ErrClosed
	}
	area := p.Chrome().Body
	if area.Empty() || p.content == nil {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = p.renderFailed(&panicError{value: r})
			body = Placeholder(err)
		}
	}()
	out, cerr := p.content.Render(area.W, area.H)
	if cerr != nil {
		err = p.renderFailed(cerr)
		return Placeholder(err), err
	}
	p.renderErr = nil
	return out, nil
}

func (p *Panel) renderFailed(cause error) error {
	err := &RenderError{PanelID: p.id, Title: p.title, Cause: cause}
	if p.renderErr == nil || p.renderErr.Error() != err.Error() {
		p.mgr.emit(EventRenderFailed, p, err)
	}
	p.renderErr = err
	return err
}

// Placeholder is the body text shown in place of content that failed to
// render.
func Placeholder(err error) string {
	var cause error = err
	if re, ok := err.(*RenderError); ok {
		cause = re.Cause
	}
	return fmt.Sprintf("⚠ content unavailable: %v", cause)
}
