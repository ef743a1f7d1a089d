package panel

// Header glyphs. The controls sit at the right end of the header row in
// this order, each followed by a blank cell.
const (
	GlyphMinimize   = "_"
	GlyphFullscreen = "□"
	GlyphClose      = "×"
	GlyphGrip       = "◢"
)

// ControlsWidth is the number of header cells used by the controls,
// including the blank cells around them.
const ControlsWidth = 7

// Zone classifies a point inside a panel.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneBody
	ZoneHeader
	ZoneMinimize
	ZoneFullscreen
	ZoneClose
	ZoneResize
)

func (z Zone) String() string {
	switch z {
	case ZoneBody:
		return "body"
	case ZoneHeader:
		return "header"
	case ZoneMinimize:
		return "minimize"
	case ZoneFullscreen:
		return "fullscreen"
	case ZoneClose:
		return "close"
	case ZoneResize:
		return "resize"
	default:
		return "none"
	}
}

// Chrome is the cell layout of a panel frame: a one-cell border, a header
// row below the top border, and the body inside. Renderers and hit testing
// both derive from it so they cannot disagree.
type Chrome struct {
	Frame      Rect
	Header     Rect // top border plus header row
	Body       Rect
	Minimize   Point
	Fullscreen Point
	Close      Point
	Grip       Point
	HasGrip    bool
}

// Chrome returns the frame layout for the panel's current bounds.
func (p *Panel) Chrome() Chrome {
	return layoutChrome(p.Bounds(), p.state == StateNormal)
}

func layoutChrome(f Rect, grip bool) Chrome {
	right := f.X + f.W - 1
	c := Chrome{
		Frame:      f,
		Header:     Rect{X: f.X, Y: f.Y, W: f.W, H: min(2, f.H)},
		Body:       Rect{X: f.X + 1, Y: f.Y + 2, W: max(f.W-2, 0), H: max(f.H-3, 0)},
		Minimize:   Point{X: right - 6, Y: f.Y + 1},
		Fullscreen: Point{X: right - 4, Y: f.Y + 1},
		Close:      Point{X: right - 2, Y: f.Y + 1},
		Grip:       Point{X: right, Y: f.Y + f.H - 1},
		HasGrip:    grip,
	}
	return c
}

// ZoneAt classifies pt against the layout.
func (c Chrome) ZoneAt(pt Point) Zone {
	if !c.Frame.Contains(pt) {
		return ZoneNone
	}
	switch {
	case c.HasGrip && pt == c.Grip:
		return ZoneResize
	case pt == c.Close:
		return ZoneClose
	case pt == c.Fullscreen:
		return ZoneFullscreen
	case pt == c.Minimize:
		return ZoneMinimize
	case c.Header.Contains(pt):
		return ZoneHeader
	default:
		return ZoneBody
	}
}

// Local converts a viewport point into body-relative coordinates.
func (c Chrome) Local(pt Point) Point {
	return pt.Sub(c.Body.Origin())
}
