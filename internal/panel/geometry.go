package panel

import "fmt"

// Point is a cell coordinate. X grows right, Y grows down.
type Point struct {
	X, Y int
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is a width and height in cells.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Rect is an axis-aligned rectangle. It spans [X, X+W) by [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.W, r.H, r.X, r.Y)
}

// Anchor names the viewport corner an unplaced panel is docked to.
type Anchor int

const (
	AnchorBottomRight Anchor = iota
	AnchorBottomLeft
	AnchorTopLeft
	AnchorTopRight
)

func (a Anchor) String() string {
	switch a {
	case AnchorBottomRight:
		return "bottom-right"
	case AnchorBottomLeft:
		return "bottom-left"
	case AnchorTopLeft:
		return "top-left"
	case AnchorTopRight:
		return "top-right"
	default:
		return "unknown"
	}
}

// ParseAnchor converts a config value such as "top-left" into an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	for a := AnchorBottomRight; a <= AnchorTopRight; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return AnchorBottomRight, fmt.Errorf("unknown anchor %q", s)
}

// next returns the corner visited after a when cycling clockwise from the
// bottom-right.
func (a Anchor) next() Anchor {
	switch a {
	case AnchorBottomRight:
		return AnchorBottomLeft
	case AnchorBottomLeft:
		return AnchorTopLeft
	case AnchorTopLeft:
		return AnchorTopRight
	default:
		return AnchorBottomRight
	}
}

// place resolves the origin of a panel of the given size docked at a,
// keeping margin cells between the panel and the viewport edges.
func (a Anchor) place(size, viewport Size, margin int) Point {
	left := margin
	top := margin
	right := viewport.W - size.W - margin
	bottom := viewport.H - size.H - margin
	switch a {
	case AnchorBottomLeft:
		return Point{X: left, Y: bottom}
	case AnchorTopLeft:
		return Point{X: left, Y: top}
	case AnchorTopRight:
		return Point{X: right, Y: top}
	default:
		return Point{X: right, Y: bottom}
	}
}
