package panel

// ViewState is the dimension state of a panel. A panel is in exactly one
// state at a time.
type ViewState int

const (
	StateNormal ViewState = iota
	StateMinimized
	StateFullscreen
)

func (s ViewState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateFullscreen:
		return "fullscreen"
	default:
		return "unknown"
	}
}
