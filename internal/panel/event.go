package panel

// EventKind identifies a manager notification.
type EventKind int

const (
	EventCreated EventKind = iota
	EventRaised
	EventMoved
	EventResized
	EventStateChanged
	EventClosed
	EventRenderFailed
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventRaised:
		return "raised"
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventStateChanged:
		return "state"
	case EventClosed:
		return "closed"
	case EventRenderFailed:
		return "render-failed"
	default:
		return "unknown"
	}
}

// Event describes a change to one panel, captured after the change.
type Event struct {
	Kind    EventKind
	PanelID string
	Title   string
	Rank    int
	State   ViewState
	Bounds  Rect
	Err     error // set for EventRenderFailed
}
