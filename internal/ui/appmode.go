package ui

// AppMode represents the top-level interaction mode.
type AppMode int

const (
	// ModeNormal routes presses to panels.
	ModeNormal AppMode = iota
	// ModeInspect turns presses on panels into highlight toggles.
	ModeInspect
)

func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeInspect:
		return "Inspect"
	default:
		return "Unknown"
	}
}
