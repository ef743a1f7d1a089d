package ui

// OpenToolMsg asks the app to open a panel hosting the named tool.
type OpenToolMsg struct {
	Name string
}

// PanelAction is a keyboard shortcut applied to the focused panel.
type PanelAction int

const (
	ActionClose PanelAction = iota
	ActionFullscreen
	ActionMinimize
	ActionCycleCorner
	ActionFocusNext
	ActionFocusPrev
	ActionRestoreDocked
)

// PanelActionMsg applies an action to the focused panel.
type PanelActionMsg struct {
	Action PanelAction
}

// ToggleInspectMsg turns inspect mode on or off.
type ToggleInspectMsg struct{}

// ShowModalMsg pushes a modal above every panel.
type ShowModalMsg struct {
	View View
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// consoleUpdatedMsg reports new lines in the console sink.
type consoleUpdatedMsg struct{}
