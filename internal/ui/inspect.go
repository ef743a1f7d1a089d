package ui

import "debugdeck/internal/panel"

// Inspection is the state of inspect mode, shared by the app (which routes
// presses into it) and the inspector tools (which display it).
type Inspection struct {
	Active      bool
	Target      *panel.Panel
	LastEvent   panel.Event
	HasEvent    bool
	highlighted map[string]bool
}

// NewInspection returns inspect state with no highlights.
func NewInspection() *Inspection {
	return &Inspection{highlighted: make(map[string]bool)}
}

// SetActive switches inspect mode. Turning it off reverts every highlight.
func (i *Inspection) SetActive(on bool) {
	i.Active = on
	if !on {
		clear(i.highlighted)
	}
}

// Toggle flips the highlight on p, makes it the target and reports whether
// it is now highlighted.
func (i *Inspection) Toggle(p *panel.Panel) bool {
	i.Target = p
	if i.highlighted[p.ID()] {
		delete(i.highlighted, p.ID())
		return false
	}
	i.highlighted[p.ID()] = true
	return true
}

// Highlighted reports whether the panel with id is highlighted.
func (i *Inspection) Highlighted(id string) bool {
	return i.highlighted[id]
}

// Count returns the number of highlighted panels.
func (i *Inspection) Count() int {
	return len(i.highlighted)
}

// Record keeps ev as the latest manager event and drops state for closed
// panels.
func (i *Inspection) Record(ev panel.Event) {
	i.LastEvent, i.HasEvent = ev, true
	if ev.Kind == panel.EventClosed {
		delete(i.highlighted, ev.PanelID)
		if i.Target != nil && i.Target.ID() == ev.PanelID {
			i.Target = nil
		}
	}
}
