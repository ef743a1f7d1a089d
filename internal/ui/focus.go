package ui

// FocusManager rotates keyboard focus across open panels. Order is kept in
// sync with the panel manager; OnChange raises the newly focused panel.
type FocusManager struct {
	Current  string   // ID of the focused panel
	Order    []string // rotation order
	OnChange func(from, to string)
}

// Sync replaces the rotation order. When the current panel is gone, focus
// moves to the last entry, which is the frontmost.
func (f *FocusManager) Sync(order []string, current string) {
	f.Order = append(f.Order[:0], order...)
	f.Current = current
	if f.indexOf(f.Current) < 0 {
		f.Current = ""
		if len(f.Order) > 0 {
			f.Current = f.Order[len(f.Order)-1]
		}
	}
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(dir int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.indexOf(f.Current)
	var next int
	switch {
	case idx < 0 && dir > 0:
		next = 0
	case idx < 0:
		next = n - 1
	default:
		next = ((idx+dir)%n + n) % n
	}
	from := f.Current
	f.Current = f.Order[next]
	if f.OnChange != nil && from != f.Current {
		f.OnChange(from, f.Current)
	}
	return f.Current
}

// SetFocus sets focus to the given panel ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.indexOf(id) < 0 {
		return false
	}
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
	return true
}

func (f *FocusManager) indexOf(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}
