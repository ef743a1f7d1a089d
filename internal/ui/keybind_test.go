package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", "Quit", tea.Quit)
	reg.Bind("space q", "Quit", tea.Quit)
	reg.Bind("j", "", nil)

	if reg.Lookup("q", ModeNormal) == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q", ModeInspect) == nil {
		t.Error("expected SPC q to be bound in every mode")
	}
	if reg.Lookup("j", ModeNormal) != nil {
		t.Error("nil command should not count as bound")
	}
	if reg.Lookup("unknown", ModeNormal) != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeybindRegistry_ModeScoped(t *testing.T) {
	reg := NewKeybindRegistry()
	on := func() tea.Msg { return "on" }
	off := func() tea.Msg { return "off" }
	reg.Bind("SPC i", "Inspect", on, ModeNormal)
	reg.Bind("SPC i", "Stop inspecting", off, ModeInspect)
	reg.Bind("esc", "Stop inspecting", off, ModeInspect)

	if got := reg.Lookup("SPC i", ModeNormal)(); got != "on" {
		t.Errorf("normal SPC i = %v", got)
	}
	if got := reg.Lookup("SPC i", ModeInspect)(); got != "off" {
		t.Errorf("inspect SPC i = %v", got)
	}
	if reg.Lookup("esc", ModeNormal) != nil {
		t.Error("esc should be unbound in normal mode")
	}

	reg.Bind("SPC i", "Override", tea.Quit)
	if reg.Lookup("SPC i", ModeInspect) == nil || reg.LeaderHints("", ModeInspect)["i"] != "Override" {
		t.Error("latest binding should win")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", "", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "), ModeNormal)
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.Pending() || h.Sequence() != "SPC" {
		t.Errorf("expected pending SPC, got %q", h.Sequence())
	}

	consumed, cmd = h.Handle(keyMsg("x"), ModeNormal)
	if !consumed || cmd == nil {
		t.Fatalf("x: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.Pending() {
		t.Error("sequence should be complete")
	}
	cmd()
	if !executed {
		t.Error("expected command to execute")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", "", tea.Quit)
	reg.Bind("esc", "", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeNormal)
	consumed, cmd := h.Handle(keyMsg("esc"), ModeNormal)
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.Pending() {
		t.Error("esc should cancel the sequence")
	}
}

func TestKeyHandler_SequenceRespectsMode(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC i", "Stop inspecting", tea.Quit, ModeInspect)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeNormal)
	consumed, cmd := h.Handle(keyMsg("i"), ModeNormal)
	if !consumed || cmd != nil || h.Pending() {
		t.Errorf("normal: consumed=%v cmd=%v pending=%v", consumed, cmd, h.Pending())
	}

	h.Handle(keyMsg(" "), ModeInspect)
	if _, cmd := h.Handle(keyMsg("i"), ModeInspect); cmd == nil {
		t.Error("expected inspect binding")
	}
}

func TestKeyHandler_PrefixKeepsWaiting(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC p c", "Close", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeNormal)
	h.Handle(keyMsg("p"), ModeNormal)
	if h.Sequence() != "SPC p" {
		t.Errorf("sequence = %q", h.Sequence())
	}
	h.Handle(keyMsg("z"), ModeNormal)
	if h.Pending() {
		t.Error("unknown key should end the sequence")
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", "", tea.Quit)
	h := NewKeyHandler(reg)

	if consumed, cmd := h.Handle(keyMsg("q"), ModeNormal); !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
	if consumed, _ := h.Handle(keyMsg("j"), ModeNormal); consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", "Quit", tea.Quit)
	reg.Bind("SPC p c", "Close panel", tea.Quit)
	reg.Bind("SPC p f", "Fullscreen", tea.Quit)
	reg.Bind("SPC i", "Inspect off", tea.Quit, ModeInspect)
	reg.Bind("SPC z", "", tea.Quit)

	hints := reg.LeaderHints("", ModeNormal)
	if hints["q"] != "Quit" {
		t.Errorf("q hint = %q", hints["q"])
	}
	if hints["p"] != "Panel" {
		t.Errorf("p hint = %q, want submenu label", hints["p"])
	}
	if hints["z"] != "SPC z" {
		t.Errorf("z hint = %q, want the sequence", hints["z"])
	}
	if _, ok := hints["i"]; ok {
		t.Error("inspect-only binding shown in normal mode")
	}

	sub := reg.LeaderHints("SPC p", ModeNormal)
	if sub["c"] != "Close panel" || sub["f"] != "Fullscreen" {
		t.Errorf("SPC p hints = %v", sub)
	}
	if reg.LeaderHints("", ModeInspect)["i"] != "Inspect off" {
		t.Error("expected inspect binding in inspect mode")
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC q", "Quit", tea.Quit)
	h := NewKeyHandler(reg)
	st := NewStyles(DefaultTheme())

	if RenderKeybindHelp(h, ModeNormal, st) != "" {
		t.Error("help should be hidden outside leader mode")
	}
	h.Handle(keyMsg(" "), ModeNormal)
	out := RenderKeybindHelp(h, ModeNormal, st)
	if !strings.Contains(out, "Quit") || !strings.Contains(out, "SPC") || !strings.Contains(out, "cancel") {
		t.Errorf("unexpected help: %q", out)
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// typeText feeds s to fn one rune at a time.
func typeText(s string, fn func(tea.KeyMsg)) {
	for _, r := range s {
		if r == ' ' {
			fn(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		fn(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
