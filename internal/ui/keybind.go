package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// leaderSeq is the canonical name of the leader key in sequences.
const leaderSeq = "SPC"

// binding is one command bound to a key sequence. A binding with no modes
// applies in every mode.
type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode
}

func (b binding) activeIn(mode AppMode) bool {
	if len(b.modes) == 0 {
		return true
	}
	for _, m := range b.modes {
		if m == mode {
			return true
		}
	}
	return false
}

// KeybindRegistry maps key sequences to commands per AppMode.
// Sequences use spacemacs-style notation: "SPC p c" is space, then p, then c.
// Single keys are written as Bubble Tea names them: "esc", "ctrl+c".
type KeybindRegistry struct {
	bindings map[string][]binding
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string][]binding)}
}

// Bind registers cmd for seq in the given modes, or in every mode when none
// are given. A sequence may carry different commands in different modes; the
// most recent binding active in a mode wins.
func (r *KeybindRegistry) Bind(seq, desc string, cmd tea.Cmd, modes ...AppMode) {
	n := normalizeSeq(seq)
	r.bindings[n] = append(r.bindings[n], binding{cmd: cmd, desc: desc, modes: modes})
}

func (r *KeybindRegistry) find(seq string, mode AppMode) (binding, bool) {
	bs := r.bindings[seq]
	for i := len(bs) - 1; i >= 0; i-- {
		if bs[i].cmd != nil && bs[i].activeIn(mode) {
			return bs[i], true
		}
	}
	return binding{}, false
}

// Lookup returns the command bound to seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) tea.Cmd {
	b, _ := r.find(normalizeSeq(seq), mode)
	return b.cmd
}

// HasPrefix reports whether a longer sequence starting with seq is bound in
// mode.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := r.find(k, mode); ok {
			return true
		}
	}
	return false
}

// submenuLabel names leader keys that open a group of bindings.
var submenuLabel = map[string]string{
	"o": "Open tool",
	"p": "Panel",
}

// LeaderHints returns the keys that may follow currentSeq in mode, with a
// label for each. An empty currentSeq means the leader alone was pressed.
// Keys that open a group are labelled with the group name.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	base := leaderSeq
	if currentSeq != "" {
		base = normalizeSeq(currentSeq)
	}
	out := make(map[string]string)
	for seq := range r.bindings {
		rest, ok := strings.CutPrefix(seq, base+" ")
		if !ok {
			continue
		}
		next, _, _ := strings.Cut(rest, " ")
		if _, seen := out[next]; seen {
			continue
		}
		child := base + " " + next
		if r.HasPrefix(child, mode) {
			if label, ok := submenuLabel[next]; ok {
				out[next] = label
			} else {
				out[next] = next + "…"
			}
			continue
		}
		if b, ok := r.find(child, mode); ok {
			out[next] = b.desc
			if b.desc == "" {
				out[next] = child
			}
		}
	}
	return out
}

// normalizeSeq converts Bubble Tea key names to sequence notation.
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	if seq == " " {
		parts = []string{" "}
	}
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return leaderSeq
	}
	return s
}

// KeyHandler tracks a pending leader sequence and resolves keys against the
// registry for the current mode.
type KeyHandler struct {
	Registry *KeybindRegistry
	pending  []string
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Pending reports whether a leader sequence is in progress.
func (h *KeyHandler) Pending() bool {
	return len(h.pending) > 0
}

// Sequence returns the keys typed so far in the pending sequence.
func (h *KeyHandler) Sequence() string {
	return strings.Join(h.pending, " ")
}

func (h *KeyHandler) reset() {
	h.pending = nil
}

// Handle resolves msg in mode. consumed is false when the key is not part
// of any binding and should go to the focused tool.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode) (consumed bool, cmd tea.Cmd) {
	part := keyToSeqPart(msg.String())

	if h.Pending() {
		if part == "esc" {
			h.reset()
			return true, nil
		}
		h.pending = append(h.pending, part)
		seq := h.Sequence()
		if c := h.Registry.Lookup(seq, mode); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq, mode) {
			h.reset()
		}
		return true, nil
	}

	if part == leaderSeq {
		h.pending = []string{leaderSeq}
		return true, nil
	}
	if c := h.Registry.Lookup(part, mode); c != nil {
		return true, c
	}
	return false, nil
}
