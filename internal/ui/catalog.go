package ui

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	oteltrace "go.opentelemetry.io/otel/trace"

	"debugdeck/internal/console"
	"debugdeck/internal/kvstore"
	"debugdeck/internal/panel"
)

// Deps are the collaborators tools are built with. Nil fields degrade the
// tools that need them; they never panic.
type Deps struct {
	Sink         *console.Sink
	Store        *kvstore.Store
	DatabaseRoot string
	Tracer       oteltrace.Tracer
	Logger       *slog.Logger
	Shell        string
	Styles       Styles
	Inspection   *Inspection
}

// ToolSpec describes a tool the toolbox can open.
type ToolSpec struct {
	Name        string
	Key         string // SPC o <Key> opens it
	Description string
	Place       []panel.CreateOption // size and corner; empty uses the defaults
	New         func(Deps, []ToolSpec) Tool
}

// Tool names.
const (
	ToolToolbox   = "Toolbox"
	ToolConsole   = "Console"
	ToolDatabase  = "Database"
	ToolInspector = "Inspector"
	ToolExec      = "Exec"
)

// DefaultCatalog returns every built-in tool.
func DefaultCatalog() []ToolSpec {
	return []ToolSpec{
		{
			Name:        ToolToolbox,
			Key:         "t",
			Description: "launch tools",
			Place:       []panel.CreateOption{panel.Sized(panel.Size{W: 34, H: 10}), panel.Docked(panel.AnchorTopLeft)},
			New: func(d Deps, c []ToolSpec) Tool {
				return NewToolboxTool(c, d.Styles)
			},
		},
		{
			Name:        ToolConsole,
			Key:         "c",
			Description: "log output and ingested lines",
			New: func(d Deps, _ []ToolSpec) Tool {
				return NewConsoleTool(d.Sink, d.Styles)
			},
		},
		{
			Name:        ToolDatabase,
			Key:         "d",
			Description: "browse and edit the key-value store",
			Place:       []panel.CreateOption{panel.Sized(panel.Size{W: 56, H: 16})},
			New: func(d Deps, _ []ToolSpec) Tool {
				return NewDatabaseTool(d.Store, d.DatabaseRoot, d.Styles)
			},
		},
		{
			Name:        ToolInspector,
			Key:         "i",
			Description: "highlight panels and show their state",
			Place:       []panel.CreateOption{panel.Sized(panel.Size{W: 44, H: 12}), panel.Docked(panel.AnchorTopRight)},
			New: func(d Deps, _ []ToolSpec) Tool {
				return NewInspectorTool(d.Inspection, d.Styles)
			},
		},
		{
			Name:        ToolExec,
			Key:         "x",
			Description: "run a shell command",
			Place:       []panel.CreateOption{panel.Sized(panel.Size{W: 60, H: 16}), panel.Docked(panel.AnchorBottomLeft)},
			New: func(d Deps, _ []ToolSpec) Tool {
				return NewExecTool(d.Shell, d.Tracer, d.Styles)
			},
		},
	}
}

// findTool looks a spec up by case-insensitive name.
func findTool(specs []ToolSpec, name string) (ToolSpec, bool) {
	for _, s := range specs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ToolSpec{}, false
}

// rankTools filters specs by query. Prefix matches come first, then
// substring matches, then names whose prefix is within a few edits of the
// query. An empty query returns specs unchanged.
func rankTools(specs []ToolSpec, query string) []ToolSpec {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return specs
	}
	typos := max(len([]rune(q))/3, 1)

	type scored struct {
		spec  ToolSpec
		score int
	}
	var hits []scored
	for _, s := range specs {
		name := strings.ToLower(s.Name)
		switch {
		case strings.HasPrefix(name, q):
			hits = append(hits, scored{s, 0})
		case strings.Contains(name, q):
			hits = append(hits, scored{s, 1})
		default:
			r := []rune(name)
			head := string(r[:min(len(r), len([]rune(q)))])
			if d := levenshtein.ComputeDistance(q, head); d <= typos {
				hits = append(hits, scored{s, 1 + d})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]ToolSpec, len(hits))
	for i, h := range hits {
		out[i] = h.spec
	}
	return out
}
