// Package console collects log lines for the Console panel. Lines come from
// the program's own slog output and from external processes posting to the
// ingest server.
package console

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a console line.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel maps a loose level name to a Level. Unknown names are info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "err", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelFromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// Source says where a line came from.
type Source string

const (
	SourceApp    Source = "app"
	SourceIngest Source = "ingest"
)

// Line is one console entry.
type Line struct {
	Seq     uint64
	Time    time.Time
	Level   Level
	Source  Source
	Message string
}

// String renders the line as it appears in the panel.
func (l Line) String() string {
	return fmt.Sprintf("%s %-5s %s", l.Time.Format("15:04:05"), strings.ToUpper(string(l.Level)), l.Message)
}
