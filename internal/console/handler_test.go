package console

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_MirrorsIntoSink(t *testing.T) {
	sink := NewSink(10)
	var file bytes.Buffer
	next := slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(NewHandler(sink, slog.LevelInfo, next))

	log.Debug("quiet")
	log.With("panel", "p1").WithGroup("drag").Warn("moved", "x", 3)

	lines := sink.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, LevelWarn, lines[0].Level)
	assert.Equal(t, "moved panel=p1 drag.x=3", lines[0].Message)

	assert.Contains(t, file.String(), "msg=quiet")
	assert.Contains(t, file.String(), "drag.x=3")
}

func TestHandler_NoNext(t *testing.T) {
	sink := NewSink(10)
	h := NewHandler(sink, nil, nil)
	log := slog.New(h)

	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
	log.Error("failed", "err", "boom")

	lines := sink.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, LevelError, lines[0].Level)
	assert.Equal(t, "failed err=boom", lines[0].Message)
}
