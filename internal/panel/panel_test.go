package panel

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrag_PreservesOffset(t *testing.T) {
	tests := []struct {
		name   string
		create []CreateOption
		p0, p1 Point
	}{
		{name: "docked", p0: Point{X: 75, Y: 26}, p1: Point{X: 40, Y: 10}},
		{name: "placed", create: []CreateOption{At(Point{X: 4, Y: 3})}, p0: Point{X: 9, Y: 3}, p1: Point{X: 30, Y: 20}},
		{name: "off-screen", create: []CreateOption{At(Point{X: 0, Y: 0})}, p0: Point{X: 2, Y: 1}, p1: Point{X: -10, Y: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			p := m.Create("drag", nil, tt.create...)
			origin := p.Bounds().Origin()

			require.NoError(t, p.StartDrag(tt.p0))
			assert.Same(t, p, m.Dragging())
			require.NoError(t, p.DragTo(tt.p1))

			want := tt.p1.Sub(tt.p0.Sub(origin))
			assert.Equal(t, want, p.Bounds().Origin())

			require.NoError(t, p.EndDrag())
			assert.Nil(t, m.Dragging())
			require.NoError(t, p.DragTo(Point{X: 0, Y: 0}))
			assert.Equal(t, want, p.Bounds().Origin(), "no movement after EndDrag")
		})
	}
}

func TestDrag_OnlyOwnerMoves(t *testing.T) {
	m := newTestManager(t)
	a := m.Create("a", nil, At(Point{X: 1, Y: 1}))
	b := m.Create("b", nil, At(Point{X: 60, Y: 1}))

	require.NoError(t, a.StartDrag(Point{X: 2, Y: 1}))
	require.NoError(t, b.DragTo(Point{X: 0, Y: 30}))
	assert.Equal(t, Point{X: 60, Y: 1}, b.Bounds().Origin())
	require.NoError(t, b.EndDrag())
	assert.Same(t, a, m.Dragging())
}

func TestDrag_FullscreenDoesNotMove(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("fs", nil)
	require.NoError(t, p.ToggleFullscreen())
	require.NoError(t, p.StartDrag(Point{X: 5, Y: 0}))
	require.NoError(t, p.DragTo(Point{X: 30, Y: 10}))
	assert.Equal(t, Rect{X: 0, Y: 0, W: 120, H: 40}, p.Bounds())
}

func TestToggleFullscreen_RestoresExactGeometry(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("fs", nil, At(Point{X: 7, Y: 9}), Sized(Size{W: 33, H: 12}))

	require.NoError(t, p.StartDrag(Point{X: 8, Y: 9}))
	require.NoError(t, p.DragTo(Point{X: 20, Y: 15}))
	require.NoError(t, p.EndDrag())
	before := p.Bounds()

	require.NoError(t, p.ToggleFullscreen())
	assert.Equal(t, StateFullscreen, p.State())
	assert.Equal(t, Rect{X: 0, Y: 0, W: 120, H: 40}, p.Bounds())

	require.NoError(t, p.ToggleFullscreen())
	assert.Equal(t, StateNormal, p.State())
	assert.Equal(t, before, p.Bounds())
}

func TestToggleFullscreen_FollowsViewport(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("fs", nil)
	require.NoError(t, p.ToggleFullscreen())
	m.SetViewport(Size{W: 90, H: 30})
	assert.Equal(t, Rect{X: 0, Y: 0, W: 90, H: 30}, p.Bounds())
}

func TestToggleMinimize_RestoresHeight(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("min", nil, At(Point{X: 11, Y: 5}), Sized(Size{W: 40, H: 17}))
	before := p.Bounds()

	require.NoError(t, p.ToggleMinimize())
	mini := p.Bounds()
	assert.Equal(t, StateMinimized, p.State())
	assert.Equal(t, MinimizedHeight, mini.H)
	assert.Equal(t, before.W, mini.W)
	assert.Equal(t, before.Origin(), mini.Origin())
	assert.Equal(t, []*Panel{p}, m.Dock())

	require.NoError(t, p.ToggleMinimize())
	assert.Equal(t, before, p.Bounds())
	assert.Empty(t, m.Dock())
}

func TestToggleMinimize_DockedPanelKeepsOrigin(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("min", nil)
	before := p.Bounds()
	require.NoError(t, p.ToggleMinimize())
	assert.Equal(t, before.Origin(), p.Bounds().Origin())
	require.NoError(t, p.ToggleMinimize())
	assert.Equal(t, before, p.Bounds())
}

func TestStates_AreExclusive(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("s", nil, At(Point{X: 2, Y: 2}))
	normal := p.Bounds()

	require.NoError(t, p.ToggleMinimize())
	require.NoError(t, p.ToggleFullscreen())
	assert.Equal(t, StateFullscreen, p.State())
	assert.Empty(t, m.Dock(), "leaving minimized removes the dock entry")

	require.NoError(t, p.ToggleMinimize())
	assert.Equal(t, StateMinimized, p.State())
	require.NoError(t, p.ToggleMinimize())
	assert.Equal(t, StateNormal, p.State())
	assert.Equal(t, normal, p.Bounds())
}

func TestResize_ClampsToMinimum(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("r", nil, At(Point{X: 10, Y: 10}), Sized(Size{W: 30, H: 10}))
	grip := p.Chrome().Grip

	require.NoError(t, p.StartResize(grip))
	require.NoError(t, p.ResizeTo(grip.Add(Point{X: 5, Y: 3})))
	assert.Equal(t, Rect{X: 10, Y: 10, W: 35, H: 13}, p.Bounds())

	require.NoError(t, p.ResizeTo(grip.Add(Point{X: -50, Y: -50})))
	assert.Equal(t, Size{W: MinWidth, H: MinHeight}, p.Bounds().Size())
	require.NoError(t, p.EndDrag())
}

func TestResize_DockedPanelKeepsOrigin(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("r", nil)
	origin := p.Bounds().Origin()
	grip := p.Chrome().Grip

	require.NoError(t, p.StartResize(grip))
	require.NoError(t, p.ResizeTo(grip.Add(Point{X: -4, Y: -2})))
	assert.Equal(t, origin, p.Bounds().Origin())
	_, docked := p.Docked()
	assert.False(t, docked)
}

func TestResize_IgnoredOutsideNormal(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("r", nil)
	require.NoError(t, p.ToggleMinimize())
	require.NoError(t, p.StartResize(Point{X: 1, Y: 1}))
	assert.Nil(t, m.Dragging())
}

func TestRender_PassesBodySize(t *testing.T) {
	m := newTestManager(t)
	var gotW, gotH int
	p := m.Create("r", ContentFunc(func(w, h int) (string, error) {
		gotW, gotH = w, h
		return "ok", nil
	}), Sized(Size{W: 30, H: 10}))

	body, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, 28, gotW)
	assert.Equal(t, 7, gotH)
}

func TestRender_ErrorIsIsolated(t *testing.T) {
	var events []Event
	m := newTestManager(t, WithEventHandler(func(ev Event) {
		if ev.Kind == EventRenderFailed {
			events = append(events, ev)
		}
	}))
	boom := errors.New("snapshot missing")
	p := m.Create("db", ContentFunc(func(int, int) (string, error) { return "", boom }))
	other := m.Create("other", nil, Docked(AnchorTopLeft))

	body, err := p.Render()
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, p.ID(), re.PanelID)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, body, "snapshot missing")
	_, _ = p.Render()
	assert.Len(t, events, 1, "repeated identical failures are reported once")

	require.NoError(t, p.Raise())
	require.NoError(t, p.StartDrag(Point{X: 80, Y: 26}))
	require.NoError(t, p.DragTo(Point{X: 70, Y: 20}))
	require.NoError(t, p.EndDrag())
	require.NoError(t, p.Close())
	assert.False(t, other.Closed())
}

func TestRender_PanicIsIsolated(t *testing.T) {
	m := newTestManager(t)
	p := m.Create("boom", ContentFunc(func(int, int) (string, error) {
		var list []string
		return list[3], nil
	}))

	var body string
	var err error
	require.NotPanics(t, func() { body, err = p.Render() })
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.True(t, strings.HasPrefix(body, "⚠"))
	assert.Equal(t, err, p.LastRenderError())

	require.NoError(t, p.ToggleMinimize())
	require.NoError(t, p.Close())
}

func TestRender_RecoversAfterFailure(t *testing.T) {
	m := newTestManager(t)
	fail := true
	p := m.Create("flaky", ContentFunc(func(int, int) (string, error) {
		if fail {
			return "", errors.New("not yet")
		}
		return "fine", nil
	}))
	_, err := p.Render()
	require.Error(t, err)
	fail = false
	body, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, "fine", body)
	assert.NoError(t, p.LastRenderError())
}

func TestAnchor_Parse(t *testing.T) {
	for a := AnchorBottomRight; a <= AnchorTopRight; a++ {
		got, err := ParseAnchor(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAnchor("middle")
	assert.Error(t, err)
}
