package tcellterm

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dragbox/terminal"
)

func TestTranslateMouse_ButtonTransitions(t *testing.T) {
	var tr translator
	steps := []struct {
		name   string
		mask   tcell.ButtonMask
		action terminal.MouseAction
		btn    terminal.MouseButton
	}{
		{"hover", tcell.ButtonNone, terminal.MouseActionMove, terminal.MouseBtnNone},
		{"press", tcell.Button1, terminal.MouseActionPress, terminal.MouseBtnLeft},
		{"drag", tcell.Button1, terminal.MouseActionDrag, terminal.MouseBtnLeft},
		{"drag again", tcell.Button1, terminal.MouseActionDrag, terminal.MouseBtnLeft},
		{"second button", tcell.Button1 | tcell.Button2, terminal.MouseActionPress, terminal.MouseBtnRight},
		{"release all", tcell.ButtonNone, terminal.MouseActionRelease, terminal.MouseBtnLeft},
		{"hover after release", tcell.ButtonNone, terminal.MouseActionMove, terminal.MouseBtnNone},
	}

	for i, step := range steps {
		ev, ok := tr.translate(tcell.NewEventMouse(i, i+1, step.mask, tcell.ModNone))
		require.True(t, ok, step.name)
		assert.Equal(t, terminal.EventMouse, ev.Type, step.name)
		assert.Equal(t, step.action, ev.MouseAction, step.name)
		assert.Equal(t, step.btn, ev.MouseBtn, step.name)
		assert.Equal(t, i, ev.MouseX, step.name)
		assert.Equal(t, i+1, ev.MouseY, step.name)
	}
}

func TestTranslateMouse_WheelKeepsHeldButtons(t *testing.T) {
	var tr translator
	tr.translate(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))

	ev, ok := tr.translate(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, terminal.MouseActionScroll, ev.MouseAction)
	assert.Equal(t, terminal.MouseBtnWheelDown, ev.MouseBtn)

	ev, _ = tr.translate(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	assert.Equal(t, terminal.MouseActionDrag, ev.MouseAction)
}

func TestTranslateMouse_Modifiers(t *testing.T) {
	var tr translator
	ev, _ := tr.translate(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModShift|tcell.ModCtrl))
	assert.Equal(t, terminal.ModShift|terminal.ModCtrl, ev.Modifiers)
}

func TestTranslate_ResizeFocusClosed(t *testing.T) {
	var tr translator

	ev, ok := tr.translate(tcell.NewEventResize(120, 40))
	require.True(t, ok)
	assert.Equal(t, terminal.Event{Type: terminal.EventResize, Width: 120, Height: 40}, ev)

	ev, ok = tr.translate(&tcell.EventFocus{Focused: true})
	require.True(t, ok)
	assert.Equal(t, terminal.EventFocus, ev.Type)
	assert.True(t, ev.Focused)

	ev, ok = tr.translate(nil)
	require.True(t, ok)
	assert.Equal(t, terminal.EventClosed, ev.Type)
}

func TestTranslate_PasteBrackets(t *testing.T) {
	var tr translator

	_, ok := tr.translate(tcell.NewEventPaste(true))
	assert.False(t, ok, "paste start is held back")
	assert.True(t, tr.pasting)

	ev, ok := tr.translate(tcell.NewEventPaste(false))
	require.True(t, ok)
	assert.Equal(t, terminal.EventPaste, ev.Type)
	assert.False(t, tr.pasting)
}

func TestTranslate_PostedEvent(t *testing.T) {
	var tr translator
	posted := terminal.Event{Type: terminal.EventClosed}

	ev, ok := tr.translate(tcell.NewEventInterrupt(posted))
	require.True(t, ok)
	assert.Equal(t, posted, ev)

	_, ok = tr.translate(tcell.NewEventInterrupt("foreign"))
	assert.False(t, ok)
}

func newSimScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewWithScreen(sim)
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	sim.SetSize(20, 6)
	return s, sim
}

func TestScreen_PrintStagesCells(t *testing.T) {
	s, sim := newSimScreen(t)

	require.NoError(t, s.MoveTo(3, 2))
	require.NoError(t, s.Print('█'))
	require.NoError(t, s.Print('█'))
	require.NoError(t, s.Flush())

	r, _, _, _ := sim.GetContent(3, 2)
	assert.Equal(t, '█', r)
	r, _, _, _ = sim.GetContent(4, 2)
	assert.Equal(t, '█', r)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Flush())
	r, _, _, _ = sim.GetContent(3, 2)
	assert.Equal(t, ' ', r)
}

func TestScreen_Size(t *testing.T) {
	s, _ := newSimScreen(t)

	w, h := s.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 6, h)
}

func TestScreen_PostEventRoundTrip(t *testing.T) {
	s, _ := newSimScreen(t)

	s.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEscape})

	// The screen may queue its own resize first
	var ev terminal.Event
	for range 4 {
		if ev = s.PollEvent(); ev.Type != terminal.EventResize {
			break
		}
	}
	assert.Equal(t, terminal.EventKey, ev.Type)
	assert.Equal(t, terminal.KeyEscape, ev.Key)
}

func TestScreen_FiniIdempotent(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewWithScreen(sim)
	require.NoError(t, s.Init())

	s.Fini()
	assert.NotPanics(t, s.Fini)
}
