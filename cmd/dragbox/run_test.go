package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dragbox/config"
	"github.com/lixenwraith/dragbox/terminal"
)

// stubScreen replays events and records lifecycle calls
type stubScreen struct {
	events []terminal.Event
	polled int

	initErr  error
	flushErr error

	inits, finis, flushes int
}

func (s *stubScreen) Init() error {
	s.inits++
	return s.initErr
}

func (s *stubScreen) Fini() { s.finis++ }
func (s *stubScreen) Size() (int, int) { return 80, 24 }
func (s *stubScreen) MoveTo(x, y int) error { return nil }
func (s *stubScreen) Print(r rune) error { return nil }
func (s *stubScreen) Clear() error { return nil }
func (s *stubScreen) PostEvent(terminal.Event) {}

func (s *stubScreen) Flush() error {
	s.flushes++
	return s.flushErr
}

func (s *stubScreen) PollEvent() terminal.Event {
	if s.polled >= len(s.events) {
		return terminal.Event{Type: terminal.EventClosed}
	}
	ev := s.events[s.polled]
	s.polled++
	return ev
}

func openerFor(s *stubScreen) screenOpener {
	return func(string) (screen, error) { return s, nil }
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestRun_NormalExitRestoresTerminal(t *testing.T) {
	scr := &stubScreen{events: []terminal.Event{
		{Type: terminal.EventMouse, MouseX: 15, MouseY: 8, MouseBtn: terminal.MouseBtnLeft, MouseAction: terminal.MouseActionPress},
		{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'},
	}}

	err := run(context.Background(), config.Default(), openerFor(scr))
	require.NoError(t, err)
	assert.Equal(t, 1, scr.inits)
	assert.Equal(t, 1, scr.finis)
	assert.Equal(t, 2, scr.polled)
}

func TestRun_ErrorStillRestoresTerminal(t *testing.T) {
	boom := errors.New("write failed")
	scr := &stubScreen{flushErr: boom}

	err := run(context.Background(), config.Default(), openerFor(scr))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, scr.finis)
}

func TestRun_InitFailure(t *testing.T) {
	boom := errors.New("not a tty")
	scr := &stubScreen{initErr: boom}

	err := run(context.Background(), config.Default(), openerFor(scr))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, scr.finis, "Fini runs even when Init fails")
	assert.Zero(t, scr.flushes)
}

func TestRun_WritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "dragbox.log")

	require.NoError(t, run(context.Background(), cfg, openerFor(&stubScreen{})))

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), `"width":80`)
	assert.Contains(t, string(data), "drag loop terminated")
	assert.Contains(t, string(data), "session ended")
}

func TestRun_OversizedShapeFailsBeforeInit(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 65535, 65535
	opened := false
	open := func(string) (screen, error) {
		opened = true
		return &stubScreen{}, nil
	}

	err := run(context.Background(), cfg, open)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.False(t, opened, "terminal untouched")
}

func TestRun_InvalidPolicyFailsBeforeInit(t *testing.T) {
	cfg := config.Default()
	cfg.DragPolicy = "sticky"
	scr := &stubScreen{}

	err := run(context.Background(), cfg, openerFor(scr))
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Zero(t, scr.inits)
}

func TestRootCmd_InvalidConfigNeverOpensScreen(t *testing.T) {
	isolate(t)
	opened := false
	cmd := newRootCmd(func(string) (screen, error) {
		opened = true
		return &stubScreen{}, nil
	})
	cmd.SetArgs([]string{"--backend=curses"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.False(t, opened)
}

func TestRootCmd_PassesBackend(t *testing.T) {
	isolate(t)
	var got string
	cmd := newRootCmd(func(backend string) (screen, error) {
		got = backend
		return &stubScreen{}, nil
	})
	cmd.SetArgs([]string{"--backend=tcell", "--width=3", "--height=2"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, config.BackendTcell, got)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	isolate(t)
	cmd := newRootCmd(openerFor(&stubScreen{}))
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}

func TestOpenScreen_UnknownBackend(t *testing.T) {
	_, err := openScreen("curses")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
