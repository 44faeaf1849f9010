// Package tcellterm adapts a tcell screen to the drag loop's output surface
// and event source, as an alternative to the raw ANSI terminal.
package tcellterm

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/dragbox/terminal"
)

// Screen wraps a tcell.Screen. Output is staged in tcell's cell buffer and
// becomes visible on Flush.
type Screen struct {
	screen tcell.Screen
	style  tcell.Style
	tr     translator

	cursorX int
	cursorY int

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Screen on the controlling terminal
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create tcell screen: %w", err)
	}
	return NewWithScreen(s), nil
}

// NewWithScreen wraps an existing tcell screen, e.g. a simulation screen
func NewWithScreen(s tcell.Screen) *Screen {
	return &Screen{
		screen: s,
		style:  tcell.StyleDefault,
	}
}

// Init enters raw mode and the alternate screen and enables mouse, focus and paste reports
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init tcell screen: %w", err)
	}
	s.initialized = true

	s.screen.SetStyle(s.style)
	s.screen.HideCursor()
	s.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
	s.screen.EnableFocus()
	s.screen.EnablePaste()
	s.screen.Clear()
	s.screen.Show()
	return nil
}

// Fini disables reporting and restores the terminal. Safe to call multiple times
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.finalized {
		return
	}
	s.finalized = true

	s.screen.DisablePaste()
	s.screen.DisableFocus()
	s.screen.DisableMouse()
	s.screen.Fini()
}

// Size returns the screen dimensions in cells
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// Clear blanks the cell buffer and homes the cursor
func (s *Screen) Clear() error {
	s.screen.Clear()
	s.cursorX, s.cursorY = 0, 0
	return nil
}

// MoveTo sets where the next Print lands
func (s *Screen) MoveTo(x, y int) error {
	s.cursorX, s.cursorY = x, y
	return nil
}

// Print stages r at the cursor and advances by its cell width.
// tcell drops content outside the screen.
func (s *Screen) Print(r rune) error {
	s.screen.SetContent(s.cursorX, s.cursorY, r, nil, s.style)
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
	}
	s.cursorX += w
	return nil
}

// Flush shows the staged cells
func (s *Screen) Flush() error {
	s.screen.Show()
	return nil
}

// PollEvent blocks until an event the drag loop understands arrives
func (s *Screen) PollEvent() terminal.Event {
	for {
		if ev, ok := s.tr.translate(s.screen.PollEvent()); ok {
			return ev
		}
	}
}

// PostEvent injects a synthetic event
func (s *Screen) PostEvent(ev terminal.Event) {
	// Queue full drops the event, matching the ANSI terminal
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(ev))
}
