package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode and the alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// SetMouseMode enables/disables mouse event reporting
	// Modes can be combined: MouseModeClick | MouseModeDrag
	SetMouseMode(mode MouseMode) error

	// SetFocusReporting enables/disables focus gained/lost events
	SetFocusReporting(enabled bool) error

	// SetBracketedPaste enables/disables delivery of pastes as one EventPaste
	SetBracketedPaste(enabled bool) error

	// Clear queues a full screen erase
	Clear() error

	// MoveTo queues a cursor move (0-indexed)
	MoveTo(x, y int) error

	// Print queues a glyph at the cursor
	Print(r rune) error

	// Flush makes all queued output visible
	Flush() error

	// PollEvent blocks until next input event
	PollEvent() Event

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	output      *outputBuffer
	input       *inputReader
	resizeCh    chan Event
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
	focus       bool
	paste       bool
}

// New creates a Terminal on stdin/stdout
func New() Terminal {
	return newTerminal(newBackend())
}

func newTerminal(b Backend) *termImpl {
	return &termImpl{
		backend:     b,
		output:      newOutputBuffer(b),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}
	// From here on Fini must undo backend state even if setup fails
	t.initialized = true

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		t.mu.Lock()
		t.output.resize(w, h)
		t.mu.Unlock()

		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest pending size
		select {
		case t.resizeCh <- ev:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ev:
			default:
			}
		}
	})

	o := t.output
	o.raw(csiAltScreenEnter)
	o.raw(csiCursorHide)
	o.raw(csiAutoWrapOff)
	o.clear()
	if err := o.flush(); err != nil {
		return fmt.Errorf("enter alternate screen: %w", err)
	}

	t.input.start()
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	if !t.initialized || t.finalized {
		t.mu.Unlock()
		return
	}
	t.finalized = true

	o := t.output
	for _, seq := range mouseModeSequences(t.mouseMode, MouseModeNone) {
		o.raw(seq)
	}
	t.mouseMode = MouseModeNone
	if t.focus {
		o.raw(csiFocusOff)
	}
	if t.paste {
		o.raw(csiPasteOff)
	}

	o.raw(csiSGR0)
	o.raw(csiCursorShow)
	o.raw(csiAltScreenExit)
	// Re-enable wrap after leaving the alternate screen so the main buffer has it
	o.raw(csiAutoWrapOn)
	o.flush()
	t.mu.Unlock()

	// The resize handler takes mu, so backend teardown runs unlocked
	if t.input != nil {
		t.input.stop()
	}
	t.backend.Fini()
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ready reports whether output may be written; caller holds mu
func (t *termImpl) ready() error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if t.finalized {
		return ErrFinalized
	}
	return nil
}

// SetMouseMode enables or disables mouse reporting
func (t *termImpl) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}

	for _, seq := range mouseModeSequences(t.mouseMode, mode) {
		t.output.raw(seq)
	}
	t.mouseMode = mode

	if err := t.output.flush(); err != nil {
		return fmt.Errorf("set mouse mode: %w", err)
	}
	return nil
}

// SetFocusReporting toggles CSI I / CSI O focus events
func (t *termImpl) SetFocusReporting(enabled bool) error {
	return t.toggle(&t.focus, enabled, csiFocusOn, csiFocusOff, "focus reporting")
}

// SetBracketedPaste toggles bracketed paste mode
func (t *termImpl) SetBracketedPaste(enabled bool) error {
	return t.toggle(&t.paste, enabled, csiPasteOn, csiPasteOff, "bracketed paste")
}

func (t *termImpl) toggle(state *bool, enabled bool, on, off []byte, what string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}
	if *state == enabled {
		return nil
	}

	seq := off
	if enabled {
		seq = on
	}
	t.output.raw(seq)
	if err := t.output.flush(); err != nil {
		return fmt.Errorf("set %s: %w", what, err)
	}
	*state = enabled
	return nil
}

// Clear queues a screen erase
func (t *termImpl) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}
	return t.output.clear()
}

// MoveTo queues a cursor move; targets off screen suppress following glyphs
func (t *termImpl) MoveTo(x, y int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}
	return t.output.moveTo(x, y)
}

// Print queues r at the cursor
func (t *termImpl) Print(r rune) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}
	return t.output.print(r)
}

// Flush writes queued output to the terminal
func (t *termImpl) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready(); err != nil {
		return err
	}
	if err := t.output.flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// PollEvent blocks until next input event
func (t *termImpl) PollEvent() Event {
	// Synthetic events take priority
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	// Before Init only posted events can arrive
	if t.input == nil {
		return <-t.syntheticCh
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-t.input.events():
		return ev
	case ev := <-t.resizeCh:
		return ev
	}
}

// PostEvent injects a synthetic event
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiFocusOff)
	w.Write(csiPasteOff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
