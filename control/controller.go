// Package control runs the drag loop: it reads terminal events, hit-tests
// pointer events against the shape, and moves and redraws the shape.
package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/dragbox/pointer"
	"github.com/lixenwraith/dragbox/shape"
	"github.com/lixenwraith/dragbox/terminal"
)

// ErrInput wraps failures reported by the event source
var ErrInput = errors.New("terminal input failed")

// Screen is the output surface the controller draws on
type Screen interface {
	shape.Canvas
	Clear() error
	Flush() error
}

// Source yields terminal events, blocking until one is available
type Source interface {
	PollEvent() terminal.Event
}

// State of the loop
type State uint8

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Controller exclusively owns the shape and tracker for the loop's lifetime
type Controller struct {
	screen  Screen
	source  Source
	shape   *shape.Shape
	tracker *pointer.Tracker
	state   State
	log     zerolog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger; the default discards
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New builds a controller in the Running state; Run paints the shape first
func New(screen Screen, source Source, shp *shape.Shape, tracker *pointer.Tracker, opts ...Option) *Controller {
	c := &Controller{
		screen:  screen,
		source:  source,
		shape:   shp,
		tracker: tracker,
		state:   Running,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run paints the shape and processes events until the loop terminates,
// an output error occurs, or ctx is done. A done ctx is noticed after the
// next event, so callers cancelling it should also post an event.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info().Stringer("shape", c.shape).Stringer("policy", c.tracker.Policy()).Msg("drag loop started")

	if err := c.repaint(); err != nil {
		return fmt.Errorf("initial draw: %w", err)
	}

	for c.state == Running {
		if err := ctx.Err(); err != nil {
			c.terminate("context done")
			return err
		}

		if err := c.Handle(c.source.PollEvent()); err != nil {
			c.terminate("error")
			return err
		}
	}
	return nil
}

// Handle processes a single event
func (c *Controller) Handle(ev terminal.Event) error {
	if c.state == Terminated {
		return nil
	}

	switch ev.Type {
	case terminal.EventMouse:
		return c.handleMouse(ev)

	case terminal.EventKey, terminal.EventFocus:
		c.terminate(ev.String())

	case terminal.EventClosed:
		c.terminate("input closed")

	case terminal.EventResize:
		// Bounds stay as they are; redraw because the terminal may have reflowed
		c.log.Info().Int("width", ev.Width).Int("height", ev.Height).Msg("terminal resized")
		if err := c.repaint(); err != nil {
			return fmt.Errorf("redraw after resize: %w", err)
		}

	case terminal.EventPaste:
		c.log.Debug().Int("bytes", len(ev.Paste)).Msg("paste ignored")

	case terminal.EventError:
		return fmt.Errorf("%w: %w", ErrInput, ev.Err)

	default:
		c.log.Debug().Stringer("event", ev).Msg("unhandled event")
	}
	return nil
}

func (c *Controller) handleMouse(ev terminal.Event) error {
	kind, ok := pointerKind(ev.MouseAction)
	if !ok || kind == pointer.Move {
		// Hover leaves the tracker untouched
		return nil
	}

	dx, dy := c.tracker.Observe(ev.MouseX, ev.MouseY, kind)

	// Hit-test the reported coordinate against the bounds before moving
	if !c.shape.Contains(ev.MouseX, ev.MouseY) {
		return nil
	}

	if err := c.screen.Clear(); err != nil {
		return fmt.Errorf("clear screen: %w", err)
	}
	c.shape.Translate(dx, dy)
	if err := c.shape.Render(c.screen); err != nil {
		return fmt.Errorf("render shape: %w", err)
	}
	if err := c.screen.Flush(); err != nil {
		return fmt.Errorf("flush screen: %w", err)
	}

	c.log.Debug().
		Stringer("kind", kind).
		Int("x", ev.MouseX).
		Int("y", ev.MouseY).
		Int("dx", dx).
		Int("dy", dy).
		Stringer("shape", c.shape).
		Msg("shape updated")
	return nil
}

// repaint clears the screen and draws the shape at its current position
func (c *Controller) repaint() error {
	if err := c.screen.Clear(); err != nil {
		return fmt.Errorf("clear screen: %w", err)
	}
	if err := c.shape.Render(c.screen); err != nil {
		return fmt.Errorf("render shape: %w", err)
	}
	if err := c.screen.Flush(); err != nil {
		return fmt.Errorf("flush screen: %w", err)
	}
	return nil
}

func (c *Controller) terminate(reason string) {
	if c.state == Terminated {
		return
	}
	c.state = Terminated
	c.log.Info().Str("reason", reason).Stringer("shape", c.shape).Msg("drag loop terminated")
}

// State returns the loop state
func (c *Controller) State() State {
	return c.state
}

// Shape returns the owned shape
func (c *Controller) Shape() *shape.Shape {
	return c.shape
}

// Tracker returns the owned pointer tracker
func (c *Controller) Tracker() *pointer.Tracker {
	return c.tracker
}

// pointerKind maps a terminal mouse action to a tracker kind
func pointerKind(a terminal.MouseAction) (pointer.Kind, bool) {
	switch a {
	case terminal.MouseActionMove:
		return pointer.Move, true
	case terminal.MouseActionPress:
		return pointer.Press, true
	case terminal.MouseActionDrag:
		return pointer.Drag, true
	case terminal.MouseActionRelease:
		return pointer.Release, true
	case terminal.MouseActionScroll:
		return pointer.Scroll, true
	}
	return 0, false
}
