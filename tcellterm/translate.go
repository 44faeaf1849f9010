package tcellterm

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dragbox/terminal"
)

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3

// translator converts tcell events into terminal events.
// tcell reports only the current button mask, so press, drag and release
// are derived from the mask of the previous pointer event.
type translator struct {
	buttons tcell.ButtonMask

	pasting bool
	paste   strings.Builder
}

// translate returns false for events that produce nothing on their own,
// such as keys inside a bracketed paste
func (t *translator) translate(ev tcell.Event) (terminal.Event, bool) {
	switch ev := ev.(type) {
	case nil:
		// PollEvent returns nil once the screen is finalized
		return terminal.Event{Type: terminal.EventClosed}, true

	case *tcell.EventInterrupt:
		if posted, ok := ev.Data().(terminal.Event); ok {
			return posted, true
		}
		return terminal.Event{}, false

	case *tcell.EventPaste:
		if ev.Start() {
			t.pasting = true
			t.paste.Reset()
			return terminal.Event{}, false
		}
		t.pasting = false
		text := t.paste.String()
		t.paste.Reset()
		return terminal.Event{Type: terminal.EventPaste, Paste: text}, true

	case *tcell.EventKey:
		if t.pasting {
			t.appendPaste(ev)
			return terminal.Event{}, false
		}
		return translateKey(ev), true

	case *tcell.EventMouse:
		return t.mouse(ev), true

	case *tcell.EventResize:
		w, h := ev.Size()
		return terminal.Event{Type: terminal.EventResize, Width: w, Height: h}, true

	case *tcell.EventFocus:
		return terminal.Event{Type: terminal.EventFocus, Focused: ev.Focused}, true

	case *tcell.EventError:
		return terminal.Event{Type: terminal.EventError, Err: ev}, true
	}
	return terminal.Event{}, false
}

func (t *translator) appendPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		t.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		t.paste.WriteByte('\n')
	case tcell.KeyTab:
		t.paste.WriteByte('\t')
	}
}

func (t *translator) mouse(ev *tcell.EventMouse) terminal.Event {
	x, y := ev.Position()
	mask := ev.Buttons()
	out := terminal.Event{
		Type:      terminal.EventMouse,
		MouseX:    x,
		MouseY:    y,
		Modifiers: translateMods(ev.Modifiers()),
	}

	if wheel := mask & wheelMask; wheel != 0 {
		out.MouseAction = terminal.MouseActionScroll
		switch {
		case wheel&tcell.WheelUp != 0:
			out.MouseBtn = terminal.MouseBtnWheelUp
		case wheel&tcell.WheelDown != 0:
			out.MouseBtn = terminal.MouseBtnWheelDown
		}
		// Wheel ticks don't change which buttons are held
		return out
	}

	held := mask & buttonMask
	prev := t.buttons
	t.buttons = held

	switch {
	case held == 0 && prev != 0:
		out.MouseAction = terminal.MouseActionRelease
		out.MouseBtn = buttonOf(prev)
	case held == 0:
		out.MouseAction = terminal.MouseActionMove
	case held&^prev != 0:
		// A button went down that was not held before
		out.MouseAction = terminal.MouseActionPress
		out.MouseBtn = buttonOf(held &^ prev)
	default:
		out.MouseAction = terminal.MouseActionDrag
		out.MouseBtn = buttonOf(held)
	}
	return out
}

// buttonOf picks the primary button in a mask
func buttonOf(mask tcell.ButtonMask) terminal.MouseButton {
	switch {
	case mask&tcell.Button1 != 0:
		return terminal.MouseBtnLeft
	case mask&tcell.Button3 != 0:
		return terminal.MouseBtnMiddle
	case mask&tcell.Button2 != 0:
		return terminal.MouseBtnRight
	}
	return terminal.MouseBtnNone
}

func translateMods(m tcell.ModMask) terminal.Modifier {
	var out terminal.Modifier
	if m&tcell.ModShift != 0 {
		out |= terminal.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= terminal.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= terminal.ModCtrl
	}
	return out
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlQ:      terminal.KeyCtrlQ,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
}

// translateKey maps a tcell key; keys without a counterpart still arrive as EventKey
func translateKey(ev *tcell.EventKey) terminal.Event {
	out := terminal.Event{Type: terminal.EventKey, Modifiers: translateMods(ev.Modifiers())}
	if ev.Key() == tcell.KeyRune {
		out.Key = terminal.KeyRune
		out.Rune = ev.Rune()
		return out
	}
	out.Key = keyMap[ev.Key()]
	return out
}
