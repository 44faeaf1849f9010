package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove   // Motion with no button held
	MouseActionDrag   // Motion with a button held
	MouseActionScroll // Wheel tick
)

// MouseMode controls which mouse events are reported (bitmask)
type MouseMode uint8

const (
	MouseModeNone   MouseMode = 0
	MouseModeClick  MouseMode = 1 << 0 // Press/release events
	MouseModeDrag   MouseMode = 1 << 1 // Drag events (button held + motion)
	MouseModeMotion MouseMode = 1 << 2 // All motion events
)

// MouseModeAll enables every report the parser understands
const MouseModeAll = MouseModeClick | MouseModeDrag | MouseModeMotion

func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "left"
	case MouseBtnMiddle:
		return "middle"
	case MouseBtnRight:
		return "right"
	case MouseBtnWheelUp:
		return "wheel_up"
	case MouseBtnWheelDown:
		return "wheel_down"
	default:
		return "none"
	}
}

func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "press"
	case MouseActionRelease:
		return "release"
	case MouseActionMove:
		return "move"
	case MouseActionDrag:
		return "drag"
	case MouseActionScroll:
		return "scroll"
	default:
		return "none"
	}
}

// mouseModeSequences emits the on/off sequences needed to move from old to mode.
// Click is the base report, drag and motion extend it; disabling runs in reverse.
func mouseModeSequences(old, mode MouseMode) [][]byte {
	var seqs [][]byte

	if old&MouseModeMotion != 0 && mode&MouseModeMotion == 0 {
		seqs = append(seqs, csiMouseMotionOff)
	}
	if old&MouseModeDrag != 0 && mode&MouseModeDrag == 0 {
		seqs = append(seqs, csiMouseDragOff)
	}
	if old&MouseModeClick != 0 && mode&MouseModeClick == 0 {
		seqs = append(seqs, csiMouseClickOff)
	}
	if mode == MouseModeNone && old != MouseModeNone {
		seqs = append(seqs, csiMouseSGROff)
	}

	if mode != MouseModeNone && old == MouseModeNone {
		seqs = append(seqs, csiMouseSGROn)
	}
	if mode&MouseModeClick != 0 && old&MouseModeClick == 0 {
		seqs = append(seqs, csiMouseClickOn)
	}
	if mode&MouseModeDrag != 0 && old&MouseModeDrag == 0 {
		seqs = append(seqs, csiMouseDragOn)
	}
	if mode&MouseModeMotion != 0 && old&MouseModeMotion == 0 {
		seqs = append(seqs, csiMouseMotionOn)
	}
	return seqs
}
