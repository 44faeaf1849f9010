// Package pointer turns absolute pointer coordinates into drag deltas.
package pointer

import "fmt"

// Kind classifies a pointer event
type Kind uint8

const (
	Move    Kind = iota // Motion with no button held
	Press               // Button went down
	Drag                // Motion with a button held
	Release             // Button went up
	Scroll              // Wheel tick
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Press:
		return "press"
	case Drag:
		return "drag"
	case Release:
		return "release"
	case Scroll:
		return "scroll"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Policy selects the baseline a drag delta is measured from
type Policy uint8

const (
	// Anchored measures each drag against the previous drag sample.
	// The anchor is set on press, or silently on a drag with no anchor,
	// and cleared on release.
	Anchored Policy = iota
	// Baseline measures each drag against the last observed coordinate
	// of any kind, so a drag right after a hover or a fresh start jumps.
	Baseline
)

func (p Policy) String() string {
	switch p {
	case Anchored:
		return "anchored"
	case Baseline:
		return "baseline"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy resolves a policy name
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "anchored", "":
		return Anchored, nil
	case "baseline":
		return Baseline, nil
	}
	return 0, fmt.Errorf("unknown drag policy %q", name)
}

// Point is an absolute pointer coordinate
type Point struct {
	X, Y int
}

// Tracker remembers the last pointer coordinate
type Tracker struct {
	policy Policy
	last   Point

	anchor    Point
	anchorSet bool
}

// NewTracker starts the tracker at (x, y)
func NewTracker(x, y int, policy Policy) *Tracker {
	return &Tracker{policy: policy, last: Point{X: x, Y: y}}
}

// Observe records (x, y) and returns the drag delta it implies.
// Only Drag events produce a non-zero delta. Last is updated for every kind.
func (t *Tracker) Observe(x, y int, kind Kind) (dx, dy int) {
	p := Point{X: x, Y: y}
	defer func() { t.last = p }()

	if t.policy == Baseline {
		if kind != Drag {
			return 0, 0
		}
		return x - t.last.X, y - t.last.Y
	}

	switch kind {
	case Press:
		t.anchor, t.anchorSet = p, true
	case Release:
		t.anchorSet = false
	case Drag:
		if !t.anchorSet {
			// Press was missed, start the drag here
			t.anchor, t.anchorSet = p, true
			return 0, 0
		}
		dx, dy = x-t.anchor.X, y-t.anchor.Y
		t.anchor = p
		return dx, dy
	}
	return 0, 0
}

// Last returns the most recently observed coordinate
func (t *Tracker) Last() Point {
	return t.last
}

// Anchor returns the current drag anchor, if a drag is in progress
func (t *Tracker) Anchor() (Point, bool) {
	return t.anchor, t.anchorSet
}

// Policy returns the delta policy the tracker was built with
func (t *Tracker) Policy() Policy {
	return t.policy
}
