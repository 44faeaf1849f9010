// Package shape holds the draggable rectangle: its fixed size, its mutable
// anchor, and the set of cells it paints.
package shape

import (
	"fmt"
)

// Glyph fills every cell of the rectangle
const Glyph = '█'

// MaxCoord is the largest coordinate a terminal can address
const MaxCoord = 65535

// MaxCells bounds the painted area callers should accept before building a shape
const MaxCells = 1 << 20

// Point is an absolute cell coordinate, 0-indexed
type Point struct {
	X, Y int
}

// Size is the rectangle extent in cells
type Size struct {
	Width, Height int
}

// Canvas is the output surface a shape paints onto.
// Writes may be buffered; flushing is the caller's job.
type Canvas interface {
	MoveTo(x, y int) error
	Print(r rune) error
}

// Shape is a filled rectangle anchored at its top-left corner.
// The cell set spans columns [X, X+Width] and rows [Y, Y+Height).
type Shape struct {
	size     Size
	position Point

	// Painted cells, half-open: [min.X, max.X) x [min.Y, max.Y)
	min, max Point
}

// CellCount returns how many cells a width x height shape paints,
// after clamping like New
func CellCount(width, height int) int {
	return (clamp(width) + 1) * clamp(height)
}

// New builds a shape; inputs are clamped to [0, MaxCoord]
func New(width, height, x, y int) *Shape {
	s := &Shape{
		size:     Size{Width: clamp(width), Height: clamp(height)},
		position: Point{X: clamp(x), Y: clamp(y)},
	}
	s.Recompute()
	return s
}

// Recompute regenerates the cell bounds from size and position
func (s *Shape) Recompute() {
	s.min = s.position
	s.max = Point{
		X: s.position.X + s.size.Width + 1,
		Y: s.position.Y + s.size.Height,
	}
}

// Translate moves the anchor by (dx, dy), saturating at [0, MaxCoord]
func (s *Shape) Translate(dx, dy int) {
	s.position = Point{
		X: saturatingAdd(s.position.X, dx),
		Y: saturatingAdd(s.position.Y, dy),
	}
	s.Recompute()
}

// Contains reports whether (x, y) lies strictly inside the rectangle.
// Edges do not count as hits.
func (s *Shape) Contains(x, y int) bool {
	return s.position.X < x && x < s.position.X+s.size.Width &&
		s.position.Y < y && y < s.position.Y+s.size.Height
}

// Render writes every cell to c row by row, then homes the cursor.
// The first failed write aborts the render.
func (s *Shape) Render(c Canvas) error {
	for y := s.min.Y; y < s.max.Y; y++ {
		for x := s.min.X; x < s.max.X; x++ {
			if err := c.MoveTo(x, y); err != nil {
				return fmt.Errorf("move to %d,%d: %w", x, y, err)
			}
			if err := c.Print(Glyph); err != nil {
				return fmt.Errorf("print at %d,%d: %w", x, y, err)
			}
		}
	}
	if err := c.MoveTo(0, 0); err != nil {
		return fmt.Errorf("home cursor: %w", err)
	}
	return nil
}

// Size returns the fixed extent
func (s *Shape) Size() Size {
	return s.size
}

// Position returns the top-left anchor
func (s *Shape) Position() Point {
	return s.position
}

// Cells materializes the current cell set
func (s *Shape) Cells() map[Point]rune {
	out := make(map[Point]rune, (s.max.X-s.min.X)*(s.max.Y-s.min.Y))
	for y := s.min.Y; y < s.max.Y; y++ {
		for x := s.min.X; x < s.max.X; x++ {
			out[Point{X: x, Y: y}] = Glyph
		}
	}
	return out
}

func (s *Shape) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", s.size.Width, s.size.Height, s.position.X, s.position.Y)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCoord {
		return MaxCoord
	}
	return v
}

// saturatingAdd adds d to v, keeping the result in [0, MaxCoord].
// d is bounded first so v+d cannot overflow.
func saturatingAdd(v, d int) int {
	if d > MaxCoord {
		d = MaxCoord
	} else if d < -MaxCoord {
		d = -MaxCoord
	}
	return clamp(v + d)
}
