package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// outputBuffer queues cursor moves and glyphs until flush.
// It tracks the cursor so glyphs addressed outside the screen are dropped
// rather than clamped onto the edge.
type outputBuffer struct {
	writer *bufio.Writer
	width  int
	height int

	cursorX int
	cursorY int
}

func newOutputBuffer(w io.Writer) *outputBuffer {
	return &outputBuffer{
		writer: bufio.NewWriterSize(w, 32768),
	}
}

func (o *outputBuffer) resize(width, height int) {
	o.width = width
	o.height = height
}

func (o *outputBuffer) onScreen(x, y int) bool {
	return x >= 0 && y >= 0 && x < o.width && y < o.height
}

// moveTo positions the cursor, emitting nothing when the target is off screen
func (o *outputBuffer) moveTo(x, y int) error {
	o.cursorX, o.cursorY = x, y
	if !o.onScreen(x, y) {
		return nil
	}
	return writeCursorPos(o.writer, x, y)
}

// print writes r at the cursor and advances it by the rune's cell width
func (o *outputBuffer) print(r rune) error {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
	}
	defer func() { o.cursorX += w }()

	if !o.onScreen(o.cursorX, o.cursorY) || o.cursorX+w > o.width {
		return nil
	}
	if r < 0x80 {
		return o.writer.WriteByte(byte(r))
	}
	_, err := o.writer.WriteRune(r)
	return err
}

// clear erases the screen and homes the cursor
func (o *outputBuffer) clear() error {
	o.writer.Write(csiSGR0)
	_, err := o.writer.Write(csiClear)
	o.cursorX, o.cursorY = 0, 0
	return err
}

// raw queues an arbitrary control sequence
func (o *outputBuffer) raw(seq []byte) error {
	_, err := o.writer.Write(seq)
	return err
}

func (o *outputBuffer) flush() error {
	return o.writer.Flush()
}
