package terminal

import (
	"bufio"
	"io"
)

// outputBuffer holds the front buffer (what the terminal shows) and diffs
// each flushed frame against it so only changed cells are written
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	w         seqWriter

	cursorX     int
	cursorY     int
	cursorValid bool

	// Last emitted style, for SGR coalescing
	lastFg    Color
	lastBg    Color
	lastAttr  Attr
	lastValid bool

	// Cells written by the most recent flush
	lastDirty int
}

func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		w:         seqWriter{bufio.NewWriterSize(w, 128*1024)},
		colorMode: colorMode,
	}
}

// resize reallocates the front buffer and marks every cell unknown
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
	} else {
		o.front = o.front[:size]
	}
	o.width = width
	o.height = height
	o.forceFullRedraw()
}

// cellEqual treats blank cells as equal when their backgrounds match
func cellEqual(a, b Cell) bool {
	if a.Rune != b.Rune || a.Attrs != b.Attrs || a.Bg != b.Bg {
		return false
	}
	return a.Rune == 0 || a.Rune == ' ' || a.Fg == b.Fg
}

// flush writes cells that differ from the front buffer, then updates it
func (o *outputBuffer) flush(cells []Cell, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}
	if len(cells) < width*height {
		return
	}

	w := o.w
	dirty := 0
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; {
			if cellEqual(cells[row+x], o.front[row+x]) {
				x++
				continue
			}

			o.moveTo(x, y)

			// Contiguous run of dirty cells
			for x < width {
				idx := row + x
				c := cells[idx]
				if cellEqual(c, o.front[idx]) {
					break
				}
				o.style(c.Fg, c.Bg, c.Attrs)
				r := c.Rune
				if r == 0 {
					r = ' '
				}
				if r < 0x80 {
					w.WriteByte(byte(r))
				} else {
					w.WriteRune(r)
				}
				o.front[idx] = c
				o.cursorX++
				x++
				dirty++
			}
		}
	}

	if dirty > 0 {
		w.Write(csiSGR0)
		o.lastValid = false
	}
	o.lastDirty = dirty
	w.Flush()
}

// moveTo positions the cursor, preferring a relative move on the same row
func (o *outputBuffer) moveTo(x, y int) {
	if o.cursorValid && x == o.cursorX && y == o.cursorY {
		return
	}
	if o.cursorValid && y == o.cursorY && x > o.cursorX {
		o.w.cursorForward(x - o.cursorX)
	} else {
		o.w.cursorTo(x, y)
	}
	o.cursorX, o.cursorY = x, y
	o.cursorValid = true
}

// style emits one combined SGR sequence when the style differs from the last one
func (o *outputBuffer) style(fg, bg Color, attr Attr) {
	if o.lastValid && fg == o.lastFg && bg == o.lastBg && attr == o.lastAttr {
		return
	}
	w := o.w
	w.Write(csi)
	if !o.lastValid || attr != o.lastAttr {
		// Attribute change needs a reset first
		w.WriteByte('0')
		for _, a := range attrCodes {
			if attr&a.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(a.code)
			}
		}
		w.WriteByte(';')
		w.color(fg, false, o.colorMode)
		w.WriteByte(';')
		w.color(bg, true, o.colorMode)
	} else {
		sep := false
		if fg != o.lastFg {
			w.color(fg, false, o.colorMode)
			sep = true
		}
		if bg != o.lastBg {
			if sep {
				w.WriteByte(';')
			}
			w.color(bg, true, o.colorMode)
		}
	}
	w.WriteByte('m')

	o.lastFg, o.lastBg, o.lastAttr = fg, bg, attr
	o.lastValid = true
}

var attrCodes = [...]struct {
	attr Attr
	code byte
}{
	{AttrBold, '1'},
	{AttrDim, '2'},
	{AttrItalic, '3'},
	{AttrUnderline, '4'},
	{AttrBlink, '5'},
	{AttrReverse, '7'},
}

// forceFullRedraw invalidates the front buffer so the next flush rewrites every cell
func (o *outputBuffer) forceFullRedraw() {
	for i := range o.front {
		o.front[i] = Cell{Rune: -1}
	}
	o.lastValid = false
	o.cursorValid = false
}

// clear erases the screen with a background color and records that state in the front buffer
func (o *outputBuffer) clear(bg Color) {
	w := o.w
	w.Write(csiSGR0)
	w.Write(csi)
	w.color(bg, true, o.colorMode)
	w.WriteByte('m')
	w.Write(csiClear)
	w.Flush()

	o.lastValid = false
	o.cursorValid = false
	for i := range o.front {
		o.front[i] = Cell{Rune: ' ', Bg: bg}
	}
}

func (o *outputBuffer) invalidateCursor() {
	o.cursorValid = false
}
