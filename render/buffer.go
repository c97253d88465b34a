package render

import (
	"github.com/lixenwraith/saver/terminal"
)

// Buffer is a Surface over terminal.Terminal
// Cells are composed into a row-major back buffer and handed to the terminal once per Flush,
// which diffs against what is on screen and writes only changed cells
type Buffer struct {
	term    terminal.Terminal
	cells   []terminal.Cell
	width   int
	height  int
	dropped int
}

// NewBuffer creates a buffer sized to the terminal
func NewBuffer(term terminal.Terminal) *Buffer {
	b := &Buffer{term: term}
	b.resize(term.Size())
	return b
}

// resize adjusts buffer dimensions, reallocating only when capacity is insufficient
func (b *Buffer) resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.fill(terminal.Cell{Rune: ' ', Fg: terminal.White, Bg: terminal.Black})
}

// fill sets every cell using exponential copy
func (b *Buffer) fill(c terminal.Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// reconcile reallocates when the terminal no longer matches the buffer
func (b *Buffer) reconcile() {
	if w, h := b.term.Size(); w != b.width || h != b.height {
		b.resize(w, h)
	}
}

func (b *Buffer) SetCell(x, y int, r rune, fg, bg terminal.Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = terminal.Cell{Rune: r, Fg: fg, Bg: bg}
}

func (b *Buffer) Paint(bg terminal.Color) {
	b.reconcile()
	b.fill(terminal.Cell{Rune: ' ', Fg: terminal.White, Bg: bg})
}

func (b *Buffer) Size() (int, int) {
	return b.term.Size()
}

// Flush writes the frame. A frame composed for a stale size is dropped and the buffer reallocated
func (b *Buffer) Flush() {
	if b.term.Flush(b.cells, b.width, b.height) {
		return
	}
	b.dropped++
	b.reconcile()
}

func (b *Buffer) Sync() {
	b.term.Sync()
	b.reconcile()
}

func (b *Buffer) SetCursorVisible(visible bool) {
	b.term.SetCursorVisible(visible)
}

// Dropped returns the number of frames discarded for a size mismatch
func (b *Buffer) Dropped() int {
	return b.dropped
}
