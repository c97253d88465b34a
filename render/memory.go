package render

import (
	"sync"

	"github.com/lixenwraith/saver/terminal"
)

// Memory is a headless Surface that records what effects draw
type Memory struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []terminal.Cell

	paints        []terminal.Color
	writes        int
	flushes       int
	syncs         int
	cursorVisible bool
}

// NewMemory creates a memory surface of the given size
func NewMemory(width, height int) *Memory {
	m := &Memory{cursorVisible: true}
	m.resize(width, height)
	return m
}

func (m *Memory) resize(width, height int) {
	m.width, m.height = max(width, 0), max(height, 0)
	m.cells = make([]terminal.Cell, m.width*m.height)
}

// SetSize simulates a terminal resize. Cell contents are discarded
func (m *Memory) SetSize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resize(width, height)
}

func (m *Memory) SetCell(x, y int, r rune, fg, bg terminal.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.cells[y*m.width+x] = terminal.Cell{Rune: r, Fg: fg, Bg: bg}
	m.writes++
}

func (m *Memory) Paint(bg terminal.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cells {
		m.cells[i] = terminal.Cell{Rune: ' ', Fg: terminal.White, Bg: bg}
	}
	m.paints = append(m.paints, bg)
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Memory) Flush() {
	m.mu.Lock()
	m.flushes++
	m.mu.Unlock()
}

func (m *Memory) Sync() {
	m.mu.Lock()
	m.syncs++
	m.mu.Unlock()
}

func (m *Memory) SetCursorVisible(visible bool) {
	m.mu.Lock()
	m.cursorVisible = visible
	m.mu.Unlock()
}

// Cell returns the cell at (x, y), or a zero cell when out of range
func (m *Memory) Cell(x, y int) terminal.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return terminal.Cell{}
	}
	return m.cells[y*m.width+x]
}

// Paints returns a copy of every background passed to Paint, oldest first
func (m *Memory) Paints() []terminal.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]terminal.Color, len(m.paints))
	copy(out, m.paints)
	return out
}

// Writes returns the number of in-range SetCell calls
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Flushes returns the number of Flush calls
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Syncs returns the number of Sync calls
func (m *Memory) Syncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncs
}

// CursorVisible reports the last cursor visibility set
func (m *Memory) CursorVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorVisible
}

// ResetCounters clears recorded paints, writes, flushes and syncs
func (m *Memory) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paints = m.paints[:0]
	m.writes, m.flushes, m.syncs = 0, 0, 0
}
