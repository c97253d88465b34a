package render

import (
	"testing"

	"github.com/lixenwraith/saver/terminal"
)

func TestDrawTextAdvancesByDisplayWidth(t *testing.T) {
	m := NewMemory(12, 1)

	end := DrawText(m, 1, 0, "a世b", terminal.White, terminal.Black)
	if end != 5 {
		t.Errorf("Expected end column 5, got %d", end)
	}
	if m.Cell(1, 0).Rune != 'a' || m.Cell(2, 0).Rune != '世' || m.Cell(4, 0).Rune != 'b' {
		t.Errorf("Unexpected layout: %q %q %q", m.Cell(1, 0).Rune, m.Cell(2, 0).Rune, m.Cell(4, 0).Rune)
	}
	if TextWidth("a世b") != 4 {
		t.Errorf("Expected width 4, got %d", TextWidth("a世b"))
	}
}

func TestDrawTextClipsAtEdge(t *testing.T) {
	m := NewMemory(3, 1)
	DrawText(m, 1, 0, "hello", terminal.White, terminal.Black)

	if m.Writes() != 2 {
		t.Errorf("Expected 2 visible writes, got %d", m.Writes())
	}
}
