package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/saver/terminal"
)

// Screen is a Surface over a tcell screen
// tcell keeps its own front buffer, so Show already emits only changed cells
type Screen struct {
	screen tcell.Screen
	mode   terminal.ColorMode
}

// NewScreen wraps an initialized tcell screen
func NewScreen(screen tcell.Screen, mode terminal.ColorMode) *Screen {
	return &Screen{screen: screen, mode: mode}
}

// Color converts a terminal color into the tcell representation for the configured mode
func (s *Screen) Color(c terminal.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	if s.mode == terminal.ColorMode256 {
		return tcell.PaletteColor(int(terminal.RGBTo256(c.R, c.G, c.B)))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (s *Screen) style(fg, bg terminal.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(s.Color(fg)).Background(s.Color(bg))
}

func (s *Screen) SetCell(x, y int, r rune, fg, bg terminal.Color) {
	w, h := s.screen.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	if r == 0 {
		r = ' '
	}
	s.screen.SetContent(x, y, r, nil, s.style(fg, bg))
}

func (s *Screen) Paint(bg terminal.Color) {
	s.screen.Fill(' ', s.style(terminal.White, bg))
}

func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

func (s *Screen) Flush() {
	s.screen.Show()
}

func (s *Screen) Sync() {
	s.screen.Sync()
}

func (s *Screen) SetCursorVisible(visible bool) {
	if visible {
		s.screen.ShowCursor(0, 0)
		return
	}
	s.screen.HideCursor()
}
