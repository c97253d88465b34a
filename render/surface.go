package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/saver/terminal"
)

// Surface is the batched drawing target handed to effects
// Writes accumulate until Flush; Size is always the live terminal size
type Surface interface {
	// SetCell writes one cell at absolute 0-based coordinates. Out-of-range writes are ignored
	SetCell(x, y int, r rune, fg, bg terminal.Color)

	// Paint fills every cell with a blank of the given background
	Paint(bg terminal.Color)

	// Size returns the current terminal dimensions
	Size() (width, height int)

	// Flush emits the accumulated frame
	Flush()

	// Sync clears the physical screen and forces the next flush to repaint everything
	Sync()

	// SetCursorVisible shows or hides the cursor
	SetCursorVisible(visible bool)
}

// DrawText writes text left to right starting at (x, y), advancing by display width.
// Returns the column after the last written cell.
func DrawText(s Surface, x, y int, text string, fg, bg terminal.Color) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x, y, r, fg, bg)
		// Wide runes occupy two cells
		x += w
	}
	return x
}

// TextWidth returns the display width of text in cells
func TextWidth(text string) int {
	return runewidth.StringWidth(text)
}
