package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
	"github.com/lixenwraith/saver/vmath"
)

// Marquee scrolls a line of text right to left across the middle row
type Marquee struct {
	effect.Base

	text   string
	width  int
	offset int
	fg     terminal.Color
}

func (m *Marquee) Name() string { return "marquee" }

func (m *Marquee) Prepare(ctx *effect.Context) error {
	m.text = ctx.Settings.String("text", "Screensaver running. Press any key to return.")
	m.width = render.TextWidth(m.text)
	m.fg = ctx.Settings.Color("color", terminal.White)
	m.offset = 0
	return m.Base.Prepare(ctx)
}

func (m *Marquee) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	y := h / 2

	// The text enters at the right edge and leaves fully past the left edge
	x := w - m.offset
	for col := 0; col < w; col++ {
		ctx.Surface.SetCell(col, y, ' ', terminal.Black, terminal.Black)
	}
	render.DrawText(ctx.Surface, x, y, m.text, m.fg, terminal.Black)
	ctx.Surface.Flush()

	m.offset = vmath.Wrap(m.offset+1, w+m.width+1)
	ctx.DelayDuration(frameDelay(ctx, 60*time.Millisecond))
	return nil
}

// Resync clears the old row and restarts the scroll
func (m *Marquee) Resync(ctx *effect.Context) error {
	m.offset = 0
	ctx.Surface.Paint(terminal.Black)
	return nil
}

func (m *Marquee) Outro(*effect.Context) error {
	*m = Marquee{}
	return nil
}
