package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
	"github.com/lixenwraith/saver/vmath"
)

// BouncingText moves a label diagonally, changing hue whenever it hits an edge
type BouncingText struct {
	effect.Base

	text   string
	width  int
	x, y   int
	dx, dy int
	hue    float64
}

func (b *BouncingText) Name() string { return "bouncingtext" }

func (b *BouncingText) Prepare(ctx *effect.Context) error {
	b.text = ctx.Settings.String("text", "saver")
	b.width = render.TextWidth(b.text)
	w, h := ctx.Size()
	b.x = ctx.Rand.Intn(max(w-b.width, 1))
	b.y = ctx.Rand.Intn(h)
	b.dx, b.dy = 1, 1
	b.hue = float64(ctx.Rand.Intn(360))
	return b.Base.Prepare(ctx)
}

func (b *BouncingText) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	maxX := max(w-b.width, 0)
	maxY := max(h-1, 0)

	blank := make([]rune, b.width)
	for i := range blank {
		blank[i] = ' '
	}
	render.DrawText(ctx.Surface, b.x, b.y, string(blank), terminal.Black, terminal.Black)

	// Clamp first so a shrink never leaves the label off screen
	b.x = vmath.Clamp(b.x+b.dx, 0, maxX)
	b.y = vmath.Clamp(b.y+b.dy, 0, maxY)
	if b.x == 0 || b.x == maxX {
		b.dx = -b.dx
		b.hue += 47
	}
	if b.y == 0 || b.y == maxY {
		b.dy = -b.dy
		b.hue += 47
	}

	render.DrawText(ctx.Surface, b.x, b.y, b.text, render.Hue(b.hue, 1), terminal.Black)
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 80*time.Millisecond))
	return nil
}

// Position returns the label's top-left cell
func (b *BouncingText) Position() (int, int) { return b.x, b.y }

func (b *BouncingText) Outro(*effect.Context) error {
	*b = BouncingText{}
	return nil
}
