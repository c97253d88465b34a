package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/terminal"
)

// wipeDirection is the edge a wipe starts from
type wipeDirection int

const (
	wipeLeft wipeDirection = iota
	wipeRight
	wipeTop
	wipeBottom
)

// Wipe sweeps a new background color across the screen one column or row at a time
type Wipe struct {
	effect.Base

	direction wipeDirection
	wipes     int
}

func (w *Wipe) Name() string { return "wipe" }

func (w *Wipe) Prepare(ctx *effect.Context) error {
	w.direction = wipeLeft
	w.wipes = 0
	return w.Base.Prepare(ctx)
}

func (w *Wipe) Tick(ctx *effect.Context) error {
	width, height := ctx.Size()
	color := randomColor(ctx)
	delay := frameDelay(ctx, 10*time.Millisecond)

	lines := width
	if w.direction == wipeTop || w.direction == wipeBottom {
		lines = height
	}

	for i := 0; i < lines; i++ {
		// Geometry computed above is stale once the gate fires
		if ctx.Resized() {
			return effect.ErrResized
		}
		switch w.direction {
		case wipeLeft:
			w.column(ctx, i, height, color)
		case wipeRight:
			w.column(ctx, width-1-i, height, color)
		case wipeTop:
			w.row(ctx, i, width, color)
		case wipeBottom:
			w.row(ctx, height-1-i, width, color)
		}
		ctx.Surface.Flush()
		if !ctx.DelayDuration(delay) {
			return nil
		}
	}

	w.wipes++
	w.direction = wipeDirection(ctx.Rand.Intn(4))
	return nil
}

func (w *Wipe) column(ctx *effect.Context, x, height int, bg terminal.Color) {
	for y := 0; y < height; y++ {
		ctx.Surface.SetCell(x, y, ' ', terminal.Black, bg)
	}
}

func (w *Wipe) row(ctx *effect.Context, y, width int, bg terminal.Color) {
	for x := 0; x < width; x++ {
		ctx.Surface.SetCell(x, y, ' ', terminal.Black, bg)
	}
}

// Wipes returns how many full wipes completed in this activation
func (w *Wipe) Wipes() int { return w.wipes }

func (w *Wipe) Outro(*effect.Context) error {
	w.wipes = 0
	return nil
}
