package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/terminal"
)

// Lines draws one full-width line of a random color per frame on a cleared screen
type Lines struct {
	effect.Base
	char rune
}

func (l *Lines) Name() string { return "lines" }

func (l *Lines) Prepare(ctx *effect.Context) error {
	l.char = []rune(ctx.Settings.String("char", "-") + "-")[0]
	return l.Base.Prepare(ctx)
}

func (l *Lines) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	ctx.Surface.Paint(terminal.Black)

	y := ctx.Rand.Intn(h)
	fg := randomColor(ctx)
	for x := 0; x < w; x++ {
		ctx.Surface.SetCell(x, y, l.char, fg, terminal.Black)
	}
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 500*time.Millisecond))
	return nil
}

func (l *Lines) Outro(*effect.Context) error {
	l.char = 0
	return nil
}
