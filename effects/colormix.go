package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/vmath"
)

// ColorMix scatters randomly colored blocks over the screen
type ColorMix struct {
	effect.Base
	density int
}

func (c *ColorMix) Name() string { return "colormix" }

func (c *ColorMix) Prepare(ctx *effect.Context) error {
	c.density = vmath.Clamp(ctx.Settings.Int("density", 10), 1, 100)
	return c.Base.Prepare(ctx)
}

func (c *ColorMix) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	count := max(w*h*c.density/100, 1)

	for i := 0; i < count; i++ {
		// Check every row's worth of writes
		if w > 0 && i%w == 0 && ctx.Resized() {
			return effect.ErrResized
		}
		ctx.Surface.SetCell(ctx.Rand.Intn(w), ctx.Rand.Intn(h), ' ', randomColor(ctx), randomColor(ctx))
	}
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 10*time.Millisecond))
	return nil
}

func (c *ColorMix) Outro(*effect.Context) error {
	c.density = 0
	return nil
}
