package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
)

// Disco floods the screen with a new color every frame
type Disco struct {
	effect.Base
	hue float64
}

func (d *Disco) Name() string { return "disco" }

func (d *Disco) Flags() effect.Flags { return effect.FlagFlashing }

func (d *Disco) Prepare(ctx *effect.Context) error {
	d.hue = 0
	return d.Base.Prepare(ctx)
}

func (d *Disco) Tick(ctx *effect.Context) error {
	if ctx.Settings.Bool("cycle_hue", false) {
		d.hue += 24
		ctx.Surface.Paint(render.Hue(d.hue, 1))
	} else {
		ctx.Surface.Paint(randomColor(ctx))
	}
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 100*time.Millisecond))
	return nil
}

func (d *Disco) Outro(*effect.Context) error {
	d.hue = 0
	return nil
}
