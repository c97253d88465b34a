package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/terminal"
)

// Bloom fades the whole background from one color to the next in fixed steps
type Bloom struct {
	effect.Base

	steps   int
	delay   time.Duration
	current terminal.Color
	target  terminal.Color
	mix     mixFunc
}

func (b *Bloom) Name() string { return "bloom" }

func (b *Bloom) Prepare(ctx *effect.Context) error {
	b.steps = max(ctx.Settings.Int("steps", 50), 1)
	b.delay = frameDelay(ctx, 50*time.Millisecond)
	b.mix = colorMixer(ctx)
	b.current = ctx.Settings.Color("start", terminal.Black)
	if _, ok := ctx.Settings["target"]; ok {
		b.target = ctx.Settings.Color("target", terminal.White)
	} else {
		b.target = levelColor(ctx)
	}

	ctx.Surface.SetCursorVisible(false)
	ctx.Surface.Paint(b.current)
	ctx.Surface.Flush()
	return nil
}

// Tick runs one complete fade toward the target, then picks the next target
func (b *Bloom) Tick(ctx *effect.Context) error {
	from := b.current
	for i := 1; i <= b.steps; i++ {
		if ctx.Resized() {
			return effect.ErrResized
		}
		b.current = b.mix(from, b.target, float64(i)/float64(b.steps))
		ctx.Surface.Paint(b.current)
		ctx.Surface.Flush()
		if !ctx.DelayDuration(b.delay) {
			return nil
		}
	}
	b.target = levelColor(ctx)
	return nil
}

// Resync repaints the color reached so far
func (b *Bloom) Resync(ctx *effect.Context) error {
	ctx.Surface.Paint(b.current)
	ctx.Surface.Flush()
	return nil
}

func (b *Bloom) Outro(*effect.Context) error {
	*b = Bloom{}
	return nil
}
