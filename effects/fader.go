package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
)

// Fader fades a short text in and out at a random position
type Fader struct {
	effect.Base

	text  string
	steps int
	delay time.Duration
	hold  time.Duration
	mix   mixFunc
}

func (f *Fader) Name() string { return "fader" }

func (f *Fader) Prepare(ctx *effect.Context) error {
	f.text = ctx.Settings.String("text", "saver")
	f.steps = max(ctx.Settings.Int("steps", 30), 1)
	f.delay = frameDelay(ctx, 50*time.Millisecond)
	f.hold = ctx.Settings.Duration("hold", time.Second)
	f.mix = colorMixer(ctx)
	return f.Base.Prepare(ctx)
}

func (f *Fader) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	x := ctx.Rand.Intn(max(w-render.TextWidth(f.text), 1))
	y := ctx.Rand.Intn(h)
	color := levelColor(ctx)

	// Fade in, hold, fade out
	for _, dir := range [2]bool{true, false} {
		for i := 1; i <= f.steps; i++ {
			if ctx.Resized() {
				return effect.ErrResized
			}
			t := float64(i) / float64(f.steps)
			if !dir {
				t = 1 - t
			}
			render.DrawText(ctx.Surface, x, y, f.text, f.mix(terminal.Black, color, t), terminal.Black)
			ctx.Surface.Flush()
			if !ctx.DelayDuration(f.delay) {
				return nil
			}
		}
		if dir && !ctx.DelayDuration(f.hold) {
			return nil
		}
	}
	return nil
}

func (f *Fader) Outro(*effect.Context) error {
	*f = Fader{}
	return nil
}
