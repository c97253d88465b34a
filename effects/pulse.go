package effects

import (
	"math"
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
	"github.com/lixenwraith/saver/vmath"
)

// Pulse breathes the background between black and a color along a cosine wave
type Pulse struct {
	effect.Base

	freq   float64
	period int
	step   int
	color  terminal.Color
}

const (
	pulseStep          = 1.0
	pulseFallbackSteps = 100
)

func (p *Pulse) Name() string { return "pulse" }

func (p *Pulse) Prepare(ctx *effect.Context) error {
	p.freq = ctx.Settings.Float("frequency", 0.05)
	p.color = ctx.Settings.Color("color", terminal.RGB(0, 120, 255))
	p.step = 0

	// Pathological frequencies never return to the peak; fall back to a fixed cycle
	n, ok := vmath.PeriodSteps(p.freq, pulseStep, ctx.Settings.Int("max_period", 0))
	if !ok {
		ctx.Log.Printf("pulse: no period for frequency %v, using %d steps", p.freq, pulseFallbackSteps)
		n = pulseFallbackSteps
		p.freq = 2 * math.Pi / float64(n)
	}
	p.period = n
	return p.Base.Prepare(ctx)
}

func (p *Pulse) Tick(ctx *effect.Context) error {
	// 0 at the peak of cos, 1 at the trough
	t := (1 - vmath.Cos(p.freq*pulseStep*float64(p.step)/(2*math.Pi))) / 2
	ctx.Surface.Paint(render.Lerp(p.color, terminal.Black, t))
	ctx.Surface.Flush()

	p.step = (p.step + 1) % p.period
	ctx.DelayDuration(frameDelay(ctx, 30*time.Millisecond))
	return nil
}

// Period returns the number of ticks in one full pulse
func (p *Pulse) Period() int { return p.period }

func (p *Pulse) Outro(*effect.Context) error {
	*p = Pulse{}
	return nil
}
