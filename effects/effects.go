// Package effects holds the built-in screensavers.
// Each effect owns only per-instance state: Prepare resets it, Outro drops it.
package effects

import (
	"strings"
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/registry"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
	"github.com/lixenwraith/saver/vmath"
)

// Builtin returns the static registration list in display order
func Builtin() []registry.Registration {
	return []registry.Registration{
		{Name: "bloom", New: func() effect.Effect { return &Bloom{} }},
		{Name: "bouncingtext", New: func() effect.Effect { return &BouncingText{} }},
		{Name: "colormix", New: func() effect.Effect { return &ColorMix{} }},
		{Name: "disco", Flags: effect.FlagFlashing, New: func() effect.Effect { return &Disco{} }},
		{Name: "fader", New: func() effect.Effect { return &Fader{} }},
		{Name: "lines", New: func() effect.Effect { return &Lines{} }},
		{Name: "marquee", New: func() effect.Effect { return &Marquee{} }},
		{Name: "matrix", New: func() effect.Effect { return &Matrix{} }},
		{Name: "pulse", New: func() effect.Effect { return &Pulse{} }},
		{Name: "siren", Flags: effect.FlagFlashing | effect.FlagAudio, New: func() effect.Effect { return &Siren{name: "siren"} }},
		{Name: "starfield", New: func() effect.Effect { return &Starfield{} }},
		{Name: "wipe", New: func() effect.Effect { return &Wipe{} }},
	}
}

// Register adds every built-in effect and queues the siren theme initializer
func Register(reg *registry.Registry) error {
	for _, r := range Builtin() {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	reg.AddInitializer(RegisterSirenThemes)
	return nil
}

// retainer reports how many buffered items an effect holds between ticks
type retainer interface {
	retained() int
}

// frameDelay reads the "delay" setting, falling back for missing or non-positive values
func frameDelay(ctx *effect.Context, fallback time.Duration) time.Duration {
	d := ctx.Settings.Duration("delay", fallback)
	if d <= 0 {
		return fallback
	}
	return d
}

// levelColor picks a random RGB color with every channel in [min_level, max_level]
func levelColor(ctx *effect.Context) terminal.Color {
	lo := vmath.Clamp(ctx.Settings.Int("min_level", 0), 0, 255)
	hi := vmath.Clamp(ctx.Settings.Int("max_level", 255), 0, 255)
	r := ctx.Rand
	return terminal.RGB(r.Range(lo, hi), r.Range(lo, hi), r.Range(lo, hi))
}

// randomColor honors "truecolor": false by picking from the 256-color palette
// and "grayscale": true by dropping the chroma of the pick
func randomColor(ctx *effect.Context) terminal.Color {
	var c terminal.Color
	if !ctx.Settings.Bool("truecolor", true) {
		c = terminal.Palette(uint8(ctx.Rand.Intn(256)))
	} else {
		c = levelColor(ctx)
	}
	if ctx.Settings.Bool("grayscale", false) {
		c = render.Grayscale(c)
	}
	return c
}

type mixFunc func(a, b terminal.Color, t float64) terminal.Color

// colorMixer selects fade interpolation from "blend": "rgb" (default) or "lab"
func colorMixer(ctx *effect.Context) mixFunc {
	if strings.EqualFold(ctx.Settings.String("blend", "rgb"), "lab") {
		return render.Blend
	}
	return render.Lerp
}
