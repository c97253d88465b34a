package effects

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/registry"
	"github.com/lixenwraith/saver/terminal"
)

// SirenThemes maps a theme name to the colors it alternates through
var SirenThemes = map[string][]terminal.Color{
	"police":    {terminal.RGB(255, 0, 0), terminal.RGB(0, 0, 255)},
	"fire":      {terminal.RGB(255, 0, 0), terminal.RGB(255, 140, 0), terminal.RGB(255, 255, 0)},
	"ambulance": {terminal.RGB(255, 0, 0), terminal.White},
	"amber":     {terminal.RGB(255, 191, 0), terminal.Black},
}

const defaultSirenTheme = "police"

// Siren flashes the screen through a theme's colors, with an optional wailing tone
type Siren struct {
	effect.Base

	name   string
	theme  string
	colors []terminal.Color
	index  int
	rising bool
}

func (s *Siren) Name() string { return s.name }

func (s *Siren) Flags() effect.Flags { return effect.FlagFlashing | effect.FlagAudio }

func (s *Siren) Prepare(ctx *effect.Context) error {
	theme := s.theme
	if theme == "" {
		theme = ctx.Settings.String("theme", defaultSirenTheme)
	}
	colors, ok := SirenThemes[theme]
	if !ok {
		ctx.Log.Printf("siren: unknown theme %q, using %s", theme, defaultSirenTheme)
		colors = SirenThemes[defaultSirenTheme]
	}
	s.colors = slices.Clone(colors)
	s.index = 0
	s.rising = true
	return s.Base.Prepare(ctx)
}

func (s *Siren) Tick(ctx *effect.Context) error {
	delay := frameDelay(ctx, 250*time.Millisecond)

	ctx.Surface.Paint(s.colors[s.index])
	ctx.Surface.Flush()

	// One sweep per color change, alternating direction
	if ctx.Settings.Bool("sound", true) {
		lo := ctx.Settings.Float("low_hz", 600)
		hi := ctx.Settings.Float("high_hz", 1200)
		if s.rising {
			ctx.Audio.Sweep(lo, hi, delay, audio.WaveSine)
		} else {
			ctx.Audio.Sweep(hi, lo, delay, audio.WaveSine)
		}
		s.rising = !s.rising
	}

	s.index = (s.index + 1) % len(s.colors)
	ctx.DelayDuration(delay)
	return nil
}

func (s *Siren) Outro(ctx *effect.Context) error {
	if s.colors != nil {
		ctx.Audio.Stop()
	}
	s.colors = nil
	s.index = 0
	return nil
}

func (s *Siren) retained() int { return len(s.colors) }

// RegisterSirenThemes registers one fixed-theme siren per entry in SirenThemes, named "siren-<theme>"
func RegisterSirenThemes(reg *registry.Registry) error {
	for _, theme := range slices.Sorted(maps.Keys(SirenThemes)) {
		name := "siren-" + theme
		err := reg.Register(registry.Registration{
			Name:  name,
			Flags: effect.FlagFlashing | effect.FlagAudio,
			New:   func() effect.Effect { return &Siren{name: name, theme: theme} },
		})
		if err != nil {
			return fmt.Errorf("siren theme %s: %w", theme, err)
		}
	}
	return nil
}
