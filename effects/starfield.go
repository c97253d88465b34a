package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
)

// star is a point in a unit cube in front of the viewer; z shrinks toward 0 as it approaches
type star struct {
	x, y, z float64
	px, py  int
}

// Starfield flies through a field of stars projected from the screen center
type Starfield struct {
	effect.Base

	stars []star
	speed float64
}

func (s *Starfield) Name() string { return "starfield" }

func (s *Starfield) Prepare(ctx *effect.Context) error {
	count := max(ctx.Settings.Int("stars", 80), 1)
	s.speed = ctx.Settings.Float("speed", 0.02)
	if s.speed <= 0 {
		s.speed = 0.02
	}
	s.stars = make([]star, count)
	for i := range s.stars {
		s.spawn(ctx, &s.stars[i])
	}
	return s.Base.Prepare(ctx)
}

func (s *Starfield) spawn(ctx *effect.Context, st *star) {
	st.x = ctx.Rand.Float64()*2 - 1
	st.y = ctx.Rand.Float64()*2 - 1
	st.z = 0.2 + ctx.Rand.Float64()*0.8
	st.px, st.py = -1, -1
}

func (s *Starfield) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	cx, cy := float64(w)/2, float64(h)/2

	for i := range s.stars {
		st := &s.stars[i]
		ctx.Surface.SetCell(st.px, st.py, ' ', terminal.Black, terminal.Black)

		st.z -= s.speed
		if st.z <= 0.01 {
			s.spawn(ctx, st)
			continue
		}

		x := int(cx + st.x/st.z*cx)
		y := int(cy + st.y/st.z*cy)
		if x < 0 || x >= w || y < 0 || y >= h {
			s.spawn(ctx, st)
			continue
		}
		st.px, st.py = x, y

		// Closer stars are brighter and bigger
		bright := render.Scale(terminal.White, 1.2-st.z)
		glyph := '.'
		if st.z < 0.3 {
			glyph = '*'
		}
		ctx.Surface.SetCell(x, y, glyph, bright, terminal.Black)
	}
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 30*time.Millisecond))
	return nil
}

// Resync forgets drawn positions, which belong to the old geometry
func (s *Starfield) Resync(ctx *effect.Context) error {
	for i := range s.stars {
		s.stars[i].px, s.stars[i].py = -1, -1
	}
	ctx.Surface.Paint(terminal.Black)
	return nil
}

func (s *Starfield) Outro(*effect.Context) error {
	s.stars = nil
	return nil
}

func (s *Starfield) retained() int { return len(s.stars) }
