package effects

import (
	"time"

	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
)

// drop is one falling streak; head is the row of its brightest glyph
type drop struct {
	head   int
	length int
	active bool
}

// Matrix draws falling green glyph streaks, one slot per column
type Matrix struct {
	effect.Base

	columns []drop
	height  int
	chance  int
	color   terminal.Color
}

func (m *Matrix) Name() string { return "matrix" }

func (m *Matrix) Prepare(ctx *effect.Context) error {
	m.chance = ctx.Settings.Int("spawn_chance", 4)
	m.color = ctx.Settings.Color("color", terminal.RGB(0, 220, 60))
	w, h := ctx.Size()
	m.layout(w, h)
	return m.Base.Prepare(ctx)
}

func (m *Matrix) layout(w, h int) {
	m.columns = make([]drop, w)
	m.height = h
}

func (m *Matrix) glyph(ctx *effect.Context) rune {
	// Printable ASCII between '!' and '~'
	return rune(ctx.Rand.Range(33, 126))
}

func (m *Matrix) Tick(ctx *effect.Context) error {
	w, h := ctx.Size()
	if w != len(m.columns) || h != m.height {
		m.layout(w, h)
		ctx.Surface.Paint(terminal.Black)
	}

	for x := range m.columns {
		d := &m.columns[x]
		if !d.active {
			if ctx.Rand.Chance(m.chance) {
				*d = drop{head: 0, length: ctx.Rand.Range(3, max(h/2, 3)), active: true}
			} else {
				continue
			}
		}

		// Previous head turns into body, new head is bright
		if d.head > 0 {
			ctx.Surface.SetCell(x, d.head-1, m.glyph(ctx), m.color, terminal.Black)
		}
		ctx.Surface.SetCell(x, d.head, m.glyph(ctx), terminal.White, terminal.Black)
		if tail := d.head - d.length; tail >= 0 {
			ctx.Surface.SetCell(x, tail, ' ', terminal.Black, terminal.Black)
			if tail+1 < d.head {
				ctx.Surface.SetCell(x, tail+1, m.glyph(ctx), render.Scale(m.color, 0.4), terminal.Black)
			}
		}

		d.head++
		if d.head-d.length > h {
			d.active = false
		}
	}
	ctx.Surface.Flush()
	ctx.DelayDuration(frameDelay(ctx, 40*time.Millisecond))
	return nil
}

// Resync rebuilds the column slots for the new width
func (m *Matrix) Resync(ctx *effect.Context) error {
	w, h := ctx.Size()
	m.layout(w, h)
	ctx.Surface.Paint(terminal.Black)
	return nil
}

func (m *Matrix) Outro(*effect.Context) error {
	m.columns = nil
	m.height = 0
	return nil
}

func (m *Matrix) retained() int { return len(m.columns) }
