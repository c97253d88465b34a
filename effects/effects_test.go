package effects

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/registry"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
	"github.com/lixenwraith/saver/vmath"
)

// fastSettings keeps every effect's per-frame sleeps short
var fastSettings = config.EffectSettings{
	"delay": int64(1),
	"hold":  int64(1),
	"steps": int64(3),
}

func newTestContext(w, h int, settings config.EffectSettings) (*effect.Context, *render.Memory, *engine.ResizeGate) {
	mem := render.NewMemory(w, h)
	gate := &engine.ResizeGate{}
	ctx := effect.NewContext(mem, gate, engine.NewFrameClock(time.Millisecond))
	ctx.Rand = vmath.NewFastRand(7)
	ctx.Begin(settings)
	return ctx, mem, gate
}

func allRegistrations(t *testing.T) []registry.Registration {
	t.Helper()
	reg := registry.New()
	if err := Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	var out []registry.Registration
	for _, name := range reg.Names() {
		r, _ := reg.Lookup(name)
		out = append(out, r)
	}
	return out
}

func TestBuiltinLifecycleAtAnySize(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 2}, {80, 24}}

	for _, r := range allRegistrations(t) {
		for _, size := range sizes {
			t.Run(r.Name, func(t *testing.T) {
				ctx, _, _ := newTestContext(size[0], size[1], fastSettings)
				e := r.New()
				if e.Name() != r.Name {
					t.Errorf("Expected name %s, got %s", r.Name, e.Name())
				}
				if e.Flags() != r.Flags {
					t.Errorf("Expected flags %d to match registration %d", e.Flags(), r.Flags)
				}

				if err := e.Prepare(ctx); err != nil {
					t.Fatalf("Prepare at %dx%d failed: %v", size[0], size[1], err)
				}
				for i := 0; i < 5; i++ {
					if err := ctx.RunTick(e); err != nil {
						t.Fatalf("Tick %d at %dx%d failed: %v", i, size[0], size[1], err)
					}
				}

				// Outro twice is safe and leaves nothing behind
				for i := 0; i < 2; i++ {
					if err := e.Outro(ctx); err != nil {
						t.Fatalf("Outro %d failed: %v", i, err)
					}
					if rt, ok := e.(retainer); ok && rt.retained() != 0 {
						t.Errorf("Expected empty state after outro %d, got %d retained", i, rt.retained())
					}
				}
			})
		}
	}
}

func TestOutroOnFreshInstance(t *testing.T) {
	ctx, _, _ := newTestContext(4, 4, nil)
	for _, r := range allRegistrations(t) {
		if err := r.New().Outro(ctx); err != nil {
			t.Errorf("%s: Expected outro without prepare to succeed, got %v", r.Name, err)
		}
	}
}

func TestBloomScenario(t *testing.T) {
	ctx, mem, _ := newTestContext(8, 4, config.EffectSettings{
		"steps":  int64(10),
		"delay":  "50ms",
		"start":  "0,0,0",
		"target": "255,255,255",
	})
	b := &Bloom{}
	if err := b.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	mem.ResetCounters()

	start := time.Now()
	if err := ctx.RunTick(b); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 450*time.Millisecond {
		t.Errorf("Expected ten 50ms delays, took %v", elapsed)
	}

	paints := mem.Paints()
	if len(paints) != 10 {
		t.Fatalf("Expected 10 paints, got %d", len(paints))
	}
	prev := -1
	for i, c := range paints {
		want := 25.5 * float64(i+1)
		for _, ch := range []uint8{c.R, c.G, c.B} {
			if diff := float64(ch) - want; diff > 0.5 || diff < -0.5 {
				t.Errorf("Step %d: expected channel ~%.1f, got %d", i+1, want, ch)
			}
		}
		if int(c.R) <= prev {
			t.Errorf("Step %d: expected monotonic increase, %d after %d", i+1, c.R, prev)
		}
		prev = int(c.R)
	}
	if last := paints[9]; last.R != 255 || last.G != 255 || last.B != 255 {
		t.Errorf("Expected final paint white, got %+v", last)
	}
}

func TestBloomAbortsOnResize(t *testing.T) {
	ctx, mem, gate := newTestContext(8, 4, fastSettings)
	b := &Bloom{}
	if err := b.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	mem.ResetCounters()

	gate.Signal()
	if err := ctx.RunTick(b); !errors.Is(err, effect.ErrResized) {
		t.Fatalf("Expected ErrResized, got %v", err)
	}
	if n := len(mem.Paints()); n != 0 {
		t.Errorf("Expected no paints after abort, got %d", n)
	}
	if gate.Pending() {
		t.Error("Expected gate consumed by the effect")
	}
}

func TestMatrixFollowsNewSize(t *testing.T) {
	ctx, mem, gate := newTestContext(10, 5, fastSettings)
	m := &Matrix{}
	if err := m.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := ctx.RunTick(m); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	mem.SetSize(30, 8)
	gate.Signal()
	if err := ctx.RunTick(m); err != nil {
		t.Fatalf("Tick after resize failed: %v", err)
	}
	if got := m.retained(); got != 30 {
		t.Errorf("Expected 30 columns after resize, got %d", got)
	}

	mem.SetSize(12, 3)
	if err := m.Resync(ctx); err != nil {
		t.Fatalf("Resync failed: %v", err)
	}
	if got := m.retained(); got != 12 {
		t.Errorf("Expected 12 columns after resync, got %d", got)
	}
}

func TestWipeResizeRoundTrip(t *testing.T) {
	ctx, mem, gate := newTestContext(10, 4, fastSettings)
	w := &Wipe{}
	if err := w.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	mem.SetSize(5, 2)
	gate.Signal()
	if err := ctx.RunTick(w); !errors.Is(err, effect.ErrResized) {
		t.Fatalf("Expected ErrResized, got %v", err)
	}
	if err := w.Prepare(ctx); err != nil {
		t.Fatalf("Re-prepare failed: %v", err)
	}
	mem.ResetCounters()

	if err := ctx.RunTick(w); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if got := mem.Writes(); got != 10 {
		t.Errorf("Expected the new 5x2 geometry to be wiped in 10 writes, got %d", got)
	}
	if w.Wipes() != 1 {
		t.Errorf("Expected one completed wipe, got %d", w.Wipes())
	}
}

func TestBouncingTextStaysOnScreenAfterShrink(t *testing.T) {
	ctx, mem, _ := newTestContext(80, 24, config.EffectSettings{"delay": int64(1), "text": "hello"})
	b := &BouncingText{}
	if err := b.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		ctx.RunTick(b)
	}

	mem.SetSize(8, 3)
	for i := 0; i < 10; i++ {
		if err := ctx.RunTick(b); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		x, y := b.Position()
		if x < 0 || x > 3 || y < 0 || y > 2 {
			t.Fatalf("Expected label inside 8x3, got (%d,%d)", x, y)
		}
	}
}

func TestPulsePeriod(t *testing.T) {
	ctx, mem, _ := newTestContext(4, 4, config.EffectSettings{"frequency": math.Pi / 10, "delay": int64(1)})
	p := &Pulse{}
	if err := p.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if p.Period() != 20 {
		t.Errorf("Expected a 20 step period, got %d", p.Period())
	}

	// A full period ends back at the brightest color
	mem.ResetCounters()
	for i := 0; i <= p.Period(); i++ {
		ctx.RunTick(p)
	}
	paints := mem.Paints()
	if paints[0] != paints[p.Period()] {
		t.Errorf("Expected pulse to repeat after one period, got %+v and %+v", paints[0], paints[p.Period()])
	}
	if trough := paints[p.Period()/2]; trough != terminal.Black {
		t.Errorf("Expected black at half period, got %+v", trough)
	}

	ctx, _, _ = newTestContext(4, 4, config.EffectSettings{"frequency": 0.0})
	p = &Pulse{}
	if err := p.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if p.Period() != pulseFallbackSteps {
		t.Errorf("Expected fallback period %d for zero frequency, got %d", pulseFallbackSteps, p.Period())
	}
}

func TestSirenThemesRegisteredByInit(t *testing.T) {
	reg := registry.New()
	if err := Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, ok := reg.Lookup("siren-police"); ok {
		t.Error("Expected theme variants to wait for Init")
	}
	if err := reg.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	var themed int
	for _, name := range reg.Names() {
		if strings.HasPrefix(name, "siren-") {
			themed++
			r, _ := reg.Lookup(name)
			if !r.Flags.Has(effect.FlagFlashing) {
				t.Errorf("Expected %s flagged as flashing", name)
			}
		}
	}
	if themed != len(SirenThemes) {
		t.Errorf("Expected %d themed sirens, got %d", len(SirenThemes), themed)
	}

	// A second registration of the same themes collides
	if err := RegisterSirenThemes(reg); !errors.Is(err, registry.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

// recordingPlayer captures audio requests
type recordingPlayer struct {
	mu     sync.Mutex
	sweeps [][2]float64
	stops  int
}

func (r *recordingPlayer) Tone(freq float64, d time.Duration, wave audio.WaveType) {
	r.Sweep(freq, freq, d, wave)
}

func (r *recordingPlayer) Sweep(from, to float64, _ time.Duration, _ audio.WaveType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps = append(r.sweeps, [2]float64{from, to})
}

func (r *recordingPlayer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

func TestSirenAlternatesColorsAndSweeps(t *testing.T) {
	ctx, mem, _ := newTestContext(4, 2, config.EffectSettings{"delay": int64(1), "theme": "police"})
	player := &recordingPlayer{}
	ctx.Audio = player

	s := &Siren{name: "siren"}
	if err := s.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	mem.ResetCounters()
	for i := 0; i < 3; i++ {
		ctx.RunTick(s)
	}

	paints := mem.Paints()
	police := SirenThemes["police"]
	if len(paints) != 3 || paints[0] != police[0] || paints[1] != police[1] || paints[2] != police[0] {
		t.Errorf("Expected police colors alternating, got %+v", paints)
	}
	if len(player.sweeps) != 3 {
		t.Fatalf("Expected 3 sweeps, got %d", len(player.sweeps))
	}
	if player.sweeps[0][0] >= player.sweeps[0][1] || player.sweeps[1][0] <= player.sweeps[1][1] {
		t.Errorf("Expected rising then falling sweep, got %v", player.sweeps[:2])
	}

	s.Outro(ctx)
	s.Outro(ctx)
	if player.stops != 1 {
		t.Errorf("Expected audio stopped once, got %d", player.stops)
	}
}

func TestSirenSilentWhenSoundDisabled(t *testing.T) {
	ctx, _, _ := newTestContext(4, 2, config.EffectSettings{"delay": int64(1), "sound": false})
	player := &recordingPlayer{}
	ctx.Audio = player

	s := &Siren{name: "siren-fire", theme: "fire"}
	if err := s.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	ctx.RunTick(s)
	if len(player.sweeps) != 0 {
		t.Errorf("Expected no sweeps, got %d", len(player.sweeps))
	}
	if s.retained() != 3 {
		t.Errorf("Expected fire theme with 3 colors, got %d", s.retained())
	}
}

func TestBloomLabBlend(t *testing.T) {
	ctx, mem, _ := newTestContext(4, 2, config.EffectSettings{
		"steps":  int64(4),
		"delay":  int64(1),
		"start":  "0,0,0",
		"target": "255,255,255",
		"blend":  "lab",
	})
	b := &Bloom{}
	if err := b.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	mem.ResetCounters()
	if err := ctx.RunTick(b); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	paints := mem.Paints()
	if len(paints) != 4 {
		t.Fatalf("Expected 4 paints, got %d", len(paints))
	}
	if mid := paints[1]; mid.R >= 127 {
		t.Errorf("Expected perceptual midpoint darker than the RGB one, got %+v", mid)
	}
	if last := paints[3]; last != terminal.White {
		t.Errorf("Expected final paint white, got %+v", last)
	}
}

func TestRandomColorGrayscale(t *testing.T) {
	ctx, _, _ := newTestContext(2, 2, config.EffectSettings{"grayscale": true})
	for i := 0; i < 50; i++ {
		if c := randomColor(ctx); c.R != c.G || c.G != c.B {
			t.Fatalf("Expected gray, got %+v", c)
		}
	}
}

func TestMarqueeOffsetWraps(t *testing.T) {
	ctx, _, _ := newTestContext(5, 1, config.EffectSettings{"text": "ab", "delay": int64(1)})
	m := &Marquee{}
	if err := m.Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	// Width 5 plus text width 2 gives 8 positions per pass
	for i := 0; i < 8; i++ {
		if err := ctx.RunTick(m); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	if m.offset != 0 {
		t.Errorf("Expected offset back at 0 after a full pass, got %d", m.offset)
	}
}
