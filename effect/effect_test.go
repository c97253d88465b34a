package effect

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
)

// sleeper delays inside Tick and records how long it took
type sleeper struct {
	Base
	ms      int
	elapsed time.Duration
	full    bool
}

func (s *sleeper) Name() string { return "sleeper" }

func (s *sleeper) Tick(ctx *Context) error {
	start := time.Now()
	s.full = ctx.Delay(s.ms)
	s.elapsed = time.Since(start)
	return nil
}

func TestBasePrepareHidesCursorAndPaintsBlack(t *testing.T) {
	m := render.NewMemory(4, 3)
	ctx := NewContext(m, nil, nil)

	if err := (Base{}).Prepare(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if m.CursorVisible() {
		t.Error("Expected cursor hidden")
	}
	if p := m.Paints(); len(p) != 1 || p[0] != terminal.Black {
		t.Errorf("Expected one black paint, got %v", p)
	}
	if err := (Base{}).Outro(ctx); err != nil {
		t.Errorf("Expected default Outro to succeed, got %v", err)
	}
	if (Base{}).Flags() != 0 {
		t.Error("Expected no default flags")
	}
}

func TestDelayIsNoOpOutsideTick(t *testing.T) {
	ctx := NewContext(render.NewMemory(1, 1), nil, nil)

	start := time.Now()
	if !ctx.Delay(500) {
		t.Error("Expected no-op delay to report completion")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate return outside Tick, took %v", elapsed)
	}
	if ctx.Clock.Frames() != 0 {
		t.Errorf("Expected clock untouched, got %d frames", ctx.Clock.Frames())
	}
}

func TestRunTickEnablesDelay(t *testing.T) {
	ctx := NewContext(render.NewMemory(1, 1), nil, nil)
	e := &sleeper{ms: 30}

	if err := ctx.RunTick(e); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if !e.full || e.elapsed < 30*time.Millisecond {
		t.Errorf("Expected full 30ms delay inside Tick, got %v (full=%v)", e.elapsed, e.full)
	}
	if ctx.Frame() != 1 {
		t.Errorf("Expected frame 1, got %d", ctx.Frame())
	}

	// Delay is disabled again after Tick returns
	start := time.Now()
	ctx.Delay(200)
	if time.Since(start) > 50*time.Millisecond {
		t.Error("Expected Delay disabled after RunTick")
	}

	ctx.Begin(nil)
	if ctx.Frame() != 0 {
		t.Errorf("Expected Begin to reset frame counter, got %d", ctx.Frame())
	}
}

func TestDelayInterruptedByStop(t *testing.T) {
	var stop engine.StopSignal
	ctx := NewContext(render.NewMemory(1, 1), nil, engine.NewFrameClock(0, &stop))
	e := &sleeper{ms: 2000}

	stop.Request()
	ctx.RunTick(e)
	if e.full {
		t.Error("Expected interrupted delay")
	}
	if e.elapsed > time.Second {
		t.Errorf("Expected early return, took %v", e.elapsed)
	}
	if !ctx.Stopping() {
		t.Error("Expected Stopping to report the request")
	}
}

func TestResizedConsumesGate(t *testing.T) {
	ctx := NewContext(render.NewMemory(1, 1), nil, nil)

	ctx.Gate.Signal()
	if !ctx.ResizePending() {
		t.Error("Expected pending resize")
	}
	if !ctx.Resized() {
		t.Error("Expected first Resized to report true")
	}
	if ctx.Resized() {
		t.Error("Expected second Resized to report false")
	}
}

func TestFlagsAndSentinel(t *testing.T) {
	f := FlagFlashing | FlagAudio
	if !f.Has(FlagFlashing) || !f.Has(FlagAudio) {
		t.Error("Expected both flags set")
	}
	if Flags(0).Has(FlagFlashing) {
		t.Error("Expected empty flags")
	}

	wrapped := errors.Join(errors.New("step 3"), ErrResized)
	if !errors.Is(wrapped, ErrResized) {
		t.Error("Expected ErrResized to survive wrapping")
	}
}
