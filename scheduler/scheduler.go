package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/saver/core"
	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/registry"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/status"
	"github.com/lixenwraith/saver/vmath"
)

// ErrNoRunnableEffect is returned when no candidate can be activated
var ErrNoRunnableEffect = errors.New("no runnable effect")

// State is the lifecycle state of the active effect
type State int

const (
	StateUninitialized State = iota
	StatePrepared
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePrepared:
		return "prepared"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "uninitialized"
	}
}

// Scheduler activates effects one at a time and drives prepare, tick and outro on the calling goroutine.
// Only RequestStop, RequestSkip and the resize gate may be touched from other goroutines.
type Scheduler struct {
	reg     *registry.Registry
	opts    Options
	surface render.Surface
	gate    *engine.ResizeGate
	clock   *engine.FrameClock
	ctx     *effect.Context
	rng     *vmath.FastRand
	log     *log.Logger

	stop engine.StopSignal
	skip engine.StopSignal

	current      effect.Effect
	currentName  string
	activationID string
	state        State
	activatedAt  time.Time
	previous     string
	// Names that faulted since the last healthy tick
	faulted map[string]struct{}

	statActivations *atomic.Int64
	statTicks       *atomic.Int64
	statFaults      *atomic.Int64
	statResyncs     *atomic.Int64
	statEffect      *status.AtomicString
	statActivation  *status.AtomicString
	statFrameMs     *status.AtomicFloat
}

// New creates a scheduler drawing to surface. A nil gate gets a private one
func New(reg *registry.Registry, surface render.Surface, gate *engine.ResizeGate, opts Options) *Scheduler {
	opts = opts.withDefaults()
	if gate == nil {
		gate = &engine.ResizeGate{}
	}

	s := &Scheduler{
		reg:     reg,
		opts:    opts,
		surface: surface,
		gate:    gate,
		rng:     vmath.NewFastRand(opts.Seed),
		log:     opts.Log,
		faulted: make(map[string]struct{}),

		statActivations: opts.Status.Ints.Get("activations"),
		statTicks:       opts.Status.Ints.Get("ticks"),
		statFaults:      opts.Status.Ints.Get("faults"),
		statResyncs:     opts.Status.Ints.Get("resyncs"),
		statEffect:      opts.Status.Strings.Get("effect"),
		statActivation:  opts.Status.Strings.Get("activation"),
		statFrameMs:     opts.Status.Floats.Get("frame_ms"),
	}
	s.clock = engine.NewFrameClock(opts.MinInterval, &s.stop, &s.skip)

	s.ctx = effect.NewContext(surface, gate, s.clock)
	s.ctx.Rand = vmath.NewFastRand(opts.Seed ^ 0x9e3779b97f4a7c15)
	s.ctx.Log = opts.Log
	s.ctx.Audio = opts.Audio
	return s
}

// Register adds an effect registration
func (s *Scheduler) Register(reg registry.Registration) error {
	return s.reg.Register(reg)
}

// Init runs the registry's one-shot initializers. Called implicitly before the first activation
func (s *Scheduler) Init() error {
	return s.reg.Init()
}

// RequestStop asks the run loop to finish the current effect and return. Safe from any goroutine
func (s *Scheduler) RequestStop() {
	s.stop.Request()
}

// RequestSkip asks the run loop to rotate to the next effect. Safe from any goroutine
func (s *Scheduler) RequestSkip() {
	s.skip.Request()
}

// StopRequested reports whether RequestStop was called
func (s *Scheduler) StopRequested() bool {
	return s.stop.Requested()
}

// Current returns the active effect name, or "" when none
func (s *Scheduler) Current() string {
	return s.currentName
}

// State returns the lifecycle state of the active effect
func (s *Scheduler) State() State {
	return s.state
}

// Status returns the metrics registry
func (s *Scheduler) Status() *status.Registry {
	return s.opts.Status
}

// Clock returns the frame clock shared with effects
func (s *Scheduler) Clock() *engine.FrameClock {
	return s.clock
}

// Candidates returns the names eligible for automatic selection, in registration order
func (s *Scheduler) Candidates() []string {
	var out []string
	for _, name := range s.reg.Names() {
		if len(s.opts.Enabled) > 0 && !slices.Contains(s.opts.Enabled, name) {
			continue
		}
		reg, _ := s.reg.Lookup(name)
		if reg.Flags.Has(effect.FlagFlashing) && !s.opts.AllowFlashing {
			continue
		}
		out = append(out, name)
	}
	return out
}

// pick chooses the next name among candidates that have not faulted in the current streak
func (s *Scheduler) pick() (string, error) {
	all := s.Candidates()
	if len(all) == 0 {
		return "", fmt.Errorf("%w: no enabled effects", ErrNoRunnableEffect)
	}

	pool := make([]string, 0, len(all))
	for _, name := range all {
		if _, bad := s.faulted[name]; !bad {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: all %d candidates faulted", ErrNoRunnableEffect, len(all))
	}

	if s.opts.Order == OrderSequential {
		// Next in registration order after the previous effect, wrapping
		start := slices.Index(all, s.previous) + 1
		for i := 0; i < len(all); i++ {
			name := all[(start+i)%len(all)]
			if slices.Contains(pool, name) {
				return name, nil
			}
		}
	}

	if s.opts.NoRepeat && len(pool) > 1 {
		if i := slices.Index(pool, s.previous); i >= 0 {
			pool = slices.Delete(pool, i, i+1)
		}
	}
	return pool[s.rng.Index(len(pool))], nil
}

// ActivateNext stops the current effect and activates the next candidate.
// Candidates whose Prepare faults are skipped until one succeeds or none remain.
func (s *Scheduler) ActivateNext() (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	s.deactivate()

	for {
		name, err := s.pick()
		if err != nil {
			return "", err
		}
		if err := s.activate(name); err != nil {
			if errors.Is(err, registry.ErrUnknownEffect) {
				return "", err
			}
			continue
		}
		return name, nil
	}
}

// ActivateByName stops the current effect and activates name, bypassing selection filters
func (s *Scheduler) ActivateByName(name string) error {
	if err := s.Init(); err != nil {
		return err
	}
	if _, ok := s.reg.Lookup(name); !ok {
		return fmt.Errorf("%w: %s", registry.ErrUnknownEffect, name)
	}
	s.deactivate()
	return s.activate(name)
}

func (s *Scheduler) activate(name string) error {
	inst, err := s.reg.Instance(name)
	if err != nil {
		if !errors.Is(err, registry.ErrUnknownEffect) {
			s.fault(name, "construct", err)
		}
		return err
	}

	s.activationID = uuid.NewString()
	s.ctx.Begin(s.opts.Settings(name))
	s.skip.Reset()

	if err := core.Guard(func() error { return inst.Prepare(s.ctx) }); err != nil {
		s.fault(name, "prepare", err)
		return err
	}

	s.current = inst
	s.currentName = name
	s.previous = name
	s.state = StatePrepared
	s.activatedAt = s.opts.Time.Now()

	s.statActivations.Add(1)
	s.statEffect.Store(name)
	s.statActivation.Store(s.activationID)
	s.log.Printf("[%s] activated %s", s.activationID, name)
	return nil
}

// deactivate runs Outro once for the active effect
func (s *Scheduler) deactivate() {
	if s.current == nil {
		return
	}
	inst, name := s.current, s.currentName
	s.current = nil
	s.currentName = ""
	s.state = StateStopped

	if err := core.Guard(func() error { return inst.Outro(s.ctx) }); err != nil {
		s.fault(name, "outro", err)
		return
	}
	s.log.Printf("[%s] stopped %s after %d frames", s.activationID, name, s.ctx.Frame())
}

// fault logs err with its stack and discards the instance so the next activation is fresh
func (s *Scheduler) fault(name, phase string, err error) {
	s.statFaults.Add(1)
	s.faulted[name] = struct{}{}
	s.reg.Discard(name)
	s.log.Printf("[%s] effect %s %s fault: %+v", s.activationID, name, phase, err)
}

// Step runs one tick of the active effect and handles resize aborts.
// A non-nil error means the effect faulted and has been stopped.
func (s *Scheduler) Step() error {
	if s.current == nil {
		return fmt.Errorf("%w: nothing active", ErrNoRunnableEffect)
	}

	start := time.Now()
	framesBefore := s.clock.Frames()

	inst, name := s.current, s.currentName
	err := core.Guard(func() error { return s.ctx.RunTick(inst) })
	s.state = StateRunning
	s.statTicks.Add(1)

	switch {
	case errors.Is(err, effect.ErrResized), err == nil && s.gate.Pending():
		if err := s.resync(); err != nil {
			return err
		}
	case err != nil:
		s.current = nil
		s.currentName = ""
		s.state = StateStopped
		s.fault(name, "tick", err)
		return err
	default:
		clear(s.faulted)
	}

	// A tick that never delayed still yields the minimum interval
	if s.clock.Frames() == framesBefore {
		s.clock.Delay(s.clock.MinInterval(), true)
	}
	s.statFrameMs.Smooth(float64(time.Since(start))/float64(time.Millisecond), 0.1)
	return nil
}

// resync consumes the gate, clears the screen and lets the effect rebuild its geometry
func (s *Scheduler) resync() error {
	s.gate.Consume()
	s.surface.Sync()
	s.statResyncs.Add(1)

	inst, name := s.current, s.currentName
	err := core.Guard(func() error {
		if r, ok := inst.(effect.Resyncer); ok {
			return r.Resync(s.ctx)
		}
		return inst.Prepare(s.ctx)
	})
	if err != nil {
		s.current = nil
		s.currentName = ""
		s.state = StateStopped
		s.fault(name, "resync", err)
		return err
	}
	w, h := s.surface.Size()
	s.log.Printf("[%s] %s resynced at %dx%d", s.activationID, name, w, h)
	return nil
}

func (s *Scheduler) rotationDue() bool {
	return s.opts.Rotate > 0 && s.opts.Time.Now().Sub(s.activatedAt) >= s.opts.Rotate
}

// RunUntilStopRequested drives effects until RequestStop or ctx cancellation.
// Faulting effects are skipped; ErrNoRunnableEffect is returned once every candidate has faulted in a row.
func (s *Scheduler) RunUntilStopRequested(ctx context.Context) error {
	if err := s.Init(); err != nil {
		return err
	}
	stopWatch := context.AfterFunc(ctx, s.RequestStop)
	defer stopWatch()
	defer s.deactivate()

	if s.current == nil {
		if _, err := s.ActivateNext(); err != nil {
			return err
		}
	}

	for !s.stop.Requested() {
		if s.skip.Reset() || s.rotationDue() {
			if _, err := s.ActivateNext(); err != nil {
				return err
			}
			continue
		}

		if err := s.Step(); err != nil {
			if _, err := s.ActivateNext(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats returns a snapshot of the scheduler metrics
func (s *Scheduler) Stats() map[string]any {
	return s.opts.Status.Snapshot()
}

// Deactivate runs the active effect's Outro and leaves nothing active
func (s *Scheduler) Deactivate() {
	s.deactivate()
}
