package effect

import (
	"io"
	"log"
	"time"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/vmath"
)

// Context is what an effect sees of the host. It is owned by the render goroutine
type Context struct {
	Surface  render.Surface
	Gate     *engine.ResizeGate
	Clock    *engine.FrameClock
	Rand     *vmath.FastRand
	Settings config.EffectSettings
	Log      *log.Logger
	Audio    audio.Player

	inTick bool
	frame  uint64
}

// NewContext fills unset collaborators with inert defaults
func NewContext(s render.Surface, gate *engine.ResizeGate, clock *engine.FrameClock) *Context {
	if gate == nil {
		gate = &engine.ResizeGate{}
	}
	if clock == nil {
		clock = engine.NewFrameClock(0)
	}
	return &Context{
		Surface: s,
		Gate:    gate,
		Clock:   clock,
		Rand:    vmath.NewFastRand(uint64(time.Now().UnixNano())),
		Log:     log.New(io.Discard, "", 0),
		Audio:   audio.Nop{},
	}
}

// Size returns the live surface size
func (c *Context) Size() (int, int) {
	return c.Surface.Size()
}

// Resized consumes the resize gate. Multi-step draws call it between steps and return ErrResized when true
func (c *Context) Resized() bool {
	return c.Gate.Consume()
}

// ResizePending peeks at the gate without clearing it
func (c *Context) ResizePending() bool {
	return c.Gate.Pending()
}

// Delay sleeps for ms milliseconds, cut short by a stop or skip request.
// Outside Tick it returns immediately. Reports whether the full delay elapsed.
func (c *Context) Delay(ms int) bool {
	return c.DelayDuration(time.Duration(ms) * time.Millisecond)
}

// DelayDuration is Delay for a time.Duration
func (c *Context) DelayDuration(d time.Duration) bool {
	if !c.inTick {
		return true
	}
	return c.Clock.Delay(d, true)
}

// Stopping reports whether the host asked the effect to finish
func (c *Context) Stopping() bool {
	return c.Clock.Interrupted()
}

// Frame returns the number of ticks started in the current activation
func (c *Context) Frame() uint64 {
	return c.frame
}

// Begin resets per-activation counters
func (c *Context) Begin(settings config.EffectSettings) {
	c.Settings = settings
	c.frame = 0
	c.inTick = false
}

// RunTick invokes e.Tick with Delay enabled
func (c *Context) RunTick(e Effect) error {
	c.frame++
	c.inTick = true
	defer func() { c.inTick = false }()
	return e.Tick(c)
}
