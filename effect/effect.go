package effect

import (
	"errors"

	"github.com/lixenwraith/saver/terminal"
)

// Flags describes properties the scheduler filters on
type Flags uint8

const (
	// FlagFlashing marks effects with rapidly flashing imagery
	FlagFlashing Flags = 1 << iota
	// FlagAudio marks effects that may play sound
	FlagAudio
)

// Has reports whether every bit of f2 is set
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// ErrResized is returned from Tick when a frame was abandoned because the terminal changed size.
// It is a resync request, not a fault.
var ErrResized = errors.New("frame aborted by resize")

// Effect is one animated screensaver
//
// Lifecycle per activation:
//  1. Prepare - reset instance state, paint the initial background
//  2. Tick - draw one frame; the only place Context.Delay sleeps
//  3. Outro - drop retained state; must be safe on an already empty instance
type Effect interface {
	// Name returns the registry key
	Name() string

	// Flags returns the effect's properties
	Flags() Flags

	Prepare(ctx *Context) error
	Tick(ctx *Context) error
	Outro(ctx *Context) error
}

// Resyncer is implemented by effects that can recover from a resize without a full Prepare
type Resyncer interface {
	Resync(ctx *Context) error
}

// Base supplies the default capabilities; embed it and override what differs
type Base struct{}

func (Base) Flags() Flags { return 0 }

// Prepare hides the cursor and paints the screen black
func (Base) Prepare(ctx *Context) error {
	ctx.Surface.SetCursorVisible(false)
	ctx.Surface.Paint(terminal.Black)
	return nil
}

func (Base) Outro(*Context) error { return nil }
