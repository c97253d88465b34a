package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/saver/terminal"
)

// ErrPanic marks errors produced from a recovered panic
var ErrPanic = errors.New("panic")

// crashCleanup restores the terminal owned by the host; EmergencyReset is the fallback
var crashCleanup atomic.Pointer[func()]

// SetCrashCleanup registers the function HandleCrash runs before printing
func SetCrashCleanup(fn func()) {
	if fn == nil {
		crashCleanup.Store(nil)
		return
	}
	crashCleanup.Store(&fn)
}

// HandleCrash resets the terminal, prints the panic with a stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if fn := crashCleanup.Load(); fn != nil {
		(*fn)()
	} else {
		terminal.EmergencyReset(os.Stdout)
	}
	os.Stdout.Sync()

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Guard runs fn and converts a panic into an error wrapping ErrPanic.
// The error carries the stack of the recovery point; print it with %+v.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.WithStack(fmt.Errorf("%w: %w", ErrPanic, e))
				return
			}
			err = errors.Wrapf(ErrPanic, "%v", r)
		}
	}()
	return fn()
}
