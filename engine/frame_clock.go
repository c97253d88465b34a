package engine

import (
	"sync/atomic"
	"time"
)

const (
	// DefaultMinInterval is the floor applied to every frame delay
	DefaultMinInterval = time.Millisecond

	// delaySlice bounds how long an interruptible delay sleeps between stop checks
	delaySlice = 10 * time.Millisecond
)

// StopSignal is a cooperative cancellation flag shared between the host and the render goroutine
type StopSignal struct {
	flag atomic.Bool
}

// Request sets the flag. Safe from any goroutine
func (s *StopSignal) Request() {
	s.flag.Store(true)
}

// Requested reports whether the flag is set
func (s *StopSignal) Requested() bool {
	return s.flag.Load()
}

// Reset clears the flag and reports whether it was set
func (s *StopSignal) Reset() bool {
	return s.flag.Swap(false)
}

// FrameClock paces the render goroutine between frames
// Interruptible delays sleep in short slices and return as soon as any watched signal is set
type FrameClock struct {
	minInterval time.Duration
	signals     []*StopSignal

	frames atomic.Uint64
	slept  atomic.Int64
}

// NewFrameClock creates a clock watching the given signals
// A non-positive minInterval falls back to DefaultMinInterval
func NewFrameClock(minInterval time.Duration, signals ...*StopSignal) *FrameClock {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &FrameClock{
		minInterval: minInterval,
		signals:     signals,
	}
}

// MinInterval returns the delay floor
func (c *FrameClock) MinInterval() time.Duration {
	return c.minInterval
}

// Delay blocks for about d and reports whether the full duration elapsed
// Durations below the minimum interval are raised to it
func (c *FrameClock) Delay(d time.Duration, allowInterrupt bool) bool {
	if d < c.minInterval {
		d = c.minInterval
	}
	c.frames.Add(1)

	start := time.Now()
	defer func() {
		c.slept.Add(int64(time.Since(start)))
	}()

	if !allowInterrupt {
		time.Sleep(d)
		return true
	}

	deadline := start.Add(d)
	for {
		if c.interrupted() {
			return false
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		if remaining > delaySlice {
			remaining = delaySlice
		}
		time.Sleep(remaining)
	}
}

// Interrupted reports whether any watched signal is set
func (c *FrameClock) Interrupted() bool {
	return c.interrupted()
}

func (c *FrameClock) interrupted() bool {
	for _, s := range c.signals {
		if s.Requested() {
			return true
		}
	}
	return false
}

// Frames returns the number of delays performed
func (c *FrameClock) Frames() uint64 {
	return c.frames.Load()
}

// Slept returns the total time spent inside Delay
func (c *FrameClock) Slept() time.Duration {
	return time.Duration(c.slept.Load())
}
