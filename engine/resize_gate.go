package engine

import "sync/atomic"

// ResizeGate is an edge-triggered resize flag
// Signal is the only operation the resize notifier may perform; the render goroutine reads and clears
type ResizeGate struct {
	pending atomic.Bool
	signals atomic.Uint64
}

// Signal marks a resize. Safe to call concurrently with a tick
func (g *ResizeGate) Signal() {
	g.signals.Add(1)
	g.pending.Store(true)
}

// CheckAndClear reports whether a resize happened since the last clear, clearing the flag when consume is set
func (g *ResizeGate) CheckAndClear(consume bool) bool {
	if consume {
		return g.pending.Swap(false)
	}
	return g.pending.Load()
}

// Consume is CheckAndClear(true)
func (g *ResizeGate) Consume() bool {
	return g.pending.Swap(false)
}

// Pending is CheckAndClear(false)
func (g *ResizeGate) Pending() bool {
	return g.pending.Load()
}

// Signals returns the number of Signal calls observed
func (g *ResizeGate) Signals() uint64 {
	return g.signals.Load()
}
