package vmath

import "math"

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap maps v into [0, n)
func Wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// MaxPeriodSteps caps PeriodSteps when the caller passes no limit
const MaxPeriodSteps = 1 << 16

// periodTolerance is how close cos must come back to 1 to count as a full cycle
const periodTolerance = 1e-4

// PeriodSteps counts steps of size step until cos(freq*step*n) returns to its peak.
// The search gives up after limit steps (MaxPeriodSteps when limit <= 0) and reports false,
// as it does for zero, negative or non-finite inputs.
func PeriodSteps(freq, step float64, limit int) (int, bool) {
	if limit <= 0 {
		limit = MaxPeriodSteps
	}
	phase := freq * step
	if !(phase > 0) || math.IsInf(phase, 0) {
		return 0, false
	}

	// Must leave the peak before a return counts
	left := false
	for n := 1; n <= limit; n++ {
		v := math.Cos(phase * float64(n))
		if !left {
			left = v < 1-periodTolerance
			continue
		}
		if v >= 1-periodTolerance {
			return n, true
		}
	}
	return limit, false
}

// --- Randomness ---

// FastRand is a xorshift64 generator. Not safe for concurrent use
type FastRand struct {
	state uint64
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns [0, n). Returns 0 for n <= 0
func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Range returns a value in [lo, hi] inclusive; bounds may be given in either order
func (r *FastRand) Range(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance returns true with the given percent probability
func (r *FastRand) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.Intn(100) < percent
}

// Index returns a random index into a slice of length n
func (r *FastRand) Index(n int) int {
	return r.Intn(n)
}

// Float64 returns [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}
