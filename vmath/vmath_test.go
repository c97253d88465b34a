package vmath

import (
	"math"
	"testing"
)

func TestPeriodStepsFindsCycle(t *testing.T) {
	// 2π / (π/8) = 16 steps per period
	n, ok := PeriodSteps(1, math.Pi/8, 0)
	if !ok {
		t.Fatal("Expected period to be found")
	}
	if n != 16 {
		t.Errorf("Expected 16 steps, got %d", n)
	}
}

func TestPeriodStepsBounded(t *testing.T) {
	tests := []struct {
		name       string
		freq, step float64
	}{
		{"zero frequency", 0, 0.1},
		{"negative step", 1, -0.1},
		{"nan", math.NaN(), 0.1},
		{"infinite", math.Inf(1), 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := PeriodSteps(tt.freq, tt.step, 100); ok {
				t.Errorf("Expected degenerate input to fail")
			}
		})
	}

	// Irrational ratio with a tiny limit never closes the cycle
	n, ok := PeriodSteps(1, 1, 50)
	if ok {
		t.Errorf("Expected search to hit its limit, returned %d", n)
	}
	if n != 50 {
		t.Errorf("Expected limit 50 returned, got %d", n)
	}
}

func TestFastRandRanges(t *testing.T) {
	r := NewFastRand(42)
	for i := 0; i < 1000; i++ {
		if v := r.Range(3, 7); v < 3 || v > 7 {
			t.Fatalf("Range out of bounds: %d", v)
		}
		if v := r.Range(7, 3); v < 3 || v > 7 {
			t.Fatalf("Swapped range out of bounds: %d", v)
		}
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of bounds: %f", f)
		}
	}
	if r.Chance(0) {
		t.Error("Expected 0% chance to be false")
	}
	if !r.Chance(100) {
		t.Error("Expected 100% chance to be true")
	}
	if r.Index(0) != 0 {
		t.Error("Expected Index(0) to return 0")
	}
}

func TestFastRandDeterministic(t *testing.T) {
	a, b := NewFastRand(7), NewFastRand(7)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatal("Expected identical sequences for identical seeds")
		}
	}
}

func TestFastRandRangeCoversBounds(t *testing.T) {
	r := NewFastRand(99)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		seen[r.Range(0, 3)] = true
	}
	for v := 0; v <= 3; v++ {
		if !seen[v] {
			t.Errorf("Expected value %d to appear", v)
		}
	}
}

func TestSinLUT(t *testing.T) {
	if math.Abs(Sin(0.25)-1) > 1e-9 {
		t.Errorf("Expected sin(quarter turn) = 1, got %f", Sin(0.25))
	}
	if math.Abs(Cos(0)-1) > 1e-9 {
		t.Errorf("Expected cos(0) = 1, got %f", Cos(0))
	}
	if math.Abs(Sin(-0.25)+1) > 1e-9 {
		t.Errorf("Expected negative turns to wrap, got %f", Sin(-0.25))
	}
}

func TestClampAndWrap(t *testing.T) {
	if Clamp(-3, 0, 10) != 0 || Clamp(30, 0, 10) != 10 || Clamp(4, 0, 10) != 4 {
		t.Error("Clamp mismatch")
	}
	if Wrap(-1, 5) != 4 || Wrap(7, 5) != 2 || Wrap(3, 0) != 0 {
		t.Error("Wrap mismatch")
	}
}
