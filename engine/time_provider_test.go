package engine

import (
	"testing"
	"time"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestManualTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var provider TimeProvider = NewManualTime(start)
	manual := provider.(*ManualTime)

	if now := provider.Now(); !now.Equal(start) {
		t.Errorf("Expected initial time %v, got %v", start, now)
	}

	manual.Advance(90 * time.Second)
	if now := provider.Now(); !now.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Expected time advanced by 90s, got %v", now)
	}

	later := start.Add(time.Hour)
	manual.Set(later)
	if now := provider.Now(); !now.Equal(later) {
		t.Errorf("Expected time %v after Set, got %v", later, now)
	}
}
