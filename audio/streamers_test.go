package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440.0, 100*time.Millisecond, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok {
		t.Error("Expected stream to return ok=true")
	}
	if n != 100 {
		t.Errorf("Expected to stream 100 samples, got %d", n)
	}
	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
	}
	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestOscillatorSquare verifies square wave generation
func TestOscillatorSquare(t *testing.T) {
	osc := NewOscillator(220.0, 50*time.Millisecond, WaveSquare, beep.SampleRate(44100))

	samples := make([][2]float64, 50)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		if val := samples[i][0]; val != -1.0 && val != 1.0 {
			t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, val)
		}
	}
}

// TestOscillatorEndsAtDuration verifies the stream drains after exactly duration samples
func TestOscillatorEndsAtDuration(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(100, 10*time.Millisecond, WaveTriangle, rate)

	samples := make([][2]float64, 64)
	n, ok := osc.Stream(samples)
	if n != 10 || !ok {
		t.Errorf("Expected 10 samples and ok, got %d %v", n, ok)
	}
	n, ok = osc.Stream(samples)
	if n != 0 || ok {
		t.Errorf("Expected drained stream, got %d %v", n, ok)
	}
}

// TestSweepRisesInPitch compares zero crossings in the first and last quarter
func TestSweepRisesInPitch(t *testing.T) {
	rate := beep.SampleRate(8000)
	sweep := NewSweep(100, 800, time.Second, WaveSine, rate)

	samples := make([][2]float64, 8000)
	n, _ := sweep.Stream(samples)

	crossings := func(from, to int) int {
		c := 0
		for i := from + 1; i < to; i++ {
			if (samples[i-1][0] < 0) != (samples[i][0] < 0) {
				c++
			}
		}
		return c
	}
	early := crossings(0, n/4)
	late := crossings(3*n/4, n)
	if late <= early {
		t.Errorf("Expected more crossings late in the sweep, early=%d late=%d", early, late)
	}
}

// TestEnvelopeShape verifies silence at start and full level mid-sustain
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(250, 100*time.Millisecond, WaveSquare, rate)
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	samples := make([][2]float64, 100)
	n, _ := env.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %f", samples[0][0])
	}
	if math.Abs(samples[50][0]) != 1 {
		t.Errorf("Expected full amplitude in sustain, got %f", samples[50][0])
	}
}

func TestParseWave(t *testing.T) {
	for _, w := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveTriangle} {
		if got := ParseWave(w.String()); got != w {
			t.Errorf("Expected %v, got %v", w, got)
		}
	}
	if ParseWave("unknown") != WaveSine {
		t.Error("Expected unknown wave to default to sine")
	}
}
