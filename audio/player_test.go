package audio

import (
	"testing"
	"time"
)

// TestSoundManagerGracefulDegradation verifies playback calls are safe before initialization
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.Tone(440, 100*time.Millisecond, WaveSine)
	sm.Sweep(200, 800, 100*time.Millisecond, WaveSaw)
	sm.Stop()
	sm.Close()
	if sm.Active() != 0 {
		t.Errorf("Expected no active streamers, got %d", sm.Active())
	}
}

// TestSoundManagerInitialization may fail without an audio device; that is not a failure
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())

	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should be a no-op, got error: %v", err)
	}

	sm.Tone(440, 50*time.Millisecond, WaveSine)
	sm.Stop()
	if sm.Active() != 0 {
		t.Errorf("Expected Stop to clear the mixer, got %d", sm.Active())
	}
	sm.Close()
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{MasterVolume: 3, SampleRate: -1}.Normalize()
	if cfg.MasterVolume != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", cfg.MasterVolume)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate, got %d", cfg.SampleRate)
	}
}

func TestNopPlayer(t *testing.T) {
	var p Player = Nop{}
	p.Tone(1, time.Second, WaveSine)
	p.Sweep(1, 2, time.Second, WaveSine)
	p.Stop()
}
