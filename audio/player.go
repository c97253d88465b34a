package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player plays short synthesized tones for effects
// Implementations must not block the render goroutine
type Player interface {
	// Tone plays a fixed frequency
	Tone(freq float64, duration time.Duration, wave WaveType)

	// Sweep glides between two frequencies
	Sweep(from, to float64, duration time.Duration, wave WaveType)

	// Stop silences everything queued
	Stop()
}

// Nop is a Player that discards every request
type Nop struct{}

func (Nop) Tone(float64, time.Duration, WaveType)           {}
func (Nop) Sweep(float64, float64, time.Duration, WaveType) {}
func (Nop) Stop()                                           {}

// SoundManager plays tones through the beep speaker and a shared mixer
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a sound manager; Initialize must succeed before anything is heard
func NewSoundManager(cfg Config) *SoundManager {
	cfg = cfg.Normalize()
	return &SoundManager{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Calling it again is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Close clears the mixer; beep has no way to close the speaker itself
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

func (sm *SoundManager) Tone(freq float64, duration time.Duration, wave WaveType) {
	sm.Sweep(freq, freq, duration, wave)
}

func (sm *SoundManager) Sweep(from, to float64, duration time.Duration, wave WaveType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || duration <= 0 {
		return
	}
	s := toneStreamer(from, to, duration, wave, sm.cfg.MasterVolume, sm.rate)
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func (sm *SoundManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
}

// Active returns the number of streamers still playing
func (sm *SoundManager) Active() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return sm.mixer.Len()
}
