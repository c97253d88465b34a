package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/saver/terminal"
)

const sampleConfig = `
[saver]
backend = "tcell"
rotate = "2m30s"
order = "sequential"
no_repeat = false
allow_flashing = true
enabled = ["bloom", "matrix"]
seed = 42
min_interval = "5ms"

[audio]
enabled = true
volume = 0.8

[effects.bloom]
steps = 10
delay = "50ms"
target = "#ffffff"

[effects.matrix]
density = 35
chars = ["a", "b"]
`

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Saver.Backend != BackendTcell {
		t.Errorf("Expected backend tcell, got %q", cfg.Saver.Backend)
	}
	if cfg.Saver.Rotate.Std() != 150*time.Second {
		t.Errorf("Expected rotate 2m30s, got %v", cfg.Saver.Rotate)
	}
	if cfg.Saver.Order != OrderSequential || cfg.Saver.NoRepeat || !cfg.Saver.AllowFlashing {
		t.Errorf("Unexpected scheduler settings: %+v", cfg.Saver)
	}
	if len(cfg.Saver.Enabled) != 2 || cfg.Saver.Enabled[1] != "matrix" {
		t.Errorf("Expected enabled list, got %v", cfg.Saver.Enabled)
	}
	if cfg.Saver.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Saver.Seed)
	}
	if cfg.Saver.MinInterval.Std() != 5*time.Millisecond {
		t.Errorf("Expected min interval 5ms, got %v", cfg.Saver.MinInterval)
	}
	// Untouched keys keep their defaults
	if cfg.Saver.ColorMode != ColorAuto {
		t.Errorf("Expected default color mode, got %q", cfg.Saver.ColorMode)
	}
	if !cfg.Audio.Enabled || cfg.Audio.MasterVolume != 0.8 || cfg.Audio.SampleRate != 44100 {
		t.Errorf("Unexpected audio config: %+v", cfg.Audio)
	}

	bloom := cfg.Settings("bloom")
	if bloom.Int("steps", 0) != 10 {
		t.Errorf("Expected steps 10, got %d", bloom.Int("steps", 0))
	}
	if bloom.Duration("delay", 0) != 50*time.Millisecond {
		t.Errorf("Expected delay 50ms, got %v", bloom.Duration("delay", 0))
	}
	if bloom.Color("target", terminal.Black) != terminal.White {
		t.Errorf("Expected white target, got %+v", bloom.Color("target", terminal.Black))
	}
	if got := cfg.Settings("matrix").Strings("chars", nil); len(got) != 2 {
		t.Errorf("Expected 2 chars, got %v", got)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse([]byte("[saver\nbackend=")); err == nil {
		t.Error("Expected syntax error")
	}
	if _, err := Parse([]byte("[saver]\nrotate = \"soon\"")); err == nil {
		t.Error("Expected invalid duration error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Saver.Backend = "x11" }},
		{"order", func(c *Config) { c.Saver.Order = "shuffle" }},
		{"color", func(c *Config) { c.Saver.ColorMode = "16" }},
		{"rotate", func(c *Config) { c.Saver.Rotate = Duration(-time.Second) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.toml")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Expected defaults for missing optional file, got %v", err)
	}
	if cfg.Saver.Order != OrderRandom {
		t.Errorf("Expected default order, got %q", cfg.Saver.Order)
	}

	if _, err := Load(path, false); err == nil {
		t.Error("Expected error for missing required file")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saver.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Saver.Backend != BackendTcell {
		t.Errorf("Expected tcell backend from file, got %q", cfg.Saver.Backend)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SAVER_AUDIO_ENABLED":     "true",
		"SAVER_AUDIO_VOLUME":      "150",
		"SAVER_AUDIO_SAMPLE_RATE": "not-a-number",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if !cfg.Audio.Enabled {
		t.Error("Expected audio enabled from env")
	}
	if cfg.Audio.MasterVolume != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", cfg.Audio.MasterVolume)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Expected invalid sample rate ignored, got %d", cfg.Audio.SampleRate)
	}
}
