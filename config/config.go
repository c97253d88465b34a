package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/saver/audio"
)

// Backend names
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Selection orders
const (
	OrderRandom     = "random"
	OrderSequential = "sequential"
)

// Color modes
const (
	ColorAuto      = "auto"
	Color256       = "256"
	ColorTrueColor = "truecolor"
)

// Saver holds host and scheduler settings
type Saver struct {
	Backend       string   `toml:"backend"`
	ColorMode     string   `toml:"color_mode"`
	Rotate        Duration `toml:"rotate"`
	Order         string   `toml:"order"`
	NoRepeat      bool     `toml:"no_repeat"`
	AllowFlashing bool     `toml:"allow_flashing"`
	Enabled       []string `toml:"enabled"`
	Start         string   `toml:"start"`
	Seed          uint64   `toml:"seed"`
	MinInterval   Duration `toml:"min_interval"`
	Debug         bool     `toml:"debug"`
}

// Config is the whole settings file
type Config struct {
	Saver   Saver                     `toml:"saver"`
	Audio   audio.Config              `toml:"audio"`
	Effects map[string]EffectSettings `toml:"effects"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Saver: Saver{
			Backend:     BackendANSI,
			ColorMode:   ColorAuto,
			Rotate:      Duration(time.Minute),
			Order:       OrderRandom,
			NoRepeat:    true,
			MinInterval: Duration(time.Millisecond),
		},
		Audio:   audio.DefaultConfig(),
		Effects: map[string]EffectSettings{},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "saver", "saver.toml"), nil
}

// Parse decodes TOML on top of the defaults
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Effects == nil {
		cfg.Effects = map[string]EffectSettings{}
	}
	return cfg, nil
}

// Load reads the file at path. A missing file yields the defaults when optional is set
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides audio settings from SAVER_AUDIO_* variables; invalid values are ignored
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SAVER_AUDIO_ENABLED"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			c.Audio.Enabled = val
		}
	}

	// Volume is 0-100
	if v := getenv("SAVER_AUDIO_VOLUME"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			c.Audio.MasterVolume = float64(val) / 100.0
		}
	}

	if v := getenv("SAVER_AUDIO_SAMPLE_RATE"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.Audio.SampleRate = val
		}
	}

	c.Audio = c.Audio.Normalize()
}

// Validate rejects unknown enumerations
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendANSI, BackendTcell}, c.Saver.Backend) {
		return fmt.Errorf("unknown backend %q", c.Saver.Backend)
	}
	if !slices.Contains([]string{OrderRandom, OrderSequential}, c.Saver.Order) {
		return fmt.Errorf("unknown order %q", c.Saver.Order)
	}
	if !slices.Contains([]string{ColorAuto, Color256, ColorTrueColor}, c.Saver.ColorMode) {
		return fmt.Errorf("unknown color mode %q", c.Saver.ColorMode)
	}
	if c.Saver.Rotate < 0 {
		return fmt.Errorf("rotate must not be negative, got %s", c.Saver.Rotate)
	}
	return nil
}

// Settings returns the table for one effect, never nil-unsafe
func (c *Config) Settings(name string) EffectSettings {
	return c.Effects[name]
}
