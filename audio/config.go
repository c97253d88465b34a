package audio

// Config controls tone playback
type Config struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"volume"`
	SampleRate   int     `toml:"sample_rate"`
}

// DefaultConfig returns audio disabled at half volume
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   44100,
	}
}

// Normalize clamps volume to [0,1] and restores a valid sample rate
func (c Config) Normalize() Config {
	if c.MasterVolume < 0 {
		c.MasterVolume = 0
	}
	if c.MasterVolume > 1 {
		c.MasterVolume = 1
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultConfig().SampleRate
	}
	return c
}
