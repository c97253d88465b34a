package scheduler

import (
	"io"
	"log"
	"time"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/status"
)

// Order selects how the next effect is chosen
type Order int

const (
	OrderRandom Order = iota
	OrderSequential
)

// ParseOrder maps a config string to an Order
func ParseOrder(s string) Order {
	if s == config.OrderSequential {
		return OrderSequential
	}
	return OrderRandom
}

// Options configures a Scheduler. Zero values of collaborators are replaced with inert defaults
type Options struct {
	Order         Order
	NoRepeat      bool
	AllowFlashing bool
	// Enabled restricts automatic selection to these names; empty means all
	Enabled []string
	// Rotate is how long an effect runs before the next one; 0 never rotates
	Rotate      time.Duration
	MinInterval time.Duration
	Seed        uint64

	Settings func(name string) config.EffectSettings
	Log      *log.Logger
	Audio    audio.Player
	Time     engine.TimeProvider
	Status   *status.Registry
}

// DefaultOptions returns random order with no immediate repeats
func DefaultOptions() Options {
	return Options{
		Order:       OrderRandom,
		NoRepeat:    true,
		Rotate:      time.Minute,
		MinInterval: engine.DefaultMinInterval,
	}
}

// OptionsFromConfig maps the [saver] table and effect tables onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Order:         ParseOrder(cfg.Saver.Order),
		NoRepeat:      cfg.Saver.NoRepeat,
		AllowFlashing: cfg.Saver.AllowFlashing,
		Enabled:       cfg.Saver.Enabled,
		Rotate:        cfg.Saver.Rotate.Std(),
		MinInterval:   cfg.Saver.MinInterval.Std(),
		Seed:          cfg.Saver.Seed,
		Settings:      cfg.Settings,
	}
}

func (o Options) withDefaults() Options {
	if o.Settings == nil {
		o.Settings = func(string) config.EffectSettings { return nil }
	}
	if o.Log == nil {
		o.Log = log.New(io.Discard, "", 0)
	}
	if o.Audio == nil {
		o.Audio = audio.Nop{}
	}
	if o.Time == nil {
		o.Time = engine.NewMonotonicTimeProvider()
	}
	if o.Status == nil {
		o.Status = status.NewRegistry()
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o
}
