package main

import (
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/scheduler"
	"github.com/lixenwraith/saver/status"
)

type benchOptions struct {
	ticks  int
	width  int
	height int
	names  []string
}

// parseSize reads "WxH"
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w < 1 {
		return 0, 0, fmt.Errorf("size %q: invalid width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 1 {
		return 0, 0, fmt.Errorf("size %q: invalid height", s)
	}
	return w, h, nil
}

// benchSettings shortens every effect's sleeps so the report measures drawing, not waiting
func benchSettings(cfg *config.Config) func(string) config.EffectSettings {
	return func(name string) config.EffectSettings {
		s := maps.Clone(cfg.Settings(name))
		if s == nil {
			s = config.EffectSettings{}
		}
		s["delay"] = int64(1)
		s["hold"] = int64(1)
		return s
	}
}

// execBench runs each effect headless for a fixed number of ticks
func execBench(out io.Writer, cfg config.Config, opts benchOptions) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	if err := reg.Init(); err != nil {
		return err
	}

	names := opts.names
	if len(names) == 0 {
		names = reg.Names()
	}

	fmt.Fprintf(out, "%-18s %8s %10s %10s %8s\n", "effect", "ticks", "ms/tick", "writes", "faults")
	for _, name := range names {
		mem := render.NewMemory(opts.width, opts.height)
		schedOpts := scheduler.OptionsFromConfig(&cfg)
		schedOpts.Settings = benchSettings(&cfg)
		schedOpts.Status = status.NewRegistry()
		sched := scheduler.New(reg, mem, nil, schedOpts)

		if err := sched.ActivateByName(name); err != nil {
			return err
		}

		start := time.Now()
		ticks := 0
		for ; ticks < opts.ticks; ticks++ {
			if err := sched.Step(); err != nil {
				break
			}
		}
		elapsed := time.Since(start)
		sched.Deactivate()

		perTick := 0.0
		if ticks > 0 {
			perTick = float64(elapsed) / float64(time.Millisecond) / float64(ticks)
		}
		faults := schedOpts.Status.Ints.Get("faults").Load()
		fmt.Fprintf(out, "%-18s %8d %10.2f %10d %8d\n", name, ticks, perTick, mem.Writes(), faults)
	}
	return nil
}
