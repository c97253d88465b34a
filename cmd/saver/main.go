package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/core"
	"github.com/lixenwraith/saver/effect"
	"github.com/lixenwraith/saver/effects"
	"github.com/lixenwraith/saver/engine"
	"github.com/lixenwraith/saver/registry"
	"github.com/lixenwraith/saver/scheduler"
)

func main() {
	// Terminal is restored before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return buildCLI(os.Stdout).ParseAndRun(ctx, args)
}

// flags holds command line overrides; only flags actually set are applied over the config file
type flags struct {
	configPath    string
	backend       string
	colorMode     string
	order         string
	start         string
	enabled       string
	rotate        time.Duration
	seed          uint64
	allowFlashing bool
	audio         bool
	debug         bool
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Config file (default: user config dir saver/saver.toml)")
	fs.StringVar(&f.backend, "backend", config.BackendANSI, "Output backend: ansi, tcell")
	fs.StringVar(&f.colorMode, "color", config.ColorAuto, "Color mode: auto, truecolor, 256")
	fs.StringVar(&f.order, "order", config.OrderRandom, "Effect order: random, sequential")
	fs.StringVar(&f.start, "effect", "", "Effect to start with")
	fs.StringVar(&f.enabled, "enable", "", "Comma separated effects to rotate through")
	fs.DurationVar(&f.rotate, "rotate", time.Minute, "Time per effect, 0 to never rotate")
	fs.Uint64Var(&f.seed, "seed", 0, "Random seed, 0 for time based")
	fs.BoolVar(&f.allowFlashing, "allow-flashing", false, "Include effects with flashing imagery")
	fs.BoolVar(&f.audio, "audio", false, "Play effect sounds")
	fs.BoolVar(&f.debug, "debug", false, "Write logs to logs/saver.log")
}

// load reads the config file and applies env and explicitly set flags on top
func (f *flags) load(fs *flag.FlagSet) (config.Config, error) {
	path, optional := f.configPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path, optional = p, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(os.Getenv)
	f.apply(&cfg, fs)
	return cfg, cfg.Validate()
}

func (f *flags) apply(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Saver.Backend = f.backend
		case "color":
			cfg.Saver.ColorMode = f.colorMode
		case "order":
			cfg.Saver.Order = f.order
		case "effect":
			cfg.Saver.Start = f.start
		case "enable":
			cfg.Saver.Enabled = splitList(f.enabled)
		case "rotate":
			cfg.Saver.Rotate = config.Duration(f.rotate)
		case "seed":
			cfg.Saver.Seed = f.seed
		case "allow-flashing":
			cfg.Saver.AllowFlashing = f.allowFlashing
		case "audio":
			cfg.Audio.Enabled = f.audio
		case "debug":
			cfg.Saver.Debug = f.debug
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func buildCLI(out io.Writer) *ffcli.Command {
	var root flags
	rootFlagSet := flag.NewFlagSet("saver", flag.ContinueOnError)
	root.register(rootFlagSet)
	envOpts := []ff.Option{ff.WithEnvVarPrefix("SAVER")}

	var list flags
	listFlagSet := flag.NewFlagSet("saver list", flag.ContinueOnError)
	list.register(listFlagSet)
	listCmd := &ffcli.Command{
		Name:       "list",
		ShortUsage: "saver list [flags]",
		ShortHelp:  "List registered effects",
		FlagSet:    listFlagSet,
		Options:    envOpts,
		Exec: func(_ context.Context, _ []string) error {
			cfg, err := list.load(listFlagSet)
			if err != nil {
				return err
			}
			return execList(out, cfg)
		},
	}

	var bench flags
	benchFlagSet := flag.NewFlagSet("saver bench", flag.ContinueOnError)
	bench.register(benchFlagSet)
	benchTicks := benchFlagSet.Int("ticks", 50, "Ticks per effect")
	benchSize := benchFlagSet.String("size", "80x24", "Headless surface size WxH")
	benchCmd := &ffcli.Command{
		Name:       "bench",
		ShortUsage: "saver bench [flags] [effect...]",
		ShortHelp:  "Run effects headless and report frame cost",
		FlagSet:    benchFlagSet,
		Options:    envOpts,
		Exec: func(_ context.Context, args []string) error {
			cfg, err := bench.load(benchFlagSet)
			if err != nil {
				return err
			}
			w, h, err := parseSize(*benchSize)
			if err != nil {
				return err
			}
			return execBench(out, cfg, benchOptions{ticks: *benchTicks, width: w, height: h, names: args})
		},
	}

	var runFlags flags
	runFlagSet := flag.NewFlagSet("saver run", flag.ContinueOnError)
	runFlags.register(runFlagSet)
	runCmd := &ffcli.Command{
		Name:       "run",
		ShortUsage: "saver run [flags]",
		ShortHelp:  "Run the screensaver until a key is pressed",
		FlagSet:    runFlagSet,
		Options:    envOpts,
		Exec: func(ctx context.Context, _ []string) error {
			cfg, err := runFlags.load(runFlagSet)
			if err != nil {
				return err
			}
			return execRun(ctx, cfg)
		},
	}

	return &ffcli.Command{
		Name:        "saver",
		ShortUsage:  "saver [flags] <subcommand>",
		FlagSet:     rootFlagSet,
		Options:     envOpts,
		Subcommands: []*ffcli.Command{runCmd, listCmd, benchCmd},
		Exec: func(ctx context.Context, _ []string) error {
			cfg, err := root.load(rootFlagSet)
			if err != nil {
				return err
			}
			return execRun(ctx, cfg)
		},
	}
}

// newRegistry builds the registry with every built-in effect
func newRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := effects.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// activateStart shows the requested first effect. Only an unknown name is fatal;
// a faulting start effect is logged and the run loop picks the next one
func activateStart(sched *scheduler.Scheduler, name string) error {
	if name == "" {
		return nil
	}
	if err := sched.Init(); err != nil {
		return err
	}
	err := sched.ActivateByName(name)
	switch {
	case err == nil:
	case errors.Is(err, registry.ErrUnknownEffect):
		return err
	default:
		log.Printf("start effect %s failed, rotating instead: %v", name, err)
	}
	return nil
}

func execList(out io.Writer, cfg config.Config) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	sched := scheduler.New(reg, nil, nil, scheduler.OptionsFromConfig(&cfg))
	if err := sched.Init(); err != nil {
		return err
	}

	candidates := make(map[string]bool)
	for _, name := range sched.Candidates() {
		candidates[name] = true
	}
	for _, name := range reg.Names() {
		r, _ := reg.Lookup(name)
		var notes []string
		if r.Flags.Has(effect.FlagFlashing) {
			notes = append(notes, "flashing")
		}
		if r.Flags.Has(effect.FlagAudio) {
			notes = append(notes, "audio")
		}
		if !candidates[name] {
			notes = append(notes, "disabled")
		}
		if len(notes) > 0 {
			fmt.Fprintf(out, "%-18s %s\n", name, strings.Join(notes, ","))
		} else {
			fmt.Fprintln(out, name)
		}
	}
	return nil
}

func execRun(ctx context.Context, cfg config.Config) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("saver needs an interactive terminal on stdout")
	}

	if logFile := setupLogging(cfg.Saver.Debug); logFile != nil {
		defer logFile.Close()
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var player audio.Player = audio.Nop{}
	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio)
		if err := sm.Initialize(); err != nil {
			log.Printf("audio unavailable: %v", err)
		} else {
			defer sm.Close()
			player = sm
		}
	}

	h, err := openHost(cfg.Saver)
	if err != nil {
		return err
	}
	defer h.Close()
	core.SetCrashCleanup(h.Close)
	defer core.SetCrashCleanup(nil)

	gate := &engine.ResizeGate{}
	h.OnResize(gate.Signal)

	opts := scheduler.OptionsFromConfig(&cfg)
	opts.Log = log.Default()
	opts.Audio = player
	sched := scheduler.New(reg, h.Surface(), gate, opts)

	if err := activateStart(sched, cfg.Saver.Start); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guarded(func() error {
		defer h.Interrupt()
		return sched.RunUntilStopRequested(gctx)
	}))
	g.Go(guarded(func() error {
		for {
			switch h.PollEvent() {
			case eventSkip:
				sched.RequestSkip()
			case eventKey, eventClosed:
				sched.RequestStop()
				return nil
			}
		}
	}))

	err = g.Wait()
	log.Printf("saver stopped: %s", sched.Status().Format())
	return err
}

// guarded recovers panics in errgroup goroutines through the crash handler
func guarded(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		return fn()
	}
}
