package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/terminal"
)

type eventKind int

const (
	eventNone eventKind = iota
	eventKey
	eventSkip
	eventResize
	eventClosed
)

// host owns the physical terminal: a surface for the scheduler and an input source for the poller
type host interface {
	Surface() render.Surface
	// PollEvent blocks for the next input event
	PollEvent() eventKind
	// Interrupt unblocks PollEvent with eventClosed
	Interrupt()
	// OnResize registers a flag-only callback for size changes
	OnResize(fn func())
	Close()
}

func openHost(cfg config.Saver) (host, error) {
	mode := terminal.ParseColorMode(cfg.ColorMode)
	switch cfg.Backend {
	case config.BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("creating screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, fmt.Errorf("initializing screen: %w", err)
		}
		return &tcellHost{screen: screen, surface: render.NewScreen(screen, mode)}, nil
	default:
		term := terminal.New(mode)
		if err := term.Init(); err != nil {
			return nil, fmt.Errorf("initializing terminal: %w", err)
		}
		return &ansiHost{term: term, surface: render.NewBuffer(term)}, nil
	}
}

// ansiHost drives the raw ANSI terminal package
type ansiHost struct {
	term    terminal.Terminal
	surface *render.Buffer
}

func (h *ansiHost) Surface() render.Surface { return h.surface }

func (h *ansiHost) PollEvent() eventKind {
	return translateTerminal(h.term.PollEvent())
}

func (h *ansiHost) Interrupt() {
	h.term.PostEvent(terminal.Event{Type: terminal.EventClosed})
}

func (h *ansiHost) OnResize(fn func()) {
	h.term.OnResize(func(int, int) { fn() })
}

func (h *ansiHost) Close() {
	h.term.Fini()
}

// translateTerminal maps a key to skip when it is 'n' or Right, any other key to stop
func translateTerminal(ev terminal.Event) eventKind {
	switch ev.Type {
	case terminal.EventKey:
		if ev.Key == terminal.KeyRight || (ev.Key == terminal.KeyRune && ev.Rune == 'n') {
			return eventSkip
		}
		return eventKey
	case terminal.EventResize:
		return eventResize
	case terminal.EventClosed, terminal.EventError:
		return eventClosed
	}
	return eventNone
}

// tcellHost drives a tcell screen
type tcellHost struct {
	screen   tcell.Screen
	surface  *render.Screen
	onResize func()
}

func (h *tcellHost) Surface() render.Surface { return h.surface }

func (h *tcellHost) PollEvent() eventKind {
	kind := translateTcell(h.screen.PollEvent())
	if kind == eventResize && h.onResize != nil {
		h.onResize()
	}
	return kind
}

func (h *tcellHost) Interrupt() {
	h.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// OnResize is called from PollEvent since tcell reports resizes as events only
func (h *tcellHost) OnResize(fn func()) {
	h.onResize = fn
}

func (h *tcellHost) Close() {
	h.screen.Fini()
}

func translateTcell(ev tcell.Event) eventKind {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyRight || (ev.Key() == tcell.KeyRune && ev.Rune() == 'n') {
			return eventSkip
		}
		return eventKey
	case *tcell.EventResize:
		return eventResize
	case *tcell.EventInterrupt, nil:
		return eventClosed
	}
	return eventNone
}
