package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError
}

// inputReader turns raw stdin bytes into key events
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Carries partial escape/UTF-8 sequences across reads
	buf []byte
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 64),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 64),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// A read stuck in the backend must not hang shutdown
	select {
	case <-r.doneCh:
	case <-time.After(150 * time.Millisecond):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.send(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Timeout: a lone pending ESC is the Escape key
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.send(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.send(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		consumed := r.parse(r.buf)
		r.buf = r.buf[:copy(r.buf, r.buf[consumed:])]
	}
}

func (r *inputReader) send(ev Event) {
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
	}
}

// parse emits events for complete sequences and returns the bytes consumed
func (r *inputReader) parse(data []byte) int {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b:
			n, ev, ok := parseEscape(data[i:])
			if n == 0 {
				return i
			}
			if ok {
				r.send(ev)
			}
			i += n
		case b == 0x7f:
			r.send(Event{Type: EventKey, Key: KeyBackspace})
			i++
		case b < 0x20:
			r.send(controlKey(b))
			i++
		case b < 0x80:
			r.send(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			rn, size := utf8.DecodeRune(data[i:])
			if rn != utf8.RuneError {
				r.send(Event{Type: EventKey, Key: KeyRune, Rune: rn})
			}
			i += size
		}
	}
	return i
}

// parseEscape decodes one sequence starting at ESC.
// n == 0 means incomplete; ok == false means the sequence is swallowed.
func parseEscape(data []byte) (n int, ev Event, ok bool) {
	if len(data) < 2 {
		return 0, Event{}, false
	}
	switch b := data[1]; {
	case b == 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
	case b == '[' || b == 'O':
		return parseCSI(data)
	case b < 0x20:
		ev := controlKey(b)
		ev.Modifiers |= ModAlt
		return 2, ev, true
	case b < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(b), Modifiers: ModAlt}, true
	}
	return 1, Event{Type: EventKey, Key: KeyEscape}, true
}

// parseCSI decodes ESC [ params final and ESC O final
func parseCSI(data []byte) (int, Event, bool) {
	const maxLen = 16
	end := 2
	for ; end < len(data) && end < maxLen; end++ {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			break
		}
		if b < 0x20 || b > 0x7e {
			// Malformed; drop the introducer only
			return 2, Event{}, false
		}
	}
	if end >= len(data) {
		if len(data) >= maxLen {
			return len(data), Event{}, false
		}
		return 0, Event{}, false
	}
	if end >= maxLen {
		return end, Event{}, false
	}

	params := data[2:end]
	final := data[end]
	n := end + 1

	if final == '~' {
		key, found := csiTilde[string(params)]
		if !found {
			return n, Event{Type: EventKey, Key: KeyOther}, true
		}
		return n, Event{Type: EventKey, Key: key}, true
	}

	key, found := csiFinal[final]
	if !found {
		return n, Event{}, false
	}
	var mod Modifier
	if len(params) >= 3 && params[0] == '1' && params[1] == ';' {
		mod = csiModifier(params[2])
	}
	return n, Event{Type: EventKey, Key: key, Modifiers: mod}, true
}
