package terminal

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Attrs Attr
}

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions, queried live
	Size() (width, height int)

	// OnResize registers a callback run on the signal goroutine after each resize.
	// The callback must only set flags; it must not draw.
	OnResize(fn func(width, height int))

	// ColorMode returns the color capability output is encoded for
	ColorMode() ColorMode

	// Flush diffs a row-major cell buffer against the screen and writes the changes.
	// Returns false when the frame was dropped because width/height no longer match the terminal.
	Flush(cells []Cell, width, height int) bool

	// Clear fills screen with specified background color
	Clear(bg Color)

	// SetCursorVisible shows/hides cursor
	SetCursorVisible(visible bool)

	// Sync clears the screen and forces the next flush to redraw every cell
	Sync()

	// PollEvent blocks until next input event
	PollEvent() Event

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// ResizeEvent represents a terminal resize
type ResizeEvent struct {
	Width  int
	Height int
}

// termImpl implements Terminal on top of a Backend
type termImpl struct {
	backend Backend

	output      *outputBuffer
	input       *inputReader
	resizeCh    chan ResizeEvent
	syntheticCh chan Event
	onResize    atomic.Pointer[func(int, int)]

	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal on stdin/stdout. Without a mode argument the mode is detected from the environment.
func New(colorMode ...ColorMode) Terminal {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return NewWithBackend(newBackend(), c)
}

// NewWithBackend creates a Terminal on an explicit backend
func NewWithBackend(b Backend, colorMode ColorMode) Terminal {
	return &termImpl{
		backend:     b,
		output:      newOutputBuffer(backendWriter{b}, colorMode),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan ResizeEvent, 1),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)
	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		if fn := t.onResize.Load(); fn != nil {
			(*fn)(w, h)
		}
		// Keep only the latest size pending
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	t.backend.Write(csiAltScreenEnter)
	t.backend.Write(csiCursorHide)
	t.backend.Write(csiAutoWrapOff)
	t.cursorVisible.Store(false)

	t.output.clear(Black)
	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	if t.input != nil {
		t.input.stop()
	}

	t.backend.Write(csiCursorShow)
	t.backend.Write(csiAltScreenExit)
	// Re-enable wrap after leaving alt screen so the main buffer gets it
	t.backend.Write(csiAutoWrapOn)
	t.backend.Write(csiSGR0)
	t.backend.Fini()

	t.finalized = true
}

func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

func (t *termImpl) OnResize(fn func(width, height int)) {
	if fn == nil {
		t.onResize.Store(nil)
		return
	}
	t.onResize.Store(&fn)
}

func (t *termImpl) ColorMode() ColorMode {
	return t.output.colorMode
}

// Flush holds the lock for the whole write so Clear/Sync cannot interleave
func (t *termImpl) Flush(cells []Cell, width, height int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return false
	}

	// Frame was composed for a stale geometry, drop it
	if w, h := t.backend.Size(); w != width || h != height {
		return false
	}

	t.output.flush(cells, width, height)
	return true
}

func (t *termImpl) Clear(bg Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.output.clear(bg)
}

func (t *termImpl) SetCursorVisible(visible bool) {
	if t.cursorVisible.Swap(visible) == visible {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	if visible {
		t.output.w.Write(csiCursorShow)
	} else {
		t.output.w.Write(csiCursorHide)
	}
	t.output.w.Flush()
}

func (t *termImpl) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Diffing assumes the physical screen matches the front buffer, so wipe both
	w, h := t.backend.Size()
	if w != t.output.width || h != t.output.height {
		t.output.resize(w, h)
	}
	t.output.clear(Black)
	t.output.forceFullRedraw()
}

func (t *termImpl) PollEvent() Event {
	select {
	case ev := <-t.syntheticCh:
		return ev
	default:
	}

	var inputCh <-chan Event
	if t.input != nil {
		inputCh = t.input.events()
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-inputCh:
		return ev
	case re := <-t.resizeCh:
		return Event{Type: EventResize, Width: re.Width, Height: re.Height}
	}
}

func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
	}
}

// backendWriter adapts Backend.Write to io.Writer for the buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EmergencyReset attempts to restore terminal to sane state.
// Call this from panic recovery if Fini() cannot be called normally.
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
