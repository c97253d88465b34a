//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Init when neither stdin nor /dev/tty is a tty
var ErrNotTerminal = errors.New("no controlling terminal")

// fallbackSize is reported when the size ioctl fails or returns zeros
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

type unixBackend struct {
	in      *os.File
	out     *os.File
	tty     *os.File // Opened when stdin is redirected; closed in Fini
	oldTerm *term.State
	readBuf []byte

	resizeStopCh chan struct{}
	resizeDoneCh chan struct{}
}

func newBackend() Backend {
	return &unixBackend{in: os.Stdin, out: os.Stdout, readBuf: make([]byte, 256)}
}

// Init enters raw mode. A screensaver launched from a shell hook may have stdin redirected,
// so keys are then read from the controlling terminal instead.
func (b *unixBackend) Init() error {
	if !term.IsTerminal(int(b.in.Fd())) {
		tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return ErrNotTerminal
		}
		b.tty, b.in = tty, tty
	}

	old, err := term.MakeRaw(int(b.in.Fd()))
	if err != nil {
		b.closeTTY()
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) closeTTY() {
	if b.tty != nil {
		b.tty.Close()
		b.tty = nil
		b.in = os.Stdin
	}
}

func (b *unixBackend) Fini() {
	if b.resizeStopCh != nil {
		close(b.resizeStopCh)
		<-b.resizeDoneCh
		b.resizeStopCh = nil
	}
	if b.oldTerm != nil {
		term.Restore(int(b.in.Fd()), b.oldTerm)
		b.oldTerm = nil
	}
	b.closeTTY()
}

func (b *unixBackend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(int(b.out.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackWidth, fallbackHeight
	}
	return int(ws.Col), int(ws.Row)
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// Read waits up to 100ms for input so stopCh is honoured promptly.
// The returned slice is only valid until the next Read.
func (b *unixBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	fd := int(b.in.Fd())
	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, 100)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return nil, err
		case n == 0:
			return nil, nil
		}

		rn, err := unix.Read(fd, b.readBuf)
		switch {
		case err == unix.EINTR || err == unix.EAGAIN:
			continue
		case err != nil:
			return nil, err
		case rn == 0:
			return nil, nil
		}
		return b.readBuf[:rn:rn], nil
	}
}

// SetResizeHandler watches SIGWINCH. Signals that leave the size unchanged are not reported.
func (b *unixBackend) SetResizeHandler(handler func(width, height int)) {
	b.resizeStopCh = make(chan struct{})
	b.resizeDoneCh = make(chan struct{})

	go func() {
		defer close(b.resizeDoneCh)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		lastW, lastH := b.Size()
		for {
			select {
			case <-b.resizeStopCh:
				return
			case <-sigCh:
				w, h := b.Size()
				if w == lastW && h == lastH {
					continue
				}
				lastW, lastH = w, h
				handler(w, h)
			}
		}
	}()
}
