package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments, no allocation on the render path
var (
	csi      = []byte("\x1b[")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0  = []byte("\x1b[0m")

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")
	csiCursorFwd1 = []byte("\x1b[C")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// ?7l keeps the cursor at the right edge so a bottom-right write does not scroll
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	sgrFg256 = []byte("38;5;")
	sgrBg256 = []byte("48;5;")
	sgrFgRGB = []byte("38;2;")
	sgrBgRGB = []byte("48;2;")
)

// seqWriter emits ANSI sequences into a buffered writer
type seqWriter struct {
	*bufio.Writer
}

// int writes a non-negative integer without allocation.
// Terminal values are 0-255 for colors and rarely above 999 for coordinates.
func (w seqWriter) int(n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// cursorTo writes an absolute cursor position (0-indexed input)
func (w seqWriter) cursorTo(x, y int) {
	w.Write(csi)
	w.int(y + 1)
	w.WriteByte(';')
	w.int(x + 1)
	w.WriteByte('H')
}

// cursorForward moves the cursor right by n columns without overwriting cells
func (w seqWriter) cursorForward(n int) {
	switch {
	case n <= 0:
	case n == 1:
		w.Write(csiCursorFwd1)
	default:
		w.Write(csi)
		w.int(n)
		w.WriteByte('C')
	}
}

// color writes the SGR parameters for one color slot (no CSI, no 'm')
func (w seqWriter) color(c Color, bg bool, mode ColorMode) {
	switch {
	case c.Indexed || mode != ColorModeTrueColor:
		if bg {
			w.Write(sgrBg256)
		} else {
			w.Write(sgrFg256)
		}
		w.int(int(c.Index()))
	default:
		if bg {
			w.Write(sgrBgRGB)
		} else {
			w.Write(sgrFgRGB)
		}
		w.int(int(c.R))
		w.WriteByte(';')
		w.int(int(c.G))
		w.WriteByte(';')
		w.int(int(c.B))
	}
}
