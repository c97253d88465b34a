package terminal

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyCtrlC
	KeyCtrlD
	KeyCtrlL
	KeyCtrlZ

	// KeyOther is any recognised key without a dedicated constant
	KeyOther
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// csiFinal maps a CSI final byte to a key (ESC [ ... X)
var csiFinal = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// csiTilde maps the numeric parameter of ESC [ N ~ sequences
var csiTilde = map[string]Key{
	"1": KeyHome,
	"3": KeyDelete,
	"4": KeyEnd,
	"5": KeyPageUp,
	"6": KeyPageDown,
	"7": KeyHome,
	"8": KeyEnd,
}

// csiModifier decodes the xterm modifier parameter (ESC [ 1 ; mod X)
func csiModifier(param byte) Modifier {
	if param < '2' || param > '8' {
		return ModNone
	}
	bits := param - '1'
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// controlKey maps a C0 control byte to a key event
func controlKey(b byte) Event {
	switch b {
	case 0x03:
		return Event{Type: EventKey, Key: KeyCtrlC, Modifiers: ModCtrl}
	case 0x04:
		return Event{Type: EventKey, Key: KeyCtrlD, Modifiers: ModCtrl}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x0c:
		return Event{Type: EventKey, Key: KeyCtrlL, Modifiers: ModCtrl}
	case 0x1a:
		return Event{Type: EventKey, Key: KeyCtrlZ, Modifiers: ModCtrl}
	default:
		return Event{Type: EventKey, Key: KeyOther, Rune: rune(b), Modifiers: ModCtrl}
	}
}
