// Package terminal provides direct ANSI terminal control for screensaver output.
//
// Features:
//   - True color (24-bit) and 256-color palette output
//   - Double-buffered output with cell-level diffing
//   - Raw stdin key parsing, enough to stop or skip a running effect
//   - SIGWINCH resize notification through a callback
//   - Clean terminal restoration on exit/panic
//
// Sequences are emitted directly without terminfo.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
