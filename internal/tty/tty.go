// Package tty puts the controlling terminal into raw mode for the trainer
// and restores it on the way out.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by Open when the input is not a terminal.
var ErrNotTerminal = errors.New("tty: input is not a terminal")

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	resetAttrs = "\x1b[0m"
)

// Terminal owns the raw mode state of one terminal.
type Terminal struct {
	mu    sync.Mutex
	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
}

// Open wraps in and out. It fails with ErrNotTerminal when in is not a
// terminal, so callers can fall back to line input.
func Open(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return &Terminal{in: in, out: out, fd: fd}, nil
}

// Input returns the terminal's input file.
func (t *Terminal) Input() *os.File {
	return t.in
}

// MakeRaw switches to raw mode, hides the cursor and discards pending
// typeahead. Calling it twice is a no-op.
func (t *Terminal) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.state = state
	flushInput(t.fd)
	io.WriteString(t.out, hideCursor)
	return nil
}

// Restore leaves raw mode and shows the cursor again. It is safe to call
// more than once and from a crash handler.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == nil {
		return nil
	}
	io.WriteString(t.out, resetAttrs+showCursor+"\r\n")
	err := term.Restore(t.fd, t.state)
	t.state = nil
	if err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// Raw reports whether the terminal is in raw mode.
func (t *Terminal) Raw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}

// Size returns the terminal width and height in cells.
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(t.fd)
}
