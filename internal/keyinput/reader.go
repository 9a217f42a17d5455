package keyinput

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrInterrupted is returned by Reader.Run when the user asks to quit with
// Ctrl-C, Ctrl-D or Escape.
var ErrInterrupted = errors.New("keyinput: interrupted")

const (
	keyCtrlC  = 0x03
	keyCtrlD  = 0x04
	keyEscape = 0x1b
)

// KeyEnter is delivered for Return or Enter so it can serve as a start key.
const KeyEnter = '\r'

// Reader decodes raw terminal input into normalized runes.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader creates a Reader over r, typically a terminal in raw mode.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, 256)}
}

type chunk struct {
	data []byte
	err  error
}

// Run reads keys and sends them on out until ctx is canceled, the input ends
// or the user interrupts. It returns ErrInterrupted for a quit key, nil at
// end of input and ctx.Err() on cancellation. Run does not close out.
//
// A blocked Read cannot be abandoned, so after Run returns the read
// goroutine lingers until the next byte arrives.
func (kr *Reader) Run(ctx context.Context, out chan<- rune) error {
	chunks := make(chan chunk)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			n, err := kr.r.Read(kr.buf)
			data := append([]byte(nil), kr.buf[:n]...)
			select {
			case chunks <- chunk{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var partial []byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-chunks:
			runes, rest, quit := decode(append(partial, c.data...))
			partial = append(partial[:0], rest...)
			for _, r := range runes {
				select {
				case out <- r:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if quit {
				return ErrInterrupted
			}
			if errors.Is(c.err, io.EOF) {
				return nil
			}
			if c.err != nil {
				return fmt.Errorf("read keys: %w", c.err)
			}
		}
	}
}

// decode splits one read into runes. Enter becomes KeyEnter. Escape
// sequences for arrow and function keys and Alt chords are dropped; a lone
// Escape, Ctrl-C or Ctrl-D stops decoding. A rune cut off at the end of data
// is returned in rest for the next read.
func decode(data []byte) (runes []rune, rest []byte, quit bool) {
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == keyCtrlC || b == keyCtrlD:
			return runes, nil, true
		case b == '\r' || b == '\n':
			runes = append(runes, KeyEnter)
			i++
			continue
		case b == keyEscape:
			n := escapeLen(data[i:])
			if n == 0 {
				return runes, nil, true
			}
			i += n
			continue
		}

		if !utf8.FullRune(data[i:]) {
			return runes, data[i:], false
		}
		c, size := utf8.DecodeRune(data[i:])
		i += size
		if c == utf8.RuneError {
			continue
		}
		if r, ok := Normalize(NewKey(c)); ok {
			runes = append(runes, r)
		}
	}
	return runes, nil, false
}

// escapeLen returns the length of the CSI or SS3 sequence or Alt chord at
// the start of data, or 0 when data starts with a lone Escape.
func escapeLen(data []byte) int {
	if len(data) < 2 {
		return 0
	}
	switch c := data[1]; {
	case c == '[' || c == 'O':
	case c >= 0x20 && c < 0x7f:
		return 2
	case c >= 0x80:
		_, size := utf8.DecodeRune(data[1:])
		return 1 + size
	default:
		return 0
	}
	for i := 2; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			return i + 1
		}
	}
	return len(data)
}
