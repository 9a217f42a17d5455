package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiClear = "\x1b[H\x1b[2J"
)

// Text renders projections as full-screen ANSI frames for a terminal in raw
// mode. Lines end in CRLF since raw mode disables output translation.
type Text struct {
	w     io.Writer
	color bool
}

// NewText creates a Text projector writing to w. With color false only
// plain text is written, without styling or screen clearing.
func NewText(w io.Writer, color bool) *Text {
	return &Text{w: w, color: color}
}

func (t *Text) Render(p Projection) error {
	bw := bufio.NewWriter(t.w)
	if t.color {
		bw.WriteString(ansiClear)
	}

	switch p.Phase {
	case PhasePlaying:
		t.line(bw, t.style(ansiDim, fmt.Sprintf("[%d/%d]", p.Progress(), p.Total)))
		t.line(bw, "")
		t.line(bw, t.style(ansiBold, p.Display))
		t.line(bw, t.style(ansiGreen, p.TypedKana)+p.UntypedKana)

		hint := t.style(ansiDim, p.Hint)
		if p.Miss {
			hint = t.style(ansiRed, p.Hint)
		}
		t.line(bw, t.style(ansiGreen, p.Typed)+hint)
		if p.Miss && !t.color {
			t.line(bw, "miss")
		}
		if p.Miss && t.color {
			bw.WriteString("\a")
		}
	default:
		t.line(bw, t.style(ansiBold, p.Title))
		t.line(bw, "")
		t.line(bw, p.Prompt)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

func (t *Text) style(code, s string) string {
	if !t.color || s == "" {
		return s
	}
	return code + s + ansiReset
}

func (t *Text) line(w *bufio.Writer, s string) {
	w.WriteString("  ")
	w.WriteString(strings.TrimRight(s, " "))
	w.WriteString("\r\n")
}
