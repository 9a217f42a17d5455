// Package keyinput turns platform key events into the single lowercase runes
// the matcher consumes.
//
// Front ends report keys in different shapes: the terminal delivers raw
// bytes, the GUI delivers committed text and named key events. Everything
// funnels through Normalize, which keeps exactly one printable character and
// drops named keys and modifier chords.
package keyinput

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Key represents a key event from a front end.
type Key struct {
	// Code is the platform-specific key code, if known.
	Code uint16

	// Char is the character the key produces. Zero for non-character keys.
	Char rune

	// Name names a non-character key ("Escape", "Enter", "Shift").
	// Empty for character keys.
	Name string

	// Modifiers indicates which modifier keys are held.
	Modifiers Modifiers
}

// NewKey creates a character Key.
func NewKey(char rune) Key {
	return Key{Char: char}
}

// NewNamedKey creates a Key for a non-character key.
func NewNamedKey(name string, mods Modifiers) Key {
	return Key{Name: name, Modifiers: mods}
}

// Modifiers represents modifier key state.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta // Command on macOS, Windows key on Windows
)

// chord is the set of modifiers that turn a key into a shortcut.
const chord = ModControl | ModAlt | ModMeta

// String returns a "Ctrl+Shift" style name of the held modifiers.
func (m Modifiers) String() string {
	var parts []string
	if m&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModMeta != 0 {
		parts = append(parts, "Meta")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Normalize returns the single lowercase rune k types. ok is false for named
// keys, keys without a printable character and chords with Control, Alt or
// Meta. Shift alone is allowed since it only selects case. Full-width Latin
// input from an IME is folded to ASCII.
func Normalize(k Key) (r rune, ok bool) {
	if k.Name != "" || k.Char == 0 || k.Modifiers&chord != 0 {
		return 0, false
	}
	r = k.Char
	if p := width.LookupRune(r); p.Kind() == width.EastAsianFullwidth {
		if n := p.Narrow(); n != 0 {
			r = n
		}
	}
	if !unicode.IsPrint(r) {
		return 0, false
	}
	return unicode.ToLower(r), true
}

// FromText splits committed text into normalized runes, dropping anything
// Normalize rejects.
func FromText(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if r, ok := Normalize(NewKey(c)); ok {
			out = append(out, r)
		}
	}
	return out
}
