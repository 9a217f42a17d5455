// Package romaji holds the kana to romaji lookup tables used by the matcher.
//
// A Table has two maps: monographs (one kana rune to its accepted
// romanizations) and digraphs (two kana runes to their combined
// romanizations). Every list is ordered; the first entry is the preferred
// spelling and wins ties in the matcher. Katakana is folded to hiragana
// before lookup, so a single hiragana table serves both scripts.
package romaji

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Default geminate (sokuon) and nasal (hatsuon) markers.
const (
	GeminateMarker = 'っ'
	NasalMarker    = 'ん'
)

// ErrUnknownKana is returned when a kana string contains a rune the table
// cannot romanize.
var ErrUnknownKana = errors.New("romaji: unknown kana")

// UnknownKanaError reports the first unromanizable rune of a kana string.
type UnknownKanaError struct {
	Kana  string
	Index int // rune index into Kana
	Rune  rune
}

func (e *UnknownKanaError) Error() string {
	return fmt.Sprintf("romaji: unknown kana %q at index %d of %q", e.Rune, e.Index, e.Kana)
}

func (e *UnknownKanaError) Unwrap() error { return ErrUnknownKana }

// Table is an immutable romanization table. Build one with Default, Load or
// NewTable; a Table is safe for concurrent readers.
type Table struct {
	monographs map[rune][]string
	digraphs   map[[2]rune][]string
	geminate   rune
	nasal      rune
}

// NewTable builds a table from kana-keyed maps. Keys of monographs must be a
// single rune and keys of digraphs exactly two runes; Validate reports the
// violations.
func NewTable(monographs, digraphs map[string][]string, geminate, nasal rune) (*Table, error) {
	t := &Table{
		monographs: make(map[rune][]string, len(monographs)),
		digraphs:   make(map[[2]rune][]string, len(digraphs)),
		geminate:   geminate,
		nasal:      nasal,
	}

	var errs ValidationErrors
	for kana, romas := range monographs {
		runes := []rune(kana)
		if len(runes) != 1 {
			errs = append(errs, ValidationError{Kana: kana, Message: "monograph key must be one rune"})
			continue
		}
		t.monographs[Fold(runes[0])] = cloneList(romas)
	}
	for kana, romas := range digraphs {
		runes := []rune(kana)
		if len(runes) != 2 {
			errs = append(errs, ValidationError{Kana: kana, Message: "digraph key must be two runes"})
			continue
		}
		t.digraphs[[2]rune{Fold(runes[0]), Fold(runes[1])}] = cloneList(romas)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Monograph returns the romanizations of a single kana rune, or nil.
func (t *Table) Monograph(r rune) []string {
	return t.monographs[Fold(r)]
}

// Digraph returns the romanizations of the two-rune unit a+b, or nil.
func (t *Table) Digraph(a, b rune) []string {
	return t.digraphs[[2]rune{Fold(a), Fold(b)}]
}

// IsGeminate reports whether r is the geminate marker (っ or ッ).
func (t *Table) IsGeminate(r rune) bool {
	return t.geminate != 0 && Fold(r) == t.geminate
}

// IsNasal reports whether r is the nasal marker (ん or ン).
func (t *Table) IsNasal(r rune) bool {
	return t.nasal != 0 && Fold(r) == t.nasal
}

// Unit returns the romanizations of the unit starting at kana[0]: the
// digraph spellings (if any) followed by the monograph spellings of kana[0].
// The returned slice is freshly allocated.
func (t *Table) Unit(kana []rune) []string {
	if len(kana) == 0 {
		return nil
	}
	var out []string
	if len(kana) >= 2 {
		out = append(out, t.Digraph(kana[0], kana[1])...)
	}
	return append(out, t.Monograph(kana[0])...)
}

// Unknown returns the rune index of the first rune of kana with no monograph
// entry. ok is false when every rune is known.
func (t *Table) Unknown(kana string) (index int, ok bool) {
	i := 0
	for _, r := range kana {
		if len(t.Monograph(r)) == 0 {
			return i, true
		}
		i++
	}
	return -1, false
}

// Check returns an *UnknownKanaError for the first rune of kana that has no
// monograph entry. Every digraph rune is also a monograph (see Validate), so
// a kana string that passes Check can always be typed to completion.
func (t *Table) Check(kana string) error {
	i, ok := t.Unknown(kana)
	if !ok {
		return nil
	}
	return &UnknownKanaError{Kana: kana, Index: i, Rune: []rune(kana)[i]}
}

// Len returns the number of monograph and digraph entries.
func (t *Table) Len() (monographs, digraphs int) {
	return len(t.monographs), len(t.digraphs)
}

// Entries returns kana-keyed copies of both maps, suitable for encoding.
func (t *Table) Entries() (monographs, digraphs map[string][]string) {
	monographs = make(map[string][]string, len(t.monographs))
	for r, romas := range t.monographs {
		monographs[string(r)] = cloneList(romas)
	}
	digraphs = make(map[string][]string, len(t.digraphs))
	for k, romas := range t.digraphs {
		digraphs[string(k[:])] = cloneList(romas)
	}
	return monographs, digraphs
}

// Fold maps a katakana rune to its hiragana counterpart. Other runes are
// returned unchanged.
func Fold(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	return r
}

// FoldString applies Fold to every rune of s.
func FoldString(s string) string {
	return strings.Map(Fold, s)
}

// ValidationError describes one bad table entry.
type ValidationError struct {
	Kana    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("romaji: %q: %s", e.Kana, e.Message)
}

// ValidationErrors is a collection of table validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the table invariants: every list is nonempty and holds
// nonempty spellings, every digraph rune is itself a monograph, and the
// geminate and nasal markers (when set) are monographs.
func (t *Table) Validate() error {
	var errs ValidationErrors

	for r, romas := range t.monographs {
		if msg := checkList(romas); msg != "" {
			errs = append(errs, ValidationError{Kana: string(r), Message: msg})
		}
	}
	for k, romas := range t.digraphs {
		kana := string(k[:])
		if msg := checkList(romas); msg != "" {
			errs = append(errs, ValidationError{Kana: kana, Message: msg})
		}
		for _, r := range k {
			if _, ok := t.monographs[r]; !ok {
				errs = append(errs, ValidationError{
					Kana:    kana,
					Message: fmt.Sprintf("digraph rune %q has no monograph entry", r),
				})
			}
		}
	}
	for _, m := range []rune{t.geminate, t.nasal} {
		if m == 0 {
			continue
		}
		if _, ok := t.monographs[m]; !ok {
			errs = append(errs, ValidationError{Kana: string(m), Message: "marker has no monograph entry"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkList(romas []string) string {
	if len(romas) == 0 {
		return "no romanizations"
	}
	for _, s := range romas {
		if s == "" {
			return "empty romanization"
		}
		if !utf8.ValidString(s) {
			return "romanization is not valid UTF-8"
		}
		if strings.ToLower(s) != s {
			return fmt.Sprintf("romanization %q is not lowercase", s)
		}
	}
	return ""
}

func cloneList(romas []string) []string {
	return append([]string(nil), romas...)
}
