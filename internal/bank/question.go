// Package bank loads question banks for the trainer.
//
// A bank is an ordered list of questions, each a display form (usually
// kanji) and its kana reading. Banks can be read from TOML, JSON, YAML,
// spreadsheets, HTML tables and SQLite databases; every loader runs the kana
// through NormalizeKana so that decomposed or half-width input matches the
// romanization table.
package bank

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"kanatype/internal/romaji"
)

// Question is one prompt: what to show and the kana to type.
type Question struct {
	Display string `toml:"display" json:"display" yaml:"display"`
	Kana    string `toml:"kana" json:"kana" yaml:"kana"`
}

// bankFile is the document layout shared by the TOML, JSON and YAML formats.
type bankFile struct {
	Questions []Question `toml:"questions" json:"questions" yaml:"questions"`
}

//go:embed data/sample.toml
var sampleFS embed.FS

// Default returns the built-in sample bank.
func Default() []Question {
	data, err := sampleFS.ReadFile("data/sample.toml")
	if err != nil {
		panic(fmt.Sprintf("bank: embedded sample missing: %v", err))
	}
	qs, err := Decode(FormatTOML, strings.NewReader(string(data)))
	if err != nil {
		panic(fmt.Sprintf("bank: embedded sample invalid: %v", err))
	}
	return qs
}

// Shuffle returns a shuffled copy of qs. A nil rng uses a randomly seeded
// source.
func Shuffle(qs []Question, rng *rand.Rand) []Question {
	out := append([]Question(nil), qs...)
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ValidationError describes one unusable question.
type ValidationError struct {
	Index    int
	Question Question
	Err      error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("bank: question %d (%q): %v", e.Index, e.Question.Display, e.Err)
}

func (e ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every unusable question of a bank.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every question against table. It reports all problems at
// once so a bad bank fails at startup rather than mid-game.
func Validate(table *romaji.Table, qs []Question) error {
	if len(qs) == 0 {
		return ErrEmptyBank
	}
	var errs ValidationErrors
	for i, q := range qs {
		switch {
		case strings.TrimSpace(q.Display) == "":
			errs = append(errs, ValidationError{Index: i, Question: q, Err: ErrMissingDisplay})
		case q.Kana == "":
			errs = append(errs, ValidationError{Index: i, Question: q, Err: ErrMissingKana})
		default:
			if err := table.Check(q.Kana); err != nil {
				errs = append(errs, ValidationError{Index: i, Question: q, Err: err})
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter returns the questions that pass Validate, plus the errors of the
// ones that did not.
func Filter(table *romaji.Table, qs []Question) ([]Question, ValidationErrors) {
	var ok []Question
	var bad ValidationErrors
	for i, q := range qs {
		if err := Validate(table, []Question{q}); err != nil {
			for _, ve := range err.(ValidationErrors) {
				ve.Index = i
				bad = append(bad, ve)
			}
			continue
		}
		ok = append(ok, q)
	}
	return ok, bad
}
