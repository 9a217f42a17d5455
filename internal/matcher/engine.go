package matcher

import (
	"errors"
	"fmt"
	"strings"

	"kanatype/internal/romaji"
)

// ErrEmptyTarget is returned by Reset for an empty kana string.
var ErrEmptyTarget = errors.New("matcher: empty target")

// Outcome is the result class of one keystroke.
type Outcome uint8

const (
	// OutcomeMiss means no candidate accepted the key. Nothing changed.
	OutcomeMiss Outcome = iota
	// OutcomeAccepted means the key was consumed and kana remains.
	OutcomeAccepted
	// OutcomeCompleted means the key finished the last kana unit.
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result describes what a keystroke did.
type Result struct {
	Outcome Outcome
	// Consumed is the number of kana runes removed by this key (0, 1 or 2).
	Consumed int
}

// Miss reports whether the key was rejected.
func (r Result) Miss() bool { return r.Outcome == OutcomeMiss }

// NasalPolicy selects how ん may be typed.
type NasalPolicy uint8

const (
	// NasalLenient accepts a single "n" for ん when the next unit does not
	// start with a vowel, n or y, and absorbs one trailing "n" or "'" so the
	// table spellings nn and n' still type cleanly.
	NasalLenient NasalPolicy = iota
	// NasalStrict only accepts the table spellings (nn, n', xn).
	NasalStrict
)

// ParseNasalPolicy parses "lenient" or "strict".
func ParseNasalPolicy(s string) (NasalPolicy, error) {
	switch strings.ToLower(s) {
	case "", "lenient":
		return NasalLenient, nil
	case "strict":
		return NasalStrict, nil
	default:
		return NasalLenient, fmt.Errorf("unknown nasal policy: %s", s)
	}
}

func (p NasalPolicy) String() string {
	if p == NasalStrict {
		return "strict"
	}
	return "lenient"
}

// Option configures an Engine.
type Option func(*Engine)

// WithNasalPolicy sets the ん policy. The default is NasalLenient.
func WithNasalPolicy(p NasalPolicy) Option {
	return func(e *Engine) { e.nasal = p }
}

// Engine matches keystrokes against one target kana string at a time.
// It is not safe for concurrent use.
type Engine struct {
	table *romaji.Table
	nasal NasalPolicy

	target     string
	remaining  []rune
	candidates []Candidate
	typed      string

	// absorbN is set after ん was finished with a single "n"; one more "n"
	// or "'" is then accepted without consuming kana.
	absorbN bool
}

// New creates an engine over table. A nil table means romaji.Default().
func New(table *romaji.Table, opts ...Option) *Engine {
	if table == nil {
		table = romaji.Default()
	}
	e := &Engine{table: table}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset starts a new question. The kana is checked against the table first;
// on error the previous state is kept and the error wraps
// romaji.ErrUnknownKana or ErrEmptyTarget.
func (e *Engine) Reset(kana string) error {
	if kana == "" {
		return ErrEmptyTarget
	}
	if err := e.table.Check(kana); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	e.target = kana
	e.remaining = []rune(kana)
	e.typed = ""
	e.absorbN = false
	e.candidates = generate(e.table, e.nasal, e.remaining)
	return nil
}

// SubmitKey feeds one keystroke to the engine.
func (e *Engine) SubmitKey(key rune) Result {
	if len(e.remaining) == 0 {
		return Result{Outcome: OutcomeMiss}
	}
	k := string(key)

	matched := false
	for _, c := range e.candidates {
		if strings.HasPrefix(c.Remaining, k) {
			matched = true
			break
		}
	}
	if !matched {
		if e.absorbN && (key == 'n' || key == '\'') {
			e.absorbN = false
			e.typed += k
			return Result{Outcome: OutcomeAccepted}
		}
		return Result{Outcome: OutcomeMiss}
	}

	e.typed += k
	e.absorbN = false

	size := len(k)
	next := make([]Candidate, 0, len(e.candidates))
	completed := -1
	for _, c := range e.candidates {
		if !strings.HasPrefix(c.Remaining, k) {
			continue
		}
		c.Remaining = c.Remaining[size:]
		if c.Remaining == "" && completed < 0 {
			completed = len(next)
		}
		next = append(next, c)
	}

	if completed < 0 {
		e.candidates = next
		return Result{Outcome: OutcomeAccepted}
	}

	done := next[completed]
	e.remaining = e.remaining[done.Consume:]
	e.candidates = generate(e.table, e.nasal, e.remaining)
	if done.Rule == RuleNasal {
		e.absorbN = true
	}

	if len(e.remaining) == 0 {
		return Result{Outcome: OutcomeCompleted, Consumed: done.Consume}
	}
	return Result{Outcome: OutcomeAccepted, Consumed: done.Consume}
}

// Hint returns the untyped rest of the highest-priority candidate, or "".
func (e *Engine) Hint() string {
	if len(e.candidates) == 0 {
		return ""
	}
	return e.candidates[0].Remaining
}

// Done reports whether the current target has been fully typed.
func (e *Engine) Done() bool {
	return e.target != "" && len(e.remaining) == 0
}

// Target returns the kana passed to the last successful Reset.
func (e *Engine) Target() string { return e.target }

// RemainingKana returns the untyped suffix of the target.
func (e *Engine) RemainingKana() string { return string(e.remaining) }

// Typed returns every accepted key of the current question.
func (e *Engine) Typed() string { return e.typed }

// State is a snapshot of the engine.
type State struct {
	Target        string
	RemainingKana string
	Typed         string
	Candidates    []Candidate
}

// TypedKana returns the consumed prefix of Target.
func (s State) TypedKana() string {
	return s.Target[:len(s.Target)-len(s.RemainingKana)]
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return State{
		Target:        e.target,
		RemainingKana: string(e.remaining),
		Typed:         e.typed,
		Candidates:    append([]Candidate(nil), e.candidates...),
	}
}
