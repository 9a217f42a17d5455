package matcher

import "kanatype/internal/romaji"

// Romanize returns one keystroke sequence that types kana to completion.
// It follows the engine's own candidates: a doubled consonant is preferred
// for っ, otherwise the highest-priority spelling is used until some
// candidate finishes a unit.
func Romanize(table *romaji.Table, kana string, opts ...Option) (string, error) {
	e := New(table, opts...)
	if err := e.Reset(kana); err != nil {
		return "", err
	}

	for !e.Done() {
		c := pick(e.candidates)
		for _, k := range c.Remaining {
			if res := e.SubmitKey(k); res.Consumed > 0 {
				break
			}
		}
	}
	return e.Typed(), nil
}

func pick(cs []Candidate) Candidate {
	for _, c := range cs {
		if c.Rule == RuleGeminate {
			return c
		}
	}
	return cs[0]
}
