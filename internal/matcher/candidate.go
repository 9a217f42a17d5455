package matcher

import (
	"strings"

	"kanatype/internal/romaji"
)

// Rule identifies the generation tier of a candidate. Lower values win ties.
type Rule uint8

const (
	RuleDigraph Rule = iota
	RuleMonograph
	RuleGeminate
	RuleNasal
)

func (r Rule) String() string {
	switch r {
	case RuleDigraph:
		return "digraph"
	case RuleMonograph:
		return "monograph"
	case RuleGeminate:
		return "geminate"
	case RuleNasal:
		return "nasal"
	default:
		return "unknown"
	}
}

// Candidate is one live romanization of the next kana unit.
type Candidate struct {
	// Remaining is the part of the romanization not typed yet.
	Remaining string
	// Consume is the number of kana runes removed when Remaining empties.
	Consume int
	Rule    Rule
}

const vowels = "aiueo"

// generate builds the candidate list for the head of kana.
func generate(t *romaji.Table, nasal NasalPolicy, kana []rune) []Candidate {
	if len(kana) == 0 {
		return nil
	}
	var out []Candidate

	if len(kana) >= 2 {
		for _, s := range t.Digraph(kana[0], kana[1]) {
			out = append(out, Candidate{Remaining: s, Consume: 2, Rule: RuleDigraph})
		}
	}

	for _, s := range t.Monograph(kana[0]) {
		out = append(out, Candidate{Remaining: s, Consume: 1, Rule: RuleMonograph})
	}

	if t.IsGeminate(kana[0]) && len(kana) >= 2 {
		seen := make(map[byte]bool)
		for _, s := range t.Unit(kana[1:]) {
			c := s[0]
			if !isConsonant(c) || isSmallPrefix(c) || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, Candidate{Remaining: string(c), Consume: 1, Rule: RuleGeminate})
		}
	}

	if nasal == NasalLenient && t.IsNasal(kana[0]) && len(kana) >= 2 && singleNOK(t.Unit(kana[1:])) {
		out = append(out, Candidate{Remaining: "n", Consume: 1, Rule: RuleNasal})
	}

	return out
}

// singleNOK reports whether a lone "n" before a unit spelled as next cannot
// be confused with a ナ-row, ヤ-row or vowel syllable.
func singleNOK(next []string) bool {
	if len(next) == 0 {
		return false
	}
	for _, s := range next {
		c := s[0]
		if !isConsonant(c) || c == 'n' || c == 'y' {
			return false
		}
	}
	return true
}

// isSmallPrefix reports whether c starts a small-kana spelling (xtu, la).
// Doubling it would steal the first key of the next explicit small kana.
func isSmallPrefix(c byte) bool {
	return c == 'x' || c == 'l'
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && strings.IndexByte(vowels, c) < 0
}
