package matcher

import (
	"errors"
	"reflect"
	"testing"

	"kanatype/internal/romaji"
)

func newEngine(t *testing.T, kana string, opts ...Option) *Engine {
	t.Helper()
	e := New(nil, opts...)
	if err := e.Reset(kana); err != nil {
		t.Fatalf("Reset(%q) failed: %v", kana, err)
	}
	return e
}

// typeKeys submits every rune of keys and returns the results.
func typeKeys(e *Engine, keys string) []Result {
	var out []Result
	for _, k := range keys {
		out = append(out, e.SubmitKey(k))
	}
	return out
}

func TestDigraphAmbiguity(t *testing.T) {
	for _, keys := range []string{"sha", "sya"} {
		t.Run(keys, func(t *testing.T) {
			e := newEngine(t, "しゃ")
			results := typeKeys(e, keys)

			for i, res := range results[:2] {
				if res.Outcome != OutcomeAccepted || res.Consumed != 0 {
					t.Errorf("key %d: got %+v, want accepted with nothing consumed", i, res)
				}
			}
			last := results[2]
			if last.Outcome != OutcomeCompleted {
				t.Fatalf("last key: got %v, want completed", last.Outcome)
			}
			if last.Consumed != 2 {
				t.Errorf("expected both kana consumed in one step, got %d", last.Consumed)
			}
			if e.Typed() != keys {
				t.Errorf("Typed = %q, want %q", e.Typed(), keys)
			}
		})
	}
}

func TestDigraphOrMonographPath(t *testing.T) {
	// しゃ can also be typed as し + small ゃ.
	e := newEngine(t, "しゃ")
	results := typeKeys(e, "shixya")

	if results[2].Consumed != 1 {
		t.Fatalf("expected し to be consumed alone, got %+v", results[2])
	}
	if got := e.RemainingKana(); got != "" {
		t.Errorf("RemainingKana = %q, want empty", got)
	}
	if results[5].Outcome != OutcomeCompleted {
		t.Errorf("expected completion, got %v", results[5].Outcome)
	}
}

func TestGeminateDoubling(t *testing.T) {
	e := newEngine(t, "かっぱ")

	want := []Result{
		{OutcomeAccepted, 0}, // k
		{OutcomeAccepted, 1}, // a   -> か
		{OutcomeAccepted, 1}, // p   -> っ (geminate)
		{OutcomeAccepted, 0}, // p
		{OutcomeCompleted, 1}, // a  -> ぱ
	}
	got := typeKeys(e, "kappa")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kappa: got %+v, want %+v", got, want)
	}
}

func TestGeminateExplicitSmallTsu(t *testing.T) {
	for _, keys := range []string{"kaxtupa", "kaltsupa"} {
		e := newEngine(t, "かっぱ")
		typeKeys(e, keys)
		if !e.Done() {
			t.Errorf("%s: expected completion, remaining %q", keys, e.RemainingKana())
		}
	}
}

func TestGeminateBeforeDigraph(t *testing.T) {
	// っちゃ: consonants come from both ちゃ (cha, tya, cya) and ち (chi, ti).
	e := newEngine(t, "まっちゃ")
	typeKeys(e, "ma")

	var letters []string
	for _, c := range e.State().Candidates {
		if c.Rule == RuleGeminate {
			letters = append(letters, c.Remaining)
			if c.Consume != 1 {
				t.Errorf("geminate candidate consumes %d, want 1", c.Consume)
			}
		}
	}
	if !reflect.DeepEqual(letters, []string{"c", "t"}) {
		t.Errorf("geminate letters = %v, want [c t]", letters)
	}

	for _, keys := range []string{"ccha", "ttya", "tchi"} {
		e := newEngine(t, "まっちゃ")
		typeKeys(e, "ma"+keys)
		if keys == "tchi" {
			// ち then a dangling ゃ
			typeKeys(e, "xya")
		}
		if !e.Done() {
			t.Errorf("ma%s: expected completion, remaining %q", keys, e.RemainingKana())
		}
	}
}

func TestGeminateBeforeSmallKana(t *testing.T) {
	tests := []struct {
		kana string
		keys string
	}{
		{"っっか", "xtukka"},
		{"っゃ", "xtuxya"},
		{"かっぁ", "kaltula"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			e := newEngine(t, tt.kana)
			for i, res := range typeKeys(e, tt.keys) {
				if res.Miss() {
					t.Fatalf("key %d (%q) missed, remaining %q", i, tt.keys[i], e.RemainingKana())
				}
			}
			if !e.Done() {
				t.Errorf("expected completion, remaining %q", e.RemainingKana())
			}
			for _, c := range newEngine(t, tt.kana).State().Candidates {
				if c.Rule == RuleGeminate && (c.Remaining == "x" || c.Remaining == "l") {
					t.Errorf("unexpected geminate candidate %+v", c)
				}
			}
		})
	}
}

func TestGeminateSkipsVowels(t *testing.T) {
	e := newEngine(t, "っあ")
	for _, c := range e.State().Candidates {
		if c.Rule == RuleGeminate {
			t.Errorf("unexpected geminate candidate %+v before a vowel", c)
		}
	}
	if res := e.SubmitKey('a'); !res.Miss() {
		t.Errorf("expected miss for a, got %v", res.Outcome)
	}
}

func TestMonographAmbiguity(t *testing.T) {
	for _, keys := range []string{"shi", "si"} {
		e := newEngine(t, "し")
		results := typeKeys(e, keys)
		if results[len(results)-1].Outcome != OutcomeCompleted {
			t.Errorf("%s: expected completion", keys)
		}
	}

	e := newEngine(t, "し")
	e.SubmitKey('s')
	hint := e.Hint()
	if hint != "hi" && hint != "i" {
		t.Errorf("hint after s = %q, want hi or i", hint)
	}
	if hint != "hi" {
		t.Errorf("hint should follow the first-listed spelling, got %q", hint)
	}
}

func TestHintFollowsPriority(t *testing.T) {
	e := newEngine(t, "しゃしん")
	if got := e.Hint(); got != "sha" {
		t.Errorf("initial hint = %q, want sha", got)
	}
	e.SubmitKey('s')
	e.SubmitKey('y')
	if got := e.Hint(); got != "a" {
		t.Errorf("hint after sy = %q, want a", got)
	}
	typeKeys(e, "ashi")
	if got := e.Hint(); got != "nn" {
		t.Errorf("hint at word-final ん = %q, want nn", got)
	}
}

func TestMissPurity(t *testing.T) {
	e := newEngine(t, "かっぱ")
	typeKeys(e, "kap")
	before := e.State()

	for _, k := range "zqa!" {
		res := e.SubmitKey(k)
		if !res.Miss() {
			t.Fatalf("key %q: expected miss, got %v", k, res.Outcome)
		}
		if after := e.State(); !reflect.DeepEqual(before, after) {
			t.Fatalf("miss on %q changed state:\nbefore %+v\nafter  %+v", k, before, after)
		}
	}
}

func TestIdempotentReset(t *testing.T) {
	fresh := newEngine(t, "しゃしん").State()

	e := newEngine(t, "かっぱ")
	typeKeys(e, "kap")
	for i := 0; i < 2; i++ {
		if err := e.Reset("しゃしん"); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if got := e.State(); !reflect.DeepEqual(got, fresh) {
			t.Fatalf("reset %d: got %+v, want %+v", i, got, fresh)
		}
	}
	if e.Typed() != "" {
		t.Errorf("Typed should be empty after reset, got %q", e.Typed())
	}
}

func TestResetErrors(t *testing.T) {
	e := newEngine(t, "かな")
	e.SubmitKey('k')
	before := e.State()

	if err := e.Reset(""); !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("empty target: got %v, want ErrEmptyTarget", err)
	}

	err := e.Reset("かな漢字")
	if !errors.Is(err, romaji.ErrUnknownKana) {
		t.Fatalf("unknown kana: got %v, want ErrUnknownKana", err)
	}
	var uerr *romaji.UnknownKanaError
	if !errors.As(err, &uerr) || uerr.Index != 2 {
		t.Errorf("expected UnknownKanaError at index 2, got %v", err)
	}

	if after := e.State(); !reflect.DeepEqual(before, after) {
		t.Errorf("failed reset changed state: %+v -> %+v", before, after)
	}
}

func TestKeysAfterCompletion(t *testing.T) {
	e := newEngine(t, "あ")
	if res := e.SubmitKey('a'); res.Outcome != OutcomeCompleted {
		t.Fatalf("expected completed, got %v", res.Outcome)
	}
	if !e.Done() {
		t.Error("expected Done")
	}
	if e.Hint() != "" {
		t.Errorf("hint should be empty after completion, got %q", e.Hint())
	}
	if res := e.SubmitKey('a'); !res.Miss() {
		t.Errorf("keys after completion should miss, got %v", res.Outcome)
	}
	if e.Typed() != "a" {
		t.Errorf("Typed = %q, want a", e.Typed())
	}
}

func TestZeroEngineMisses(t *testing.T) {
	e := New(nil)
	if res := e.SubmitKey('a'); !res.Miss() {
		t.Errorf("expected miss before Reset, got %v", res.Outcome)
	}
	if e.Done() {
		t.Error("engine without target should not be done")
	}
}

func TestKatakanaTarget(t *testing.T) {
	e := newEngine(t, "カッパ")
	typeKeys(e, "kappa")
	if !e.Done() {
		t.Fatalf("expected completion, remaining %q", e.RemainingKana())
	}
	st := e.State()
	if st.TypedKana() != "カッパ" {
		t.Errorf("TypedKana = %q", st.TypedKana())
	}
}

func TestTypedKanaSplit(t *testing.T) {
	e := newEngine(t, "すし")
	typeKeys(e, "su")
	st := e.State()
	if st.TypedKana() != "す" || st.RemainingKana != "し" {
		t.Errorf("split = %q|%q, want す|し", st.TypedKana(), st.RemainingKana)
	}
}

func TestTieBreakDigraphWins(t *testing.T) {
	// Both the digraph and the monograph finish on "ka"; the digraph is
	// generated first and must win, consuming two runes.
	table, err := romaji.NewTable(
		map[string][]string{"か": {"ka"}, "ゃ": {"ya"}},
		map[string][]string{"かゃ": {"ka"}},
		0, 0,
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	e := New(table)
	if err := e.Reset("かゃか"); err != nil {
		t.Fatal(err)
	}
	e.SubmitKey('k')
	res := e.SubmitKey('a')
	if res.Consumed != 2 {
		t.Fatalf("expected the digraph to win, consumed %d", res.Consumed)
	}
	if got := e.RemainingKana(); got != "か" {
		t.Errorf("RemainingKana = %q, want か", got)
	}
}

func TestCompletionReplacesPartials(t *testing.T) {
	// After "n" for ん before か the nasal candidate finishes; the partial
	// "nn" and "n'" candidates must not survive next to か's candidates.
	e := newEngine(t, "んか")
	res := e.SubmitKey('n')
	if res.Consumed != 1 {
		t.Fatalf("expected ん consumed by single n, got %+v", res)
	}
	for _, c := range e.State().Candidates {
		if c.Rule == RuleNasal || c.Remaining == "n" || c.Remaining == "'" {
			t.Errorf("leftover candidate %+v", c)
		}
	}
}

func TestNasalPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy NasalPolicy
		kana   string
		keys   string
		done   bool
	}{
		{"lenient single n", NasalLenient, "かんき", "kanki", true},
		{"lenient nn", NasalLenient, "かんき", "kannki", true},
		{"lenient n apostrophe", NasalLenient, "かんき", "kan'ki", true},
		{"lenient xn", NasalLenient, "かんき", "kaxnki", true},
		{"lenient before vowel", NasalLenient, "きんえん", "kinen", false},
		{"lenient before vowel nn", NasalLenient, "きんえん", "kinnenn", true},
		{"lenient before na-row", NasalLenient, "こんにちは", "konichiha", false},
		{"lenient before na-row nn", NasalLenient, "こんにちは", "konnnichiha", true},
		{"lenient before ya-row", NasalLenient, "こんや", "konya", false},
		{"lenient word final", NasalLenient, "ほん", "hon", false},
		{"lenient word final nn", NasalLenient, "ほん", "honn", true},
		{"strict single n", NasalStrict, "かんき", "kanki", false},
		{"strict nn", NasalStrict, "かんき", "kannki", true},
		{"strict apostrophe", NasalStrict, "かんき", "kan'ki", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.kana, WithNasalPolicy(tt.policy))
			typeKeys(e, tt.keys)
			if e.Done() != tt.done {
				t.Errorf("%q with %q: done=%v, want %v (remaining %q, typed %q)",
					tt.kana, tt.keys, e.Done(), tt.done, e.RemainingKana(), e.Typed())
			}
		})
	}
}

func TestNasalAbsorbsOnlyOnce(t *testing.T) {
	e := newEngine(t, "かんき")
	typeKeys(e, "kann")
	if res := e.SubmitKey('n'); !res.Miss() {
		t.Errorf("third n should miss, got %v", res.Outcome)
	}
}

func TestParseNasalPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    NasalPolicy
		wantErr bool
	}{
		{"", NasalLenient, false},
		{"lenient", NasalLenient, false},
		{"STRICT", NasalStrict, false},
		{"sometimes", NasalLenient, true},
	}
	for _, tt := range tests {
		got, err := ParseNasalPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNasalPolicy(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseNasalPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeMiss.String() != "miss" || OutcomeCompleted.String() != "completed" {
		t.Error("unexpected outcome names")
	}
	if RuleGeminate.String() != "geminate" {
		t.Errorf("RuleGeminate = %s", RuleGeminate)
	}
}
