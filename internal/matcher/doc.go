// Package matcher implements the incremental romaji matching engine.
//
// # Model
//
// The engine holds the kana that is still untyped and a list of candidates.
// A candidate is the untyped rest of one accepted romanization of the next
// kana unit, plus the number of kana runes it consumes once fully typed:
//
//	remaining kana: しゃしん
//	candidates:     {sha 2} {sya 2} {shi 1} {si 1} {ci 1}
//	key "s":        {ha 2}  {ya 2}  {hi 1}  {i 1}
//	key "h":        {a 2}   {i 1}
//	key "a":        {"" 2}            -> consume 2, regenerate for しん
//
// # Generation order
//
// Candidates are generated in a fixed priority order, which is also the
// tie-break order when several candidates finish on the same key:
//
//  1. Digraph: the first two runes form a known two-kana unit.
//  2. Monograph: the first rune alone.
//  3. Geminate: the first rune is っ; one candidate per distinct leading
//     consonant of the following unit, consuming only the marker.
//  4. Nasal: the first rune is ん and the following unit cannot be
//     misread, so a single "n" is enough (NasalLenient only).
//
// Within a tier the table's list order is kept, so the first-listed spelling
// wins.
//
// # Outcomes
//
// SubmitKey reports OutcomeMiss when no candidate accepts the key (the state
// is left exactly as it was), OutcomeAccepted for progress, and
// OutcomeCompleted when the last kana was consumed. The engine never waits
// and never locks; the caller owns the only reference.
package matcher
