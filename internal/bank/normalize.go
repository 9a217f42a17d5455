package bank

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// spacing (゛ ゜) to combining (U+3099 U+309A) sound marks, so that NFC can
// compose half-width input such as ｶﾞ into ガ.
var soundMarks = strings.NewReplacer("\u309b", "\u3099", "\u309c", "\u309a")

// NormalizeKana prepares a kana reading for matching: half-width katakana
// and full-width ASCII are folded to their canonical width, separate
// voicing marks are composed, and whitespace is removed.
func NormalizeKana(s string) string {
	s = width.Fold.String(s)
	s = soundMarks.Replace(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), "")
}
