package romaji

import "sync"

// sp is a shorthand to build a romanization list.
func sp(s ...string) []string { return s }

// builtinDigraphs are the two-kana units. The matcher tries them before the
// monograph of their first rune.
var builtinDigraphs = []struct {
	kana  string
	romas []string
}{
	// 拗音
	{"きゃ", sp("kya")}, {"きぃ", sp("kyi")}, {"きゅ", sp("kyu")}, {"きぇ", sp("kye")}, {"きょ", sp("kyo")},
	{"ぎゃ", sp("gya")}, {"ぎぃ", sp("gyi")}, {"ぎゅ", sp("gyu")}, {"ぎぇ", sp("gye")}, {"ぎょ", sp("gyo")},
	{"しゃ", sp("sha", "sya")}, {"しぃ", sp("syi")}, {"しゅ", sp("shu", "syu")}, {"しぇ", sp("she", "sye")}, {"しょ", sp("sho", "syo")},
	{"じゃ", sp("ja", "zya", "jya")}, {"じぃ", sp("zyi", "jyi")}, {"じゅ", sp("ju", "zyu", "jyu")}, {"じぇ", sp("je", "zye", "jye")}, {"じょ", sp("jo", "zyo", "jyo")},
	{"ちゃ", sp("cha", "tya", "cya")}, {"ちぃ", sp("tyi", "cyi")}, {"ちゅ", sp("chu", "tyu", "cyu")}, {"ちぇ", sp("che", "tye", "cye")}, {"ちょ", sp("cho", "tyo", "cyo")},
	{"ぢゃ", sp("dya")}, {"ぢぃ", sp("dyi")}, {"ぢゅ", sp("dyu")}, {"ぢぇ", sp("dye")}, {"ぢょ", sp("dyo")},
	{"にゃ", sp("nya")}, {"にぃ", sp("nyi")}, {"にゅ", sp("nyu")}, {"にぇ", sp("nye")}, {"にょ", sp("nyo")},
	{"ひゃ", sp("hya")}, {"ひぃ", sp("hyi")}, {"ひゅ", sp("hyu")}, {"ひぇ", sp("hye")}, {"ひょ", sp("hyo")},
	{"びゃ", sp("bya")}, {"びぃ", sp("byi")}, {"びゅ", sp("byu")}, {"びぇ", sp("bye")}, {"びょ", sp("byo")},
	{"ぴゃ", sp("pya")}, {"ぴぃ", sp("pyi")}, {"ぴゅ", sp("pyu")}, {"ぴぇ", sp("pye")}, {"ぴょ", sp("pyo")},
	{"みゃ", sp("mya")}, {"みぃ", sp("myi")}, {"みゅ", sp("myu")}, {"みぇ", sp("mye")}, {"みょ", sp("myo")},
	{"りゃ", sp("rya")}, {"りぃ", sp("ryi")}, {"りゅ", sp("ryu")}, {"りぇ", sp("rye")}, {"りょ", sp("ryo")},
	// 外来語
	{"ふぁ", sp("fa", "fwa")}, {"ふぃ", sp("fi", "fyi", "fwi")}, {"ふぇ", sp("fe", "fye", "fwe")}, {"ふぉ", sp("fo", "fwo")}, {"ふゅ", sp("fyu")},
	{"てぃ", sp("thi")}, {"てゅ", sp("thu")}, {"でぃ", sp("dhi")}, {"でゅ", sp("dhu")},
	{"とぅ", sp("twu")}, {"どぅ", sp("dwu")},
	{"うぃ", sp("wi", "whi")}, {"うぇ", sp("we", "whe")}, {"うぉ", sp("who")},
	{"ゔぁ", sp("va")}, {"ゔぃ", sp("vi")}, {"ゔぇ", sp("ve")}, {"ゔぉ", sp("vo")},
	{"つぁ", sp("tsa")}, {"つぃ", sp("tsi")}, {"つぇ", sp("tse")}, {"つぉ", sp("tso")},
	{"くぁ", sp("kwa", "qa")}, {"ぐぁ", sp("gwa")},
	{"いぇ", sp("ye")},
}

// builtinMonographs are the single-kana units.
var builtinMonographs = []struct {
	kana  string
	romas []string
}{
	// ア行
	{"あ", sp("a")}, {"い", sp("i", "yi")}, {"う", sp("u", "wu", "whu")}, {"え", sp("e")}, {"お", sp("o")},
	// カ行
	{"か", sp("ka", "ca")}, {"き", sp("ki")}, {"く", sp("ku", "cu", "qu")}, {"け", sp("ke")}, {"こ", sp("ko", "co")},
	{"が", sp("ga")}, {"ぎ", sp("gi")}, {"ぐ", sp("gu")}, {"げ", sp("ge")}, {"ご", sp("go")},
	// サ行
	{"さ", sp("sa")}, {"し", sp("shi", "si", "ci")}, {"す", sp("su")}, {"せ", sp("se", "ce")}, {"そ", sp("so")},
	{"ざ", sp("za")}, {"じ", sp("ji", "zi")}, {"ず", sp("zu")}, {"ぜ", sp("ze")}, {"ぞ", sp("zo")},
	// タ行
	{"た", sp("ta")}, {"ち", sp("chi", "ti")}, {"つ", sp("tsu", "tu")}, {"て", sp("te")}, {"と", sp("to")},
	{"だ", sp("da")}, {"ぢ", sp("di")}, {"づ", sp("du")}, {"で", sp("de")}, {"ど", sp("do")},
	// ナ行
	{"な", sp("na")}, {"に", sp("ni")}, {"ぬ", sp("nu")}, {"ね", sp("ne")}, {"の", sp("no")},
	// ハ行
	{"は", sp("ha")}, {"ひ", sp("hi")}, {"ふ", sp("fu", "hu")}, {"へ", sp("he")}, {"ほ", sp("ho")},
	{"ば", sp("ba")}, {"び", sp("bi")}, {"ぶ", sp("bu")}, {"べ", sp("be")}, {"ぼ", sp("bo")},
	{"ぱ", sp("pa")}, {"ぴ", sp("pi")}, {"ぷ", sp("pu")}, {"ぺ", sp("pe")}, {"ぽ", sp("po")},
	// マ行
	{"ま", sp("ma")}, {"み", sp("mi")}, {"む", sp("mu")}, {"め", sp("me")}, {"も", sp("mo")},
	// ヤ行
	{"や", sp("ya")}, {"ゆ", sp("yu")}, {"よ", sp("yo")},
	// ラ行
	{"ら", sp("ra")}, {"り", sp("ri")}, {"る", sp("ru")}, {"れ", sp("re")}, {"ろ", sp("ro")},
	// ワ行
	{"わ", sp("wa")}, {"ゐ", sp("wyi")}, {"ゑ", sp("wye")}, {"を", sp("wo")},
	{"ゔ", sp("vu")},
	// 小書き
	{"ぁ", sp("xa", "la")}, {"ぃ", sp("xi", "li", "xyi", "lyi")}, {"ぅ", sp("xu", "lu")}, {"ぇ", sp("xe", "le", "xye", "lye")}, {"ぉ", sp("xo", "lo")},
	{"ゃ", sp("xya", "lya")}, {"ゅ", sp("xyu", "lyu")}, {"ょ", sp("xyo", "lyo")}, {"ゎ", sp("xwa", "lwa")},
	{"ゕ", sp("xka", "lka")}, {"ゖ", sp("xke", "lke")},
	// 特殊
	{"っ", sp("xtu", "ltu", "xtsu", "ltsu")},
	{"ん", sp("nn", "n'", "xn")},
	{"ー", sp("-")},
	{"、", sp(",")}, {"。", sp(".")}, {"！", sp("!")}, {"？", sp("?")}, {"!", sp("!")}, {"?", sp("?")},
	{"「", sp("[")}, {"」", sp("]")},
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default returns the built-in hiragana table. The table is built once and
// shared; callers must not modify the returned lists.
func Default() *Table {
	defaultOnce.Do(func() {
		t := &Table{
			monographs: make(map[rune][]string, len(builtinMonographs)),
			digraphs:   make(map[[2]rune][]string, len(builtinDigraphs)),
			geminate:   GeminateMarker,
			nasal:      NasalMarker,
		}
		for _, e := range builtinMonographs {
			t.monographs[[]rune(e.kana)[0]] = e.romas
		}
		for _, e := range builtinDigraphs {
			k := []rune(e.kana)
			t.digraphs[[2]rune{k[0], k[1]}] = e.romas
		}
		defaultTable = t
	})
	return defaultTable
}
