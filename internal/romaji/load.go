package romaji

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// tableFile is the on-disk TOML layout of a romanization table.
//
//	base = "default"        # optional: start from the built-in table
//	geminate = "っ"
//	nasal = "ん"
//
//	[monographs]
//	"し" = ["shi", "si"]
//
//	[digraphs]
//	"しゃ" = ["sha", "sya"]
type tableFile struct {
	Base       string              `toml:"base,omitempty"`
	Geminate   string              `toml:"geminate,omitempty"`
	Nasal      string              `toml:"nasal,omitempty"`
	Monographs map[string][]string `toml:"monographs"`
	Digraphs   map[string][]string `toml:"digraphs"`
}

// Load reads a TOML table from path. An empty path returns Default.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", path, err)
	}
	return t, nil
}

// Decode reads a TOML table from r. With base = "default" the file's entries
// replace or extend the built-in ones.
func Decode(r io.Reader) (*Table, error) {
	var tf tableFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}

	var monographs, digraphs map[string][]string
	geminate, nasal := rune(0), rune(0)

	switch tf.Base {
	case "":
		monographs = map[string][]string{}
		digraphs = map[string][]string{}
	case "default":
		monographs, digraphs = Default().Entries()
		geminate, nasal = GeminateMarker, NasalMarker
	default:
		return nil, fmt.Errorf("unknown base table %q", tf.Base)
	}

	for k, v := range tf.Monographs {
		monographs[FoldString(k)] = v
	}
	for k, v := range tf.Digraphs {
		digraphs[FoldString(k)] = v
	}

	if tf.Geminate != "" {
		m, err := marker(tf.Geminate)
		if err != nil {
			return nil, fmt.Errorf("geminate: %w", err)
		}
		geminate = m
	}
	if tf.Nasal != "" {
		m, err := marker(tf.Nasal)
		if err != nil {
			return nil, fmt.Errorf("nasal: %w", err)
		}
		nasal = m
	}

	return NewTable(monographs, digraphs, geminate, nasal)
}

// Encode writes t as TOML without a base, so the output is self-contained.
func Encode(w io.Writer, t *Table) error {
	mono, di := t.Entries()
	tf := tableFile{
		Monographs: mono,
		Digraphs:   di,
	}
	if t.geminate != 0 {
		tf.Geminate = string(t.geminate)
	}
	if t.nasal != 0 {
		tf.Nasal = string(t.nasal)
	}
	return toml.NewEncoder(w).Encode(tf)
}

func marker(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("marker %q must be one rune", s)
	}
	return Fold(runes[0]), nil
}
