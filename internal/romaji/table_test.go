package romaji

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableValid(t *testing.T) {
	tbl := Default()
	require.NoError(t, tbl.Validate())

	mono, di := tbl.Len()
	assert.Equal(t, len(builtinMonographs), mono, "duplicate monograph keys")
	assert.Equal(t, len(builtinDigraphs), di, "duplicate digraph keys")
}

func TestDefaultLookups(t *testing.T) {
	tbl := Default()

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"し", tbl.Monograph('し'), []string{"shi", "si", "ci"}},
		{"シ folds", tbl.Monograph('シ'), []string{"shi", "si", "ci"}},
		{"しゃ", tbl.Digraph('し', 'ゃ'), []string{"sha", "sya"}},
		{"シャ folds", tbl.Digraph('シ', 'ャ'), []string{"sha", "sya"}},
		{"っ", tbl.Monograph('っ'), []string{"xtu", "ltu", "xtsu", "ltsu"}},
		{"ー", tbl.Monograph('ー'), []string{"-"}},
		{"unknown", tbl.Monograph('漢'), nil},
		{"not a digraph", tbl.Digraph('か', 'な'), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestMarkers(t *testing.T) {
	tbl := Default()
	assert.True(t, tbl.IsGeminate('っ'))
	assert.True(t, tbl.IsGeminate('ッ'))
	assert.False(t, tbl.IsGeminate('つ'))
	assert.True(t, tbl.IsNasal('ん'))
	assert.True(t, tbl.IsNasal('ン'))
	assert.False(t, tbl.IsNasal('な'))
}

func TestUnitDigraphFirst(t *testing.T) {
	got := Default().Unit([]rune("しゃしん"))
	assert.Equal(t, []string{"sha", "sya", "shi", "si", "ci"}, got)

	assert.Nil(t, Default().Unit(nil))
	assert.Equal(t, []string{"a"}, Default().Unit([]rune("あ")))
}

func TestFold(t *testing.T) {
	assert.Equal(t, 'あ', Fold('ア'))
	assert.Equal(t, 'ゔ', Fold('ヴ'))
	assert.Equal(t, 'ゖ', Fold('ヶ'))
	assert.Equal(t, 'ー', Fold('ー'))
	assert.Equal(t, 'a', Fold('a'))
	assert.Equal(t, "からおけ", FoldString("カラオケ"))
}

func TestCheck(t *testing.T) {
	tbl := Default()

	require.NoError(t, tbl.Check("かっぱ"))
	require.NoError(t, tbl.Check("コーヒー"))

	err := tbl.Check("かな漢字")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKana))

	var uerr *UnknownKanaError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 2, uerr.Index)
	assert.Equal(t, '漢', uerr.Rune)

	i, ok := tbl.Unknown("かな漢字")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = tbl.Unknown("すし")
	assert.False(t, ok)
}

func TestNewTableRejectsBadKeys(t *testing.T) {
	_, err := NewTable(
		map[string][]string{"あい": {"ai"}},
		map[string][]string{"し": {"shi"}},
		0, 0,
	)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestValidateDigraphNeedsMonographs(t *testing.T) {
	_, err := NewTable(
		map[string][]string{"し": {"shi"}},
		map[string][]string{"しゃ": {"sha"}},
		0, 0,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no monograph entry")
}

func TestValidateEmptyLists(t *testing.T) {
	_, err := NewTable(map[string][]string{"あ": {}}, nil, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no romanizations")

	_, err = NewTable(map[string][]string{"あ": {"A"}}, nil, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not lowercase")
}

func TestDecodeExtendsDefault(t *testing.T) {
	src := `
base = "default"

[monographs]
"し" = ["si", "shi"]

[digraphs]
"ティ" = ["thi", "texi"]
`
	tbl, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"si", "shi"}, tbl.Monograph('し'))
	assert.Equal(t, []string{"thi", "texi"}, tbl.Digraph('て', 'ぃ'))
	assert.Equal(t, []string{"ka", "ca"}, tbl.Monograph('か'), "untouched entries survive")
	assert.True(t, tbl.IsGeminate('っ'))

	// The built-in table is not modified by an override.
	assert.Equal(t, []string{"shi", "si", "ci"}, Default().Monograph('し'))
}

func TestDecodeStandalone(t *testing.T) {
	src := `
geminate = "っ"

[monographs]
"か" = ["ka"]
"っ" = ["xtu"]
`
	tbl, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, tbl.IsGeminate('っ'))
	assert.False(t, tbl.IsNasal('ん'))
	assert.Error(t, tbl.Check("かん"))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad toml", `[monographs`},
		{"unknown base", `base = "qwerty"`},
		{"long marker", "base = \"default\"\ngeminate = \"っっ\""},
		{"marker without entry", "geminate = \"っ\"\n[monographs]\n\"か\" = [\"ka\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndEncode(t *testing.T) {
	tbl, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), tbl)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))

	path := filepath.Join(t.TempDir(), "table.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Monograph('ん'), loaded.Monograph('ん'))
	assert.True(t, loaded.IsNasal('ん'))

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
