package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyBank         = errors.New("bank: no questions")
	ErrMissingDisplay    = errors.New("bank: missing display")
	ErrMissingKana       = errors.New("bank: missing kana")
	ErrUnsupportedFormat = errors.New("bank: unsupported format")
)

// Format identifies a bank file format.
type Format string

const (
	FormatTOML   Format = "toml"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatXLSX   Format = "xlsx"
	FormatHTML   Format = "html"
	FormatSQLite Format = "sqlite"
)

// FormatOf guesses the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a bank from path, choosing the loader by extension. An empty
// path returns the built-in sample bank.
func Load(path string) ([]Question, error) {
	if path == "" {
		return Default(), nil
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return LoadXLSX(path)
	case FormatSQLite:
		return LoadSQLite(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()

	qs, err := Decode(format, f)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", path, err)
	}
	return qs, nil
}

// Decode reads a bank in one of the stream formats (TOML, JSON, YAML, HTML).
func Decode(format Format, r io.Reader) ([]Question, error) {
	var qs []Question

	switch format {
	case FormatTOML:
		var bf bankFile
		if _, err := toml.NewDecoder(r).Decode(&bf); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
		qs = bf.Questions
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read JSON: %w", err)
		}
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
		var bf bankFile
		if err := json.Unmarshal(data, &bf); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
		qs = bf.Questions
	case FormatYAML:
		var bf bankFile
		if err := yaml.NewDecoder(r).Decode(&bf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		qs = bf.Questions
	case FormatHTML:
		var err error
		if qs, err = DecodeHTML(r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return normalizeAll(qs), nil
}

// Encode writes qs as a TOML bank.
func Encode(w io.Writer, qs []Question) error {
	return toml.NewEncoder(w).Encode(bankFile{Questions: qs})
}

func normalizeAll(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, Question{
			Display: strings.TrimSpace(q.Display),
			Kana:    NormalizeKana(q.Kana),
		})
	}
	return out
}
