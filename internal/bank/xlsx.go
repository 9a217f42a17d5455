package bank

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerNames are first-row labels that mark a header row.
var headerNames = map[string]bool{
	"display": true, "kana": true, "word": true, "reading": true,
	"表示": true, "単語": true, "かな": true, "よみ": true, "読み": true,
}

// LoadXLSX reads questions from the first sheet of a workbook: column A is
// the display form and column B the kana. A header row is skipped when its
// cells are recognized labels.
func LoadXLSX(path string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("load workbook %s: %w", path, ErrEmptyBank)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var qs []Question
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if i == 0 && isHeader(row) {
			continue
		}
		if strings.TrimSpace(row[0]) == "" && strings.TrimSpace(row[1]) == "" {
			continue
		}
		qs = append(qs, Question{Display: row[0], Kana: row[1]})
	}
	return normalizeAll(qs), nil
}

func isHeader(row []string) bool {
	return headerNames[strings.ToLower(strings.TrimSpace(row[0]))] ||
		headerNames[strings.ToLower(strings.TrimSpace(row[1]))]
}
