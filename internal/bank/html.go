package bank

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DecodeHTML reads questions from the first <table> of an HTML document.
// Each row with at least two <td> cells yields one question: the first cell
// is the display form, the second the kana. Header rows made of <th> cells
// are skipped.
func DecodeHTML(r io.Reader) ([]Question, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse HTML: %w: no <table> element", ErrEmptyBank)
	}

	var qs []Question
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		qs = append(qs, Question{
			Display: cellText(cells.Eq(0)),
			Kana:    cellText(cells.Eq(1)),
		})
	})
	return qs, nil
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
