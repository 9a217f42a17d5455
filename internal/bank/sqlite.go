package bank

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// questionQuery reads a bank table. The table must have display and kana
// columns; rows are returned in insertion order.
const questionQuery = `SELECT display, kana FROM questions ORDER BY rowid`

// LoadSQLite reads questions from the questions table of a SQLite database.
// The database is opened read-only and never modified.
func LoadSQLite(path string) ([]Question, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open bank database: %w", err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open bank database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(questionQuery)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var qs []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.Display, &q.Kana); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return normalizeAll(qs), nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is escaped
// so '?', '#' and '%' in file names are not read as URI syntax.
func readOnlyDSN(path string) string {
	p := filepath.ToSlash(path)
	if filepath.IsAbs(path) && !strings.HasPrefix(p, "/") {
		// Windows volume paths become file:///C:/...
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro", OmitHost: !strings.HasPrefix(p, "/")}
	return u.String()
}
