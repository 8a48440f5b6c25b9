//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search falls back to LIKE over the records table.
	return nil
}

func ftsInsert(_ *sql.Tx, _ string, _ RecordRow) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

// Search performs a LIKE-based search over ids, names and bodies.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT path, kind, xref, display_name, substr(body, 1, 200)
		FROM records
		WHERE xref LIKE ? OR display_name LIKE ? OR body LIKE ?
		ORDER BY path, rowid
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r RecordRow
		var snippet string
		if err := rows.Scan(&r.Path, &r.Kind, &r.ID, &r.DisplayName, &snippet); err != nil {
			return nil, err
		}
		out = append(out, SearchResult{Path: r.Path, Kind: r.Kind, ID: r.ID, Title: searchTitle(r), Snippet: snippet})
	}
	return out, rows.Err()
}
