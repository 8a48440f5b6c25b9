package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/gedreader/internal/apperr"
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/models"
)

// FileRow represents a row in the files table.
type FileRow struct {
	Path              string
	Checksum          string
	PublishedChecksum string
	Revision          string
	Encoding          string
	Counts            gedcom.Counts
	ErrorKind         string
	LastError         string
	PublishedAt       time.Time // zero until the first successful parse
	UpdatedAt         time.Time
}

// Published reports whether the file has a result set in the index.
func (r *FileRow) Published() bool { return r.Revision != "" }

// RecordRow is a single stored record of any kind.
type RecordRow struct {
	Path           string
	Kind           string
	Seq            int
	ID             string
	GivenName      string
	Surname        string
	DisplayName    string
	HusbandSurname string
	WifeSurname    string
	Body           string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Kind    string
	ID      string
	Title   string
	Snippet string
}

const fileColumns = `path, checksum, published_checksum, revision, encoding,
	families, individuals, sources, others, error_kind, last_error, published_at, updated_at`

// Publish replaces every record stored for row.Path with rs inside one
// transaction and returns the new revision id. Readers never observe a
// mix of the old and new result sets.
func (db *DB) Publish(row FileRow, rs *gedcom.ResultSet) (string, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	revision := uuid.NewString()
	now := time.Now().UTC()
	c := rs.Counts()

	_, err = tx.Exec(`
		INSERT INTO files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', '', ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum           = excluded.checksum,
			published_checksum = excluded.published_checksum,
			revision           = excluded.revision,
			encoding           = excluded.encoding,
			families           = excluded.families,
			individuals        = excluded.individuals,
			sources            = excluded.sources,
			others             = excluded.others,
			error_kind         = '',
			last_error         = '',
			published_at       = excluded.published_at,
			updated_at         = excluded.updated_at
	`, row.Path, row.Checksum, row.Checksum, revision, row.Encoding,
		c.Families, c.Individuals, c.Sources, c.Others, now, now)
	if err != nil {
		return "", fmt.Errorf("index: upsert file: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM records WHERE path = ?`, row.Path); err != nil {
		return "", fmt.Errorf("index: clear records: %w", err)
	}
	if err := ftsDelete(tx, row.Path); err != nil {
		return "", err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (path, kind, seq, xref, given_name, surname, display_name,
			husband_surname, wife_surname, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("index: prepare record insert: %w", err)
	}
	defer stmt.Close()

	insert := func(r RecordRow) error {
		if _, err := stmt.Exec(row.Path, r.Kind, r.Seq, r.ID, r.GivenName, r.Surname, r.DisplayName,
			r.HusbandSurname, r.WifeSurname, r.Body); err != nil {
			return fmt.Errorf("index: insert %s %s: %w", r.Kind, r.ID, err)
		}
		return ftsInsert(tx, row.Path, r)
	}
	for _, r := range flatten(rs) {
		if err := insert(r); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("index: commit: %w", err)
	}
	return revision, nil
}

func flatten(rs *gedcom.ResultSet) []RecordRow {
	out := make([]RecordRow, 0, rs.Len())
	for i, f := range rs.Families {
		out = append(out, RecordRow{Kind: models.KindFamily, Seq: i, ID: f.ID,
			HusbandSurname: f.HusbandSurname, WifeSurname: f.WifeSurname, Body: f.Body})
	}
	for i, ind := range rs.Individuals {
		out = append(out, RecordRow{Kind: models.KindIndividual, Seq: i, ID: ind.ID,
			GivenName: ind.GivenName, Surname: ind.Surname, DisplayName: ind.DisplayName, Body: ind.Body})
	}
	for i, s := range rs.Sources {
		out = append(out, RecordRow{Kind: models.KindSource, Seq: i, ID: s.ID, Body: s.Body})
	}
	for i, o := range rs.Others {
		out = append(out, RecordRow{Kind: models.KindOther, Seq: i, ID: o.ID, Body: o.Body})
	}
	return out
}

// MarkFailed records a failed parse of path. The published records and
// revision are left as they were.
func (db *DB) MarkFailed(path, checksum, kind, reason string) error {
	_, err := db.conn.Exec(`
		INSERT INTO files (path, checksum, error_kind, last_error, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			error_kind = excluded.error_kind,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`, path, checksum, kind, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("index: mark failed: %w", err)
	}
	return nil
}

// DeleteFile removes a file row and all of its records.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete records: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete file: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a file, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the stored checksum of every indexed path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(s rowScanner) (*FileRow, error) {
	var r FileRow
	var published sql.NullTime
	if err := s.Scan(&r.Path, &r.Checksum, &r.PublishedChecksum, &r.Revision, &r.Encoding,
		&r.Counts.Families, &r.Counts.Individuals, &r.Counts.Sources, &r.Counts.Others,
		&r.ErrorKind, &r.LastError, &published, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if published.Valid {
		r.PublishedAt = published.Time
	}
	return &r, nil
}

// GetFile returns the file row for path or apperr.ErrNotFound.
func (db *DB) GetFile(path string) (*FileRow, error) {
	r, err := scanFile(db.conn.QueryRow(`SELECT `+fileColumns+` FROM files WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	return r, nil
}

// ListFiles returns every file row ordered by path.
func (db *DB) ListFiles() ([]FileRow, error) {
	rows, err := db.conn.Query(`SELECT ` + fileColumns + ` FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		r, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Individuals returns the individuals of path in insertion order.
func (db *DB) Individuals(path string) ([]gedcom.Individual, error) {
	rows, err := db.conn.Query(`
		SELECT xref, given_name, surname, display_name, body
		FROM records WHERE path = ? AND kind = ? ORDER BY seq`, path, models.KindIndividual)
	if err != nil {
		return nil, fmt.Errorf("index: individuals: %w", err)
	}
	defer rows.Close()

	var out []gedcom.Individual
	for rows.Next() {
		var i gedcom.Individual
		if err := rows.Scan(&i.ID, &i.GivenName, &i.Surname, &i.DisplayName, &i.Body); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Families returns the families of path in insertion order.
func (db *DB) Families(path string) ([]gedcom.Family, error) {
	rows, err := db.conn.Query(`
		SELECT xref, husband_surname, wife_surname, body
		FROM records WHERE path = ? AND kind = ? ORDER BY seq`, path, models.KindFamily)
	if err != nil {
		return nil, fmt.Errorf("index: families: %w", err)
	}
	defer rows.Close()

	var out []gedcom.Family
	for rows.Next() {
		var f gedcom.Family
		if err := rows.Scan(&f.ID, &f.HusbandSurname, &f.WifeSurname, &f.Body); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// General returns the source or other records of path in insertion order.
func (db *DB) General(path, kind string) ([]gedcom.GeneralRecord, error) {
	if kind != models.KindSource && kind != models.KindOther {
		return nil, fmt.Errorf("index: %q is not a general record kind", kind)
	}
	rows, err := db.conn.Query(`
		SELECT xref, body FROM records WHERE path = ? AND kind = ? ORDER BY seq`, path, kind)
	if err != nil {
		return nil, fmt.Errorf("index: %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []gedcom.GeneralRecord
	for rows.Next() {
		var g gedcom.GeneralRecord
		if err := rows.Scan(&g.ID, &g.Body); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ResultSet rebuilds the published result set of path.
func (db *DB) ResultSet(path string) (*gedcom.ResultSet, error) {
	if _, err := db.GetFile(path); err != nil {
		return nil, err
	}
	var rs gedcom.ResultSet
	var err error
	if rs.Families, err = db.Families(path); err != nil {
		return nil, err
	}
	if rs.Individuals, err = db.Individuals(path); err != nil {
		return nil, err
	}
	if rs.Sources, err = db.General(path, models.KindSource); err != nil {
		return nil, err
	}
	if rs.Others, err = db.General(path, models.KindOther); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Record returns the first stored record of path with the given id.
func (db *DB) Record(path, xref string) (*RecordRow, error) {
	var r RecordRow
	err := db.conn.QueryRow(`
		SELECT path, kind, seq, xref, given_name, surname, display_name,
		       husband_surname, wife_surname, body
		FROM records WHERE path = ? AND xref = ?
		ORDER BY rowid LIMIT 1`, path, xref).
		Scan(&r.Path, &r.Kind, &r.Seq, &r.ID, &r.GivenName, &r.Surname, &r.DisplayName,
			&r.HusbandSurname, &r.WifeSurname, &r.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: record: %w", err)
	}
	return &r, nil
}

// searchTitle is what a hit is labelled with in results.
func searchTitle(r RecordRow) string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.ID
}
