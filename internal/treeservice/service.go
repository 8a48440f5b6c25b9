// Package treeservice coordinates the library directory, the parser and
// the index.
package treeservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/starford/gedreader/internal/apperr"
	"github.com/starford/gedreader/internal/collation"
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/index"
	"github.com/starford/gedreader/internal/models"
	"github.com/starford/gedreader/internal/storage"
	"github.com/starford/gedreader/internal/textenc"
)

// TreeError describes the last failed parse of a tree.
type TreeError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// TreeSummary is a lightweight item in a list response.
type TreeSummary struct {
	Path        string        `json:"path"`
	Checksum    string        `json:"checksum"`
	Revision    string        `json:"revision,omitempty"`
	Encoding    string        `json:"encoding,omitempty"`
	Counts      gedcom.Counts `json:"counts"`
	Error       *TreeError    `json:"error,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TreeDetail is a tree with its full published result set.
type TreeDetail struct {
	TreeSummary
	Records *gedcom.ResultSet `json:"records"`
}

// ParseResult is the outcome of a stateless parse.
type ParseResult struct {
	Encoding textenc.Encoding  `json:"encoding"`
	Counts   gedcom.Counts     `json:"counts"`
	Records  *gedcom.ResultSet `json:"records"`
}

// Service coordinates storage and index operations.
type Service struct {
	store    storage.Provider
	db       index.TreeIndex
	fallback textenc.Fallback
}

// NewService creates a new tree service.
func NewService(store storage.Provider, db index.TreeIndex, fallback textenc.Fallback) *Service {
	return &Service{store: store, db: db, fallback: fallback}
}

// Process decodes and parses data without touching storage or the index.
func (s *Service) Process(data []byte) (*gedcom.ResultSet, textenc.Encoding, error) {
	text, enc, err := textenc.Decode(data, s.fallback)
	if err != nil {
		return nil, "", err
	}
	rs, err := gedcom.Parse(text)
	if err != nil {
		return nil, enc, err
	}
	return rs, enc, nil
}

// Parse runs the parser over data and returns the result set with its
// individuals ordered by key.
func (s *Service) Parse(_ context.Context, data []byte, key collation.Key) (*ParseResult, error) {
	rs, enc, err := s.Process(data)
	if err != nil {
		return nil, err
	}
	rs.Individuals = collation.SortIndividuals(rs.Individuals, key)
	if key != collation.Insertion {
		rs.Families = collation.SortFamilies(rs.Families, key)
		rs.Sources = collation.SortGeneral(rs.Sources, key)
		rs.Others = collation.SortGeneral(rs.Others, key)
	}
	return &ParseResult{Encoding: enc, Counts: rs.Counts(), Records: rs}, nil
}

// Import parses data and, only when the parse succeeds, writes it to path
// and publishes the result set.
func (s *Service) Import(_ context.Context, path string, data []byte) (*TreeDetail, error) {
	if !s.store.Accepts(path) {
		return nil, apperr.ErrUnsupported
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	return s.commit(path, data)
}

// Replace overwrites the tree at path. When ifMatch is non-empty it must
// equal the checksum of the current file content.
func (s *Service) Replace(_ context.Context, path string, data []byte, ifMatch string) (*TreeDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != storage.Checksum(existing) {
		return nil, apperr.ErrConflict
	}
	return s.commit(path, data)
}

func (s *Service) commit(path string, data []byte) (*TreeDetail, error) {
	rs, enc, err := s.Process(data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, data); err != nil {
		return nil, err
	}
	if _, err := s.db.Publish(index.FileRow{
		Path:     path,
		Checksum: storage.Checksum(data),
		Encoding: string(enc),
	}, rs); err != nil {
		return nil, err
	}
	row, err := s.db.GetFile(path)
	if err != nil {
		return nil, err
	}
	return &TreeDetail{TreeSummary: summarize(row), Records: rs}, nil
}

// Delete removes a tree from storage and index.
func (s *Service) Delete(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteFile(path)
}

// ListTrees returns every tree known to the index.
func (s *Service) ListTrees(_ context.Context) ([]TreeSummary, error) {
	rows, err := s.db.ListFiles()
	if err != nil {
		return nil, err
	}
	out := make([]TreeSummary, len(rows))
	for i := range rows {
		out[i] = summarize(&rows[i])
	}
	return out, nil
}

// Tree returns the published result set of path.
func (s *Service) Tree(_ context.Context, path string) (*TreeDetail, error) {
	row, err := s.db.GetFile(path)
	if err != nil {
		return nil, err
	}
	rs, err := s.db.ResultSet(path)
	if err != nil {
		return nil, err
	}
	return &TreeDetail{TreeSummary: summarize(row), Records: rs}, nil
}

// Individuals returns the individuals of path ordered by key.
func (s *Service) Individuals(_ context.Context, path string, key collation.Key) ([]gedcom.Individual, error) {
	if err := s.exists(path); err != nil {
		return nil, err
	}
	list, err := s.db.Individuals(path)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(collation.SortIndividuals(list, key)), nil
}

// Families returns the families of path. Any key other than Insertion
// orders them by id.
func (s *Service) Families(_ context.Context, path string, key collation.Key) ([]gedcom.Family, error) {
	if err := s.exists(path); err != nil {
		return nil, err
	}
	list, err := s.db.Families(path)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(collation.SortFamilies(list, key)), nil
}

// Sources returns the source records of path.
func (s *Service) Sources(_ context.Context, path string, key collation.Key) ([]gedcom.GeneralRecord, error) {
	return s.general(path, models.KindSource, key)
}

// Others returns the records of path that are neither families,
// individuals nor sources, the header included.
func (s *Service) Others(_ context.Context, path string, key collation.Key) ([]gedcom.GeneralRecord, error) {
	return s.general(path, models.KindOther, key)
}

func (s *Service) general(path, kind string, key collation.Key) ([]gedcom.GeneralRecord, error) {
	if err := s.exists(path); err != nil {
		return nil, err
	}
	list, err := s.db.General(path, kind)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(collation.SortGeneral(list, key)), nil
}

// Record returns the first record of path with the given id.
func (s *Service) Record(_ context.Context, path, id string) (*index.RecordRow, error) {
	return s.db.Record(path, id)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

func (s *Service) exists(path string) error {
	_, err := s.db.GetFile(path)
	return err
}

func summarize(row *index.FileRow) TreeSummary {
	sum := TreeSummary{
		Path:      row.Path,
		Checksum:  row.Checksum,
		Revision:  row.Revision,
		Encoding:  row.Encoding,
		Counts:    row.Counts,
		UpdatedAt: row.UpdatedAt,
	}
	if row.LastError != "" {
		sum.Error = &TreeError{Kind: row.ErrorKind, Message: row.LastError}
	}
	if row.Published() {
		t := row.PublishedAt
		sum.PublishedAt = &t
	}
	return sum
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
