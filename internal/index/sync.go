package index

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/storage"
	"github.com/starford/gedreader/internal/textenc"
)

// ErrorKindUndecodable marks files that could not be decoded to text.
const ErrorKindUndecodable = "undecodable"

// Outcome describes a successful IndexFile call.
type Outcome struct {
	Path     string
	Revision string
	Encoding textenc.Encoding
	Result   *gedcom.ResultSet
}

// IndexFile decodes and parses data and publishes the result for path.
// When decoding or parsing fails the failure is recorded with MarkFailed,
// the previously published result set stays in place, and the parse error
// is returned.
func IndexFile(db *DB, path string, data []byte, fallback textenc.Fallback) (*Outcome, error) {
	cs := storage.Checksum(data)

	text, enc, err := textenc.Decode(data, fallback)
	if err != nil {
		return nil, rejectFile(db, path, cs, ErrorKindUndecodable, err)
	}

	rs, err := gedcom.Parse(text)
	if err != nil {
		kind := "unknown"
		var pe *gedcom.ParseError
		if errors.As(err, &pe) {
			kind = pe.KindName()
		}
		return nil, rejectFile(db, path, cs, kind, err)
	}

	rev, err := db.Publish(FileRow{Path: path, Checksum: cs, Encoding: string(enc)}, rs)
	if err != nil {
		return nil, err
	}
	return &Outcome{Path: path, Revision: rev, Encoding: enc, Result: rs}, nil
}

func rejectFile(db *DB, path, checksum, kind string, cause error) error {
	if err := db.MarkFailed(path, checksum, kind, cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Rejected reports whether err means the file content itself was refused,
// as opposed to an I/O or database failure.
func Rejected(err error) bool {
	var pe *gedcom.ParseError
	return errors.As(err, &pe) || errors.Is(err, textenc.ErrUndecodable)
}

// Sync walks the library and brings the index up to date:
//   - new/changed files are parsed and published
//   - files removed from disk are deleted from the index
//
// A file that fails to parse keeps its previous result set; the failure is
// logged and recorded, and Sync carries on with the next file.
func Sync(db *DB, store storage.Provider, fallback textenc.Fallback, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return fmt.Errorf("index: sync list: %w", err)
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		out, err := IndexFile(db, m.Path, data, fallback)
		if err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed",
			slog.String("path", m.Path),
			slog.String("revision", out.Revision),
			slog.Int("records", out.Result.Len()))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteFile(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("path", p))
		}
	}

	return nil
}
