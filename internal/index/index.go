package index

import "github.com/starford/gedreader/internal/gedcom"

// TreeIndex is the set of index operations the service layer depends on.
type TreeIndex interface {
	Publish(row FileRow, rs *gedcom.ResultSet) (string, error)
	MarkFailed(path, checksum, kind, reason string) error
	DeleteFile(path string) error
	GetChecksum(path string) (string, error)
	GetFile(path string) (*FileRow, error)
	ListFiles() ([]FileRow, error)
	ResultSet(path string) (*gedcom.ResultSet, error)
	Individuals(path string) ([]gedcom.Individual, error)
	Families(path string) ([]gedcom.Family, error)
	General(path, kind string) ([]gedcom.GeneralRecord, error)
	Record(path, xref string) (*RecordRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ TreeIndex = (*DB)(nil)
