// Package gedcom splits lineage-linked genealogy text into records, classifies
// them by cross-reference id and resolves family spouse surnames.
package gedcom

// HeaderID is the sentinel id given to the header pseudo-record.
const HeaderID = "HEAD"

// Placeholder values written by the name normalizer and the family resolver.
const (
	UnknownName  = "?"
	NoSpouseTag  = "noTAG"
	NoIndividual = "noINDI"
)

// RawRecord is one (cross-reference id, body) pair produced by Split.
type RawRecord struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Individual is an INDI record with its decomposed name.
type Individual struct {
	ID          string `json:"id"`
	GivenName   string `json:"given_name"`
	Surname     string `json:"surname"`
	DisplayName string `json:"display_name"`
	Body        string `json:"body"`
}

// Family is a FAM record annotated with the surnames of both spouses.
type Family struct {
	ID             string `json:"id"`
	HusbandSurname string `json:"husband_surname"`
	WifeSurname    string `json:"wife_surname"`
	Body           string `json:"body"`
}

// GeneralRecord is a source or any other record without further structure.
type GeneralRecord struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// SurnameIndex maps an individual id to its resolved surname.
type SurnameIndex map[string]string

// ResultSet holds the four insertion-ordered collections of one parse.
type ResultSet struct {
	Families    []Family        `json:"families"`
	Individuals []Individual    `json:"individuals"`
	Sources     []GeneralRecord `json:"sources"`
	Others      []GeneralRecord `json:"others"`
}

// Counts is a per-bin record count.
type Counts struct {
	Families    int `json:"families"`
	Individuals int `json:"individuals"`
	Sources     int `json:"sources"`
	Others      int `json:"others"`
}

// Counts returns the size of every bin.
func (rs *ResultSet) Counts() Counts {
	return Counts{
		Families:    len(rs.Families),
		Individuals: len(rs.Individuals),
		Sources:     len(rs.Sources),
		Others:      len(rs.Others),
	}
}

// Len returns the total number of records across all bins.
func (rs *ResultSet) Len() int {
	c := rs.Counts()
	return c.Families + c.Individuals + c.Sources + c.Others
}
