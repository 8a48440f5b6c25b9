// Package collation orders parsed records for display.
//
// Ids and names compare case-insensitively and numerically, so I2 sorts
// before I10 and "de la Cruz" sits next to "De La Cruz".
package collation

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/starford/gedreader/internal/gedcom"
)

// Key selects the field a list is ordered by.
type Key string

const (
	Insertion Key = ""
	ByID      Key = "id"
	ByName    Key = "name"
)

// ParseKey validates a user-supplied sort key.
func ParseKey(s string) (Key, error) {
	switch k := Key(s); k {
	case Insertion, ByID, ByName:
		return k, nil
	default:
		return Insertion, fmt.Errorf("collation: unknown sort key %q (want id or name)", s)
	}
}

// A Collator keeps scratch buffers and is not safe for concurrent use, so
// every sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
}

// Compare orders two strings the way the sort functions do.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortIndividuals returns a sorted copy. ByName orders by display name,
// which starts with the surname.
func SortIndividuals(in []gedcom.Individual, key Key) []gedcom.Individual {
	out := slices.Clone(in)
	if key == Insertion {
		return out
	}
	c := newCollator()
	field := func(i gedcom.Individual) string {
		if key == ByName {
			return i.DisplayName
		}
		return i.ID
	}
	slices.SortStableFunc(out, func(a, b gedcom.Individual) int {
		return c.CompareString(field(a), field(b))
	})
	return out
}

// SortFamilies returns a copy ordered by id unless key is Insertion.
func SortFamilies(in []gedcom.Family, key Key) []gedcom.Family {
	out := slices.Clone(in)
	if key == Insertion {
		return out
	}
	c := newCollator()
	slices.SortStableFunc(out, func(a, b gedcom.Family) int {
		return c.CompareString(a.ID, b.ID)
	})
	return out
}

// SortGeneral returns a copy ordered by id unless key is Insertion.
func SortGeneral(in []gedcom.GeneralRecord, key Key) []gedcom.GeneralRecord {
	out := slices.Clone(in)
	if key == Insertion {
		return out
	}
	c := newCollator()
	slices.SortStableFunc(out, func(a, b gedcom.GeneralRecord) int {
		return c.CompareString(a.ID, b.ID)
	})
	return out
}
