package collation

import (
	"testing"

	"github.com/starford/gedreader/internal/gedcom"
)

func TestCompare_Numeric(t *testing.T) {
	if Compare("I2", "I10") >= 0 {
		t.Error("I2 should sort before I10")
	}
	if Compare("F10", "F9") <= 0 {
		t.Error("F10 should sort after F9")
	}
}

func TestCompare_IgnoreCase(t *testing.T) {
	if Compare("smith", "Smith") != 0 {
		t.Error("case should be ignored")
	}
	if Compare("adams", "Baker") >= 0 {
		t.Error("adams should sort before Baker")
	}
}

func TestParseKey(t *testing.T) {
	for _, s := range []string{"", "id", "name"} {
		if _, err := ParseKey(s); err != nil {
			t.Errorf("ParseKey(%q): %v", s, err)
		}
	}
	if _, err := ParseKey("surname"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSortIndividuals(t *testing.T) {
	in := []gedcom.Individual{
		{ID: "I10", DisplayName: "Adams Zoe "},
		{ID: "I2", DisplayName: "Carter Al "},
		{ID: "I1", DisplayName: "baker Bo "},
	}

	byID := SortIndividuals(in, ByID)
	if byID[0].ID != "I1" || byID[1].ID != "I2" || byID[2].ID != "I10" {
		t.Errorf("by id = %v", ids(byID))
	}

	byName := SortIndividuals(in, ByName)
	if byName[0].ID != "I10" || byName[1].ID != "I1" || byName[2].ID != "I2" {
		t.Errorf("by name = %v", ids(byName))
	}

	if in[0].ID != "I10" {
		t.Error("input slice was reordered")
	}
	kept := SortIndividuals(in, Insertion)
	if kept[0].ID != "I10" || kept[2].ID != "I1" {
		t.Errorf("insertion = %v", ids(kept))
	}
}

func TestSortFamiliesAndGeneral(t *testing.T) {
	fams := SortFamilies([]gedcom.Family{{ID: "F11"}, {ID: "F3"}}, ByID)
	if fams[0].ID != "F3" {
		t.Errorf("families = %+v", fams)
	}
	gen := SortGeneral([]gedcom.GeneralRecord{{ID: "S20"}, {ID: "S100"}, {ID: "S3"}}, ByName)
	if gen[0].ID != "S3" || gen[2].ID != "S100" {
		t.Errorf("general = %+v", gen)
	}
}

func ids(list []gedcom.Individual) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = v.ID
	}
	return out
}
