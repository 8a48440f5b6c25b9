package gedcom

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_SampleTree(t *testing.T) {
	rs, err := Parse(sampleTree)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(rs.Individuals) != 2 {
		t.Fatalf("individuals = %+v", rs.Individuals)
	}
	if rs.Individuals[0].ID != "I1" || rs.Individuals[0].DisplayName != "Smith John " {
		t.Errorf("individual[0] = %+v", rs.Individuals[0])
	}
	if rs.Individuals[1].ID != "I2" || rs.Individuals[1].DisplayName != "Doe Jane " {
		t.Errorf("individual[1] = %+v", rs.Individuals[1])
	}

	if len(rs.Families) != 1 {
		t.Fatalf("families = %+v", rs.Families)
	}
	f := rs.Families[0]
	if f.ID != "F1" || f.HusbandSurname != "Smith" || f.WifeSurname != "Doe" {
		t.Errorf("family = %+v", f)
	}

	if len(rs.Sources) != 1 || rs.Sources[0].ID != "S1" || !strings.Contains(rs.Sources[0].Body, "1 TITL Source One") {
		t.Errorf("sources = %+v", rs.Sources)
	}

	wantOthers := []GeneralRecord{
		{ID: "HEAD", Body: "1 GEDC\n2 VERS 7.0\n"},
		{ID: "N1", Body: "SNOTE Shared note 1\n0 TRLR"},
	}
	if !reflect.DeepEqual(rs.Others, wantOthers) {
		t.Errorf("others = %+v, want %+v", rs.Others, wantOthers)
	}
}

func TestParse_MalformedHeader(t *testing.T) {
	rs, err := Parse("1 GEDC\n0 @I1@ INDI\n1 NAME A /B/\n")
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("err = %v, want ErrMalformedHeader", err)
	}
	if rs != nil {
		t.Errorf("result = %+v, want nil", rs)
	}
}

func TestParse_FailureLeavesPreviousResult(t *testing.T) {
	current, err := Parse(sampleTree)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := *current

	if next, err := Parse("garbage"); err == nil {
		current = next
	}
	if !reflect.DeepEqual(*current, snapshot) {
		t.Error("previous result changed after failed parse")
	}
}

func TestParse_NoDelimiterName(t *testing.T) {
	text := "0 HEAD\n1 GEDC\n0 @I7@ INDI\n1 NAME Madonna\n0 @F1@ FAM\n1 WIFE @I7@\n0 TRLR"
	rs, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Individuals[0].DisplayName != "? Madonna" {
		t.Errorf("display = %q", rs.Individuals[0].DisplayName)
	}
	if rs.Families[0].WifeSurname != "?" || rs.Families[0].HusbandSurname != "noTAG" {
		t.Errorf("family = %+v", rs.Families[0])
	}
}

func TestParse_UnnamedIndividualNotIndexed(t *testing.T) {
	text := "0 HEAD\n1 GEDC\n0 @I1@ INDI\n1 SEX F\n0 @F1@ FAM\n1 WIFE @I1@\n0 TRLR"
	rs, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Individuals[0].DisplayName != "?" {
		t.Errorf("display = %q", rs.Individuals[0].DisplayName)
	}
	if rs.Families[0].WifeSurname != "noINDI" {
		t.Errorf("wife = %q, want noINDI", rs.Families[0].WifeSurname)
	}
}

func TestParse_FamilyBeforeIndividuals(t *testing.T) {
	text := "0 HEAD\n1 GEDC\n0 @F1@ FAM\n1 HUSB @I1@\n0 @I1@ INDI\n1 NAME Al /Late/\n0 TRLR"
	rs, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Families[0].HusbandSurname != "Late" {
		t.Errorf("husband = %q, want Late", rs.Families[0].HusbandSurname)
	}
}

func TestParse_DuplicateIDsAreAppended(t *testing.T) {
	text := "0 HEAD\n1 GEDC\n0 @I1@ INDI\n1 NAME A /One/\n0 @I1@ INDI\n1 NAME B /Two/\n0 @F1@ FAM\n1 HUSB @I1@\n0 TRLR"
	rs, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Individuals) != 2 {
		t.Fatalf("individuals = %d, want 2", len(rs.Individuals))
	}
	if rs.Families[0].HusbandSurname != "Two" {
		t.Errorf("husband = %q, want the later duplicate", rs.Families[0].HusbandSurname)
	}
}

func TestParse_UnknownPrefixGoesToOthers(t *testing.T) {
	text := "0 HEAD\n1 GEDC\n0 @R1@ REPO\n1 NAME Archive\n0 @i1@ INDI\n1 NAME lower /case/\n0 TRLR"
	rs, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Individuals) != 0 {
		t.Errorf("individuals = %+v, classification is case sensitive", rs.Individuals)
	}
	if len(rs.Others) != 3 {
		t.Errorf("others = %d, want 3", len(rs.Others))
	}
}

func TestParse_CountsMatchBoundaries(t *testing.T) {
	rs, err := Parse(sampleTree)
	if err != nil {
		t.Fatal(err)
	}
	boundaries := strings.Count(sampleTree, "0 @")
	// Header pseudo-record plus one record per boundary; the trailer is absorbed.
	if rs.Len() != boundaries+1 {
		t.Errorf("total = %d, want %d", rs.Len(), boundaries+1)
	}

	seen := map[string]int{}
	for _, f := range rs.Families {
		seen[f.ID]++
	}
	for _, i := range rs.Individuals {
		seen[i.ID]++
	}
	for _, s := range rs.Sources {
		seen[s.ID]++
	}
	for _, o := range rs.Others {
		seen[o.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %s appears in %d bins", id, n)
		}
	}
}

func TestParse_Idempotent(t *testing.T) {
	recs, err := Split(sampleTree)
	if err != nil {
		t.Fatal(err)
	}
	first, err := Parse(sampleTree)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(Join(recs))
	if err != nil {
		t.Fatalf("Parse(Join): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reparse differs:\n%+v\n%+v", first, second)
	}
}

func TestResultSet_Counts(t *testing.T) {
	rs, _ := Parse(sampleTree)
	c := rs.Counts()
	if c != (Counts{Families: 1, Individuals: 2, Sources: 1, Others: 2}) {
		t.Errorf("counts = %+v", c)
	}
}
