package gedcom

// Parse splits, classifies and resolves text. On any error no ResultSet is
// returned, so a caller holding a previous result keeps it untouched.
func Parse(text string) (*ResultSet, error) {
	records, err := Split(text)
	if err != nil {
		return nil, err
	}
	rs, idx := Classify(records)
	rs.Families = ResolveFamilies(rs.Families, idx)
	return rs, nil
}
