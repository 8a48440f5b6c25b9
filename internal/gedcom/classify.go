package gedcom

// Classify routes every record into one of the four bins by the first
// character of its id and builds the SurnameIndex for individuals.
// Families come back unresolved; see ResolveFamilies.
func Classify(records []RawRecord) (*ResultSet, SurnameIndex) {
	rs := &ResultSet{}
	idx := make(SurnameIndex)
	for _, r := range records {
		classifyRecord(rs, idx, r)
	}
	return rs, idx
}

func classifyRecord(rs *ResultSet, idx SurnameIndex, r RawRecord) {
	var tag byte
	if r.ID != "" {
		tag = r.ID[0]
	}
	switch tag {
	case 'F':
		rs.Families = append(rs.Families, Family{
			ID:             r.ID,
			HusbandSurname: UnknownName,
			WifeSurname:    UnknownName,
			Body:           r.Body,
		})
	case 'I':
		n := NormalizeName(r.Body)
		if n.Indexed {
			idx[r.ID] = n.Surname
		}
		rs.Individuals = append(rs.Individuals, Individual{
			ID:          r.ID,
			GivenName:   n.Given,
			Surname:     n.Surname,
			DisplayName: n.Display,
			Body:        r.Body,
		})
	case 'S':
		rs.Sources = append(rs.Sources, GeneralRecord{ID: r.ID, Body: r.Body})
	default:
		rs.Others = append(rs.Others, GeneralRecord{ID: r.ID, Body: r.Body})
	}
}
