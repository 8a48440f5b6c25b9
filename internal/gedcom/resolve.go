package gedcom

const (
	husbandTag    = "1 HUSB "
	wifeTag       = "1 WIFE "
	xrefDelimiter = "@"
)

// ResolveFamilies returns a copy of families with both spouse surnames looked
// up in idx. It must run after every individual has been classified.
func ResolveFamilies(families []Family, idx SurnameIndex) []Family {
	if families == nil {
		return nil
	}
	out := make([]Family, len(families))
	for i, f := range families {
		f.HusbandSurname = resolveSpouse(f.Body, husbandTag, idx)
		f.WifeSurname = resolveSpouse(f.Body, wifeTag, idx)
		out[i] = f
	}
	return out
}

func resolveSpouse(body, tag string, idx SurnameIndex) string {
	value, ok := restOfLine(body, tag)
	if !ok {
		return NoSpouseTag
	}
	parts := splitNonEmpty(value, xrefDelimiter)
	if len(parts) == 0 {
		return NoSpouseTag
	}
	surname, ok := idx[parts[0]]
	if !ok {
		return NoIndividual
	}
	return surname
}
