package gedcom

import "strings"

const (
	nameTag          = "1 NAME "
	surnameDelimiter = "/"
)

// Name is the decomposition of an individual's first NAME line.
// Indexed reports whether Surname belongs in the SurnameIndex.
type Name struct {
	Given   string
	Surname string
	Display string
	Indexed bool
}

// NormalizeName extracts the first level-1 NAME line of body and decomposes
// it into given name, surname and suffix.
//
// Empty segments are dropped before counting, so "/Smith/" is a single
// segment shorter than the raw value and is read as a bare surname, while
// "Madonna" is a single segment equal to the raw value and is read as a
// given name.
func NormalizeName(body string) Name {
	value, ok := restOfLine(body, nameTag)
	if !ok {
		return Name{Display: UnknownName}
	}

	parts := splitNonEmpty(value, surnameDelimiter)
	switch len(parts) {
	case 1:
		if parts[0] == value {
			return Name{
				Given:   parts[0],
				Surname: UnknownName,
				Display: UnknownName + " " + parts[0],
				Indexed: true,
			}
		}
		return Name{
			Surname: parts[0],
			Display: parts[0] + " " + UnknownName,
			Indexed: true,
		}
	case 2:
		given, surname := parts[0], parts[1]
		return Name{
			Given:   given,
			Surname: surname,
			Display: surname + " " + given,
			Indexed: true,
		}
	case 3:
		given, surname, suffix := parts[0], parts[1], parts[2]
		return Name{
			Given:   given,
			Surname: surname,
			Display: surname + " " + given + suffix,
			Indexed: true,
		}
	default:
		return Name{Display: UnknownName}
	}
}

// restOfLine returns the remainder of the first line of body that starts
// with tag. A trailing carriage return is dropped.
func restOfLine(body, tag string) (string, bool) {
	for len(body) > 0 {
		line := body
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			line, body = body[:i], body[i+1:]
		} else {
			body = ""
		}
		if strings.HasPrefix(line, tag) {
			return strings.TrimSuffix(line[len(tag):], "\r"), true
		}
	}
	return "", false
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
