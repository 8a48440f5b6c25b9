// Package textenc turns raw file bytes into text for the parser.
//
// Input is read as UTF-8. Files that are not valid UTF-8 get exactly one
// retry as Mac OS Roman, which is what old desktop genealogy exports tend
// to use. There is no further detection.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Fallback names the encoding tried when the input is not UTF-8.
type Fallback string

const (
	FallbackMacintosh Fallback = "macintosh"
	FallbackNone      Fallback = "none"
)

// Encoding is the encoding a Decode call actually used.
type Encoding string

const (
	UTF8      Encoding = "utf-8"
	Macintosh Encoding = "macintosh"
)

var ErrUndecodable = errors.New("textenc: input is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as a string together with the encoding used.
func Decode(data []byte, fallback Fallback) (string, Encoding, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), UTF8, nil
	}
	if fallback != FallbackMacintosh {
		return "", "", ErrUndecodable
	}
	out, err := charmap.Macintosh.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("textenc: decode %s: %w", Macintosh, err)
	}
	return string(out), Macintosh, nil
}
