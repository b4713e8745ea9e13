package sbom

import (
	"strings"

	"github.com/tratzlaff/sbomgen/pkg/deps"
	errs "github.com/tratzlaff/sbomgen/pkg/errors"
)

const hexDigits = "0123456789ABCDEF"

// ElementID derives the document-unique identifier of the package element
// for c: escape(group) + ":" + escape(name) + ":" + escape(version).
//
// Bytes outside [A-Za-z0-9._-] are percent-encoded as %XX. Because '%' and
// ':' are themselves encoded, the mapping is injective: distinct coordinates
// never share an identifier, and the separators are unambiguous.
//
// Returns an INVALID_COORDINATE error if any field is empty or not valid
// UTF-8. Length and control characters are not restricted.
func ElementID(c deps.Coordinate) (string, error) {
	fields := [...]struct{ name, value string }{
		{"group", c.Group},
		{"name", c.Name},
		{"version", c.Version},
	}

	var b strings.Builder
	for i, f := range fields {
		if err := errs.ValidateCoordinateField(f.name, f.value); err != nil {
			return "", errs.New(errs.ErrCodeInvalidCoordinate, "coordinate %q: %s", c.String(), errs.UserMessage(err))
		}
		if i > 0 {
			b.WriteByte(':')
		}
		escapeTo(&b, f.value)
	}
	return b.String(), nil
}

// Escape percent-encodes every byte of s outside the identifier alphabet.
func Escape(s string) string {
	var b strings.Builder
	escapeTo(&b, s)
	return b.String()
}

func escapeTo(b *strings.Builder, s string) {
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isIDByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0F])
	}
}

func isIDByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.', c == '-', c == '_':
		return true
	}
	return false
}
