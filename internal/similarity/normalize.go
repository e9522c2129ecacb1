package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks, and recomposes,
// turning "José" into "Jose".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a text value for comparison: lower-case, strip
// diacritics, drop everything that is not a letter, digit, or whitespace,
// collapse whitespace runs, and trim. It is pure, total, and idempotent;
// an empty input yields an empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		// Malformed input degrades to the lowered form, never to an error
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		}
		// Punctuation and symbols are dropped
	}

	return strings.TrimSpace(b.String())
}
