package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks,
// so "São" becomes "Sao". A chain carries buffers, so each call gets its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
}

// Slugify converts free text into the canonical lookup key used for states and cities.
// Examples: "São Paulo" -> "sao-paulo", "São ]Paulo" -> "sao-paulo", "Moji-Mirim" -> "moji-mirim".
//
// Whitespace and hyphen runs become a single hyphen, anything outside [a-z0-9-] is dropped,
// and the result never starts or ends with a hyphen. Slugify(Slugify(s)) == Slugify(s).
func Slugify(input string) string {
	decomposed, _, err := transform.String(stripMarks(), input)
	if err != nil {
		decomposed = input
	}
	decomposed = strings.ToLower(decomposed)

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingSep := false
	for _, r := range decomposed {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}
	return b.String()
}
