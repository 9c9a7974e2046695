package mining

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode normalization and trims whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	// Collapse internal control characters except newlines.
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// normalizeSectionText applies the corpus-format cleaning: NFKC, trim and
// lowercase.
func normalizeSectionText(text string) string {
	return strings.ToLower(NormalizeText(text))
}
