package utils

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldToken lowercases s and strips combining marks, so "Café" becomes
// "cafe". Tokens that cannot be transformed are returned unchanged.
func FoldToken(s string) string {
	// Transformers keep state; build a fresh chain per call.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(strip, s)
	if err != nil {
		return s
	}
	return cases.Lower(language.Und).String(folded)
}
