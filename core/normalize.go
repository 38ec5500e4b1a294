package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizePerson canonicalizes a person name for matching and indexing:
// diacritics are folded, case is lowered, and whitespace runs collapse to a
// single space. "Sophía  AL-FARSI " and "sophia al-farsi" normalize equal.
func NormalizePerson(s string) string {
	// The transform chain is stateful, so build it per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// PersonTokens splits a name (or any text naming persons) into normalized
// tokens. The split is on anything that is not a letter or digit, so
// hyphenated surnames yield their pieces and possessives shed their suffix:
// "Sophía Al-Farsi" and "Sophia's" tokenize to [sophia al farsi] and [sophia].
func PersonTokens(s string) []string {
	return strings.FieldsFunc(NormalizePerson(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
