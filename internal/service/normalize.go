package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes characters (NFD) and removes the combining marks,
// so "Séville" and "Seville" normalize to the same token.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCity reduces free-text city input to a matchable token:
// text before the first comma, trimmed, lowercased, accents stripped, and all
// characters other than letters and spaces removed.
//
// The function is idempotent: NormalizeCity(NormalizeCity(x)) == NormalizeCity(x).
func NormalizeCity(raw string) string {
	s := cityBeforeComma(raw)
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// cityBeforeComma returns the trimmed text before the first comma, dropping a
// trailing ", Country" qualifier ("Casablanca, Maroc" → "Casablanca").
func cityBeforeComma(raw string) string {
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// cityMatchTerms returns the substring-match terms for a city input: the
// normalized token plus the raw pre-comma text when it differs. Both are
// matched case-insensitively against destination names, so an accented DB
// name still matches the accented user input even though the normalized
// token has its accents stripped.
func cityMatchTerms(raw string) []string {
	normalized := NormalizeCity(raw)
	pre := cityBeforeComma(raw)

	terms := []string{normalized}
	if pre != "" && !strings.EqualFold(pre, normalized) {
		terms = append(terms, pre)
	}
	return terms
}
