package classify

import (
	"strings"
	"unicode"
)

// Normalize lowercases the text, replaces every rune that is neither a
// letter, a digit, nor whitespace with a space (Unicode-aware), and
// collapses whitespace runs. Matching then happens on this canonical form,
// which keeps token containment tolerant of punctuation and particles.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// countHits counts how many distinct tokens appear (substring containment)
// in the already-normalized text.
func countHits(normText string, tokens []string) int {
	hits := 0
	for _, t := range tokens {
		tok := Normalize(t)
		if tok == "" {
			continue
		}
		if strings.Contains(normText, tok) {
			hits++
		}
	}
	return hits
}

// fieldScore maps distinct include-token hits in one field onto a saturating
// curve: no hits scores 0, a single hit 0.5, two or more 1.0. The cap keeps
// keyword stuffing from running away with the score.
func fieldScore(normText string, includeTokens []string) float64 {
	if len(includeTokens) == 0 {
		return 0
	}
	switch hits := countHits(normText, includeTokens); {
	case hits <= 0:
		return 0
	case hits == 1:
		return 0.5
	default:
		return 1.0
	}
}
