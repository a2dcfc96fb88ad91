package squad

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const similarityThreshold = 0.7

// Fold lowercases s and strips accents so "Álvaro" and "alvaro" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ResolveName picks the candidate that best matches query. Exact matches
// after folding win, then the closest substring match, then the closest
// name by edit distance above the similarity threshold.
func ResolveName(query string, candidates []string) (string, bool) {
	q := Fold(query)
	if q == "" {
		return "", false
	}

	folded := make([]string, len(candidates))
	for i, c := range candidates {
		folded[i] = Fold(c)
		if folded[i] == q {
			return c, true
		}
	}

	ranks := fuzzy.RankFind(q, folded)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return candidates[ranks[0].OriginalIndex], true
	}

	best, bestScore := -1, similarityThreshold
	for i, f := range folded {
		distance := fuzzy.LevenshteinDistance(q, f)
		maxLen := float64(max(len(q), len(f)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			best, bestScore = i, similarity
		}
	}
	if best < 0 {
		return "", false
	}
	return candidates[best], true
}
