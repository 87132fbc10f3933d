package stringutil

import "github.com/hbollon/go-edlib"

// Levenshtein returns the classical edit distance between a and b, delegating
// to go-edlib rather than hand-rolling the DP table.
func Levenshtein(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// BestSuggestion returns the element of pool with the smallest Levenshtein
// distance to candidate that is <= maxDistance, ties broken by first
// occurrence in pool. Returns "", false if nothing in pool qualifies.
func BestSuggestion(candidate string, pool []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1
	found := false
	for _, p := range pool {
		d := Levenshtein(candidate, p)
		if d <= maxDistance && d < bestDist {
			best = p
			bestDist = d
			found = true
		}
	}
	return best, found
}

// SuggestionThreshold returns the adaptive max-distance used when searching
// for a missing-resource suggestion: ceil(len/3) capped at 4.
func SuggestionThreshold(length int) int {
	t := (length + 2) / 3
	if t > 4 {
		t = 4
	}
	if t < 1 {
		t = 1
	}
	return t
}
