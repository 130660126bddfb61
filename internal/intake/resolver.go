package intake

import (
	"strings"

	"noteflow/internal/domain"
)

// Resolver matches extracted client identities against a therapist's
// roster.
type Resolver struct {
	fuzzyThreshold float64
}

// NewResolver creates a Resolver with the given fuzzy-match threshold.
func NewResolver(fuzzyThreshold float64) *Resolver {
	if fuzzyThreshold <= 0 || fuzzyThreshold >= 1 {
		fuzzyThreshold = 0.8
	}
	return &Resolver{fuzzyThreshold: fuzzyThreshold}
}

// Resolve matches an extracted client against the roster. Tier 1 is exact
// case-insensitive full-name equality; tier 2 keeps the highest-similarity
// roster entry above the threshold; otherwise the match is none.
func (r *Resolver) Resolve(extracted ExtractedClient, roster []domain.Client) ClientMatch {
	name := strings.TrimSpace(extracted.Name)

	for i := range roster {
		if strings.EqualFold(roster[i].FullName(), name) {
			return ClientMatch{
				Extracted:  extracted,
				Matched:    &roster[i],
				Confidence: 1.0,
				MatchType:  MatchExact,
			}
		}
	}

	bestScore := 0.0
	var best *domain.Client
	for i := range roster {
		score := Similarity(name, roster[i].FullName())
		if score > bestScore {
			bestScore = score
			best = &roster[i]
		}
	}
	if best != nil && bestScore > r.fuzzyThreshold {
		return ClientMatch{
			Extracted:  extracted,
			Matched:    best,
			Confidence: bestScore,
			MatchType:  MatchFuzzy,
		}
	}

	return ClientMatch{
		Extracted: extracted,
		MatchType: MatchNone,
	}
}

// Similarity computes a normalized case-insensitive edit-distance score in
// [0,1]: (maxLen - levenshtein) / maxLen. Identical strings score 1.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-levenshtein(a, b)) / float64(maxLen)
}

// levenshtein computes the classic edit distance between two strings using
// a two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
