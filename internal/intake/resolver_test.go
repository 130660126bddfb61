package intake

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteflow/internal/domain"
)

func rosterClient(first, last string) domain.Client {
	return domain.Client{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	}
}

func TestResolve_ExactMatchCaseInsensitive(t *testing.T) {
	roster := []domain.Client{
		rosterClient("Sarah", "Johnson"),
		rosterClient("Michael", "Smith"),
	}
	r := NewResolver(0.8)

	match := r.Resolve(ExtractedClient{Name: "sarah johnson"}, roster)

	require.NotNil(t, match.Matched)
	assert.Equal(t, MatchExact, match.MatchType)
	assert.Equal(t, 1.0, match.Confidence)
	assert.Equal(t, "Sarah", match.Matched.FirstName)
}

func TestResolve_FuzzyMatchAboveThreshold(t *testing.T) {
	roster := []domain.Client{
		rosterClient("Sarah", "Johnson"),
		rosterClient("Michael", "Smith"),
	}
	r := NewResolver(0.8)

	// One transposed character: "Sarah Jonhson"
	match := r.Resolve(ExtractedClient{Name: "Sarah Jonhson"}, roster)

	require.NotNil(t, match.Matched)
	assert.Equal(t, MatchFuzzy, match.MatchType)
	assert.Equal(t, "Johnson", match.Matched.LastName)
	assert.Greater(t, match.Confidence, 0.8)
	assert.Less(t, match.Confidence, 1.0)
}

func TestResolve_NoMatchBelowThreshold(t *testing.T) {
	roster := []domain.Client{
		rosterClient("Sarah", "Johnson"),
	}
	r := NewResolver(0.8)

	match := r.Resolve(ExtractedClient{Name: "Gregory Houseman"}, roster)

	assert.Nil(t, match.Matched)
	assert.Equal(t, MatchNone, match.MatchType)
	assert.Zero(t, match.Confidence)
}

func TestResolve_PicksBestFuzzyCandidate(t *testing.T) {
	roster := []domain.Client{
		rosterClient("Jon", "Smith"),
		rosterClient("John", "Smith"),
	}
	r := NewResolver(0.8)

	match := r.Resolve(ExtractedClient{Name: "John Smith"}, roster)

	require.NotNil(t, match.Matched)
	// Exact tier wins before fuzzy scoring even runs.
	assert.Equal(t, MatchExact, match.MatchType)
	assert.Equal(t, "John", match.Matched.FirstName)
}

func TestResolve_ThresholdIsExclusive(t *testing.T) {
	roster := []domain.Client{rosterClient("Ab", "Cd")}
	r := NewResolver(0.8)

	// "Ab Cx" vs "Ab Cd": distance 1 over length 5 = exactly 0.8, which
	// does not clear a strictly-greater-than threshold.
	match := r.Resolve(ExtractedClient{Name: "Ab Cx"}, roster)
	assert.Equal(t, MatchNone, match.MatchType)
}

func TestResolve_EmptyRoster(t *testing.T) {
	r := NewResolver(0.8)
	match := r.Resolve(ExtractedClient{Name: "Sarah Johnson"}, nil)
	assert.Equal(t, MatchNone, match.MatchType)
	assert.Nil(t, match.Matched)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Sarah Johnson", "sarah johnson"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abcd", "wxyz"))

	// "kitten" -> "sitting": distance 3, max length 7
	assert.InDelta(t, 4.0/7.0, Similarity("kitten", "sitting"), 1e-9)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("abc", ""))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 1, levenshtein("smith", "smyth"))
}
