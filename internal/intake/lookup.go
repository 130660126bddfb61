package intake

import (
	"strings"

	"noteflow/internal/domain"
)

// nicknames maps common short forms to their formal equivalents. Both
// directions are consulted during free-text lookup.
var nicknames = map[string]string{
	"chris":  "christopher",
	"mike":   "michael",
	"dave":   "david",
	"bob":    "robert",
	"rob":    "robert",
	"bill":   "william",
	"will":   "william",
	"jim":    "james",
	"joe":    "joseph",
	"rich":   "richard",
	"richie": "richard",
	"tom":    "thomas",
	"tony":   "anthony",
	"beth":   "elizabeth",
	"liz":    "elizabeth",
	"kate":   "katherine",
	"katie":  "katherine",
	"jen":    "jennifer",
	"jenny":  "jennifer",
	"sam":    "samuel",
	"alex":   "alexander",
	"dan":    "daniel",
	"danny":  "daniel",
	"matt":   "matthew",
	"nick":   "nicholas",
	"steve":  "stephen",
	"sue":    "susan",
	"peggy":  "margaret",
	"meg":    "margaret",
}

// LookupByFreeText finds roster clients matching an unstructured name
// query. Every whitespace-separated token of the query must match some
// field of the candidate, either directly (substring, case-insensitive)
// or through its nickname equivalence set. This path is deliberately
// looser than Resolve's edit-distance gate and is reserved for contexts
// with no structured index to rely on.
func LookupByFreeText(query string, roster []domain.Client) []domain.Client {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(tokens) == 0 {
		return nil
	}

	var matches []domain.Client
	for i := range roster {
		fields := []string{
			strings.ToLower(roster[i].FirstName),
			strings.ToLower(roster[i].LastName),
			strings.ToLower(roster[i].FullName()),
		}
		if allTokensMatch(tokens, fields) {
			matches = append(matches, roster[i])
		}
	}
	return matches
}

func allTokensMatch(tokens, fields []string) bool {
	for _, token := range tokens {
		if !tokenMatches(token, fields) {
			return false
		}
	}
	return true
}

func tokenMatches(token string, fields []string) bool {
	for _, variant := range nicknameVariants(token) {
		for _, field := range fields {
			if strings.Contains(field, variant) {
				return true
			}
		}
	}
	return false
}

// nicknameVariants returns the token plus its nickname equivalences in
// both directions (chris → christopher, christopher → chris).
func nicknameVariants(token string) []string {
	variants := []string{token}
	if formal, ok := nicknames[token]; ok {
		variants = append(variants, formal)
	}
	for short, formal := range nicknames {
		if formal == token {
			variants = append(variants, short)
		}
	}
	return variants
}
