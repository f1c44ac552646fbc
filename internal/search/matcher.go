// Package search implements the trip matching and filtering pipeline.
package search

import (
	"strings"
	"unicode"

	"unigo/internal/domain"
)

// Ratio thresholds for MatchesQuery. They compensate for stored place names
// being much shorter than free-text queries and are kept as-is.
const (
	thresholdVeryShortCandidate = 0.1
	thresholdMuchShorter        = 0.2
	thresholdDefault            = 0.5
)

// campusAliases maps a lowercased campus short name to its full name.
var campusAliases = aliasIndex(Universities)

func aliasIndex(list []domain.University) map[string]string {
	m := make(map[string]string, len(list))
	for _, u := range list {
		if u.ShortName != "" {
			m[strings.ToLower(u.ShortName)] = strings.ToLower(u.Name)
		}
	}
	return m
}

// MatchesQuery reports whether a free-text search term refers to the
// candidate address. An empty search term never matches; callers treat an
// empty query as "no constraint" before calling it.
//
// A campus short name on either side ("UIR") is also tried expanded to the
// full university name.
func MatchesQuery(searchTerm, candidateAddress string) bool {
	search := strings.ToLower(strings.TrimSpace(searchTerm))
	candidate := strings.ToLower(strings.TrimSpace(candidateAddress))
	if search == "" {
		return false
	}

	if matchText(search, candidate) {
		return true
	}
	if expanded, ok := expandAliases(candidate); ok && matchText(search, expanded) {
		return true
	}
	if expanded, ok := expandAliases(search); ok && matchText(expanded, candidate) {
		return true
	}
	return false
}

// expandAliases replaces every token that is a campus short name with the
// full name. ok is false when nothing was replaced.
func expandAliases(s string) (string, bool) {
	tokens := tokenize(s)
	replaced := false
	for i, tok := range tokens {
		if full, found := campusAliases[tok]; found {
			tokens[i] = full
			replaced = true
		}
	}
	if !replaced {
		return s, false
	}
	return strings.Join(tokens, " "), true
}

// matchText is the substring, token ratio and flexible match over already
// normalized inputs.
func matchText(search, candidate string) bool {
	if strings.Contains(candidate, search) {
		return true
	}

	searchTokens := make([]string, 0)
	for _, tok := range tokenize(search) {
		if len([]rune(tok)) > 1 {
			searchTokens = append(searchTokens, tok)
		}
	}
	tripTokens := tokenize(candidate)

	matching := 0
	for _, st := range searchTokens {
		for _, tt := range tripTokens {
			if strings.Contains(tt, st) {
				matching++
				break
			}
		}
	}

	if matching == 0 {
		// Flexible match: either side may contain the other.
		for _, st := range searchTokens {
			for _, tt := range tripTokens {
				if strings.Contains(tt, st) || strings.Contains(st, tt) {
					return true
				}
			}
		}
		return false
	}

	ratio := float64(matching) / float64(len(searchTokens))
	return ratio >= matchThreshold(len(tripTokens), len(searchTokens))
}

func matchThreshold(candidateTokens, queryTokens int) float64 {
	switch {
	case candidateTokens <= 2 && queryTokens > 3:
		return thresholdVeryShortCandidate
	case float64(candidateTokens) < float64(queryTokens)/2:
		return thresholdMuchShorter
	default:
		return thresholdDefault
	}
}

// tokenize splits on runs of whitespace, commas, periods and hyphens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '.' || r == '-'
	})
}
