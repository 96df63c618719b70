package ruleengine

import (
	"strings"

	"github.com/a1e5ya/smart-finance-planner/internal/models"
)

// Confidence levels for category candidate name matching. An exact
// name match is stronger evidence than any rule, a partial match still
// outranks most of them.
const (
	candidateExactConfidence   = 0.95
	candidatePartialConfidence = 0.8
)

// candidatePartialMinLength guards the partial pass against trivially
// short source values matching inside almost any category name.
const candidatePartialMinLength = 3

// MatchCandidates matches the transaction's preserved source category
// strings against the caller-supplied category candidates. Exact
// case-insensitive name matches are tried across all source fields
// first, then bidirectional substring matches. Subcategory is the most
// specific source field and is checked before category and main
// category. The zero result means no candidate matched.
func MatchCandidates(candidates []models.CategoryCandidate, tx models.NormalizedTransaction) models.CategorizationResult {
	if len(candidates) == 0 {
		return models.CategorizationResult{}
	}

	sourceValues := []string{tx.Source.Subcategory, tx.Source.Category, tx.Source.MainCategory}

	for _, value := range sourceValues {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			continue
		}
		for _, candidate := range candidates {
			if strings.ToLower(candidate.Name) == v {
				return models.CategorizationResult{
					Category:    candidate.Name,
					CategoryID:  candidate.ID,
					Confidence:  candidateExactConfidence,
					MatchedText: value,
				}
			}
		}
	}

	for _, value := range sourceValues {
		v := strings.ToLower(strings.TrimSpace(value))
		if len(v) < candidatePartialMinLength {
			continue
		}
		for _, candidate := range candidates {
			name := strings.ToLower(candidate.Name)
			if name == "" {
				continue
			}
			if strings.Contains(name, v) || strings.Contains(v, name) {
				return models.CategorizationResult{
					Category:    candidate.Name,
					CategoryID:  candidate.ID,
					Confidence:  candidatePartialConfidence,
					MatchedText: value,
				}
			}
		}
	}

	return models.CategorizationResult{}
}
