// Copyright Align Security Inc., 2026. All rights reserved.

// Package rank scores candidate papers against a structured query and
// orders them by relevance. Scoring is purely lexical: no network calls,
// no randomness, byte-identical output for identical input.
package rank

import (
	"sort"
	"strings"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// Weights for the two match fractions. Title matches count more than
// summary matches.
const (
	titleWeight   = 0.6
	summaryWeight = 0.4
)

// Score computes the relevance of one candidate to the query. Each search
// term is matched case-insensitively as a substring of the normalized
// title and summary; the score is the weighted sum of the two match
// fractions, clamped to [0, 1]. A missing title or summary scores as an
// empty string rather than failing. With no search terms the candidate is
// neither relevant nor irrelevant, so Score returns 0.5.
func Score(query types.ParsedQuery, candidate types.PaperCandidate) float64 {
	if len(query.SearchTerms) == 0 {
		return 0.5
	}

	title := normalize(candidate.Title)
	summary := normalize(candidate.Summary)

	titleMatches := 0
	summaryMatches := 0
	for _, term := range query.SearchTerms {
		t := normalize(term)
		if t == "" {
			continue
		}
		if strings.Contains(title, t) {
			titleMatches++
		}
		if strings.Contains(summary, t) {
			summaryMatches++
		}
	}

	total := float64(len(query.SearchTerms))
	score := titleWeight*float64(titleMatches)/total + summaryWeight*float64(summaryMatches)/total
	return clamp(score)
}

// Rank scores every candidate and returns them ordered by descending
// relevance. The sort is stable: candidates with equal scores keep their
// repository-returned relative order. No candidate is dropped, including
// those scoring 0.0; truncation is the caller's decision.
func Rank(query types.ParsedQuery, candidates []types.PaperCandidate) []types.ScoredPaper {
	scored := make([]types.ScoredPaper, len(candidates))
	for i, c := range candidates {
		scored[i] = types.ScoredPaper{
			PaperCandidate: c,
			RelevanceScore: Score(query, c),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

// normalize lowercases s and collapses internal whitespace so that terms
// spanning a line break in the source text still match.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
