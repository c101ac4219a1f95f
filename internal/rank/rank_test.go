// Copyright Align Security Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"reflect"
	"testing"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

func query(terms ...string) types.ParsedQuery {
	return types.ParsedQuery{SearchTerms: terms, MaxResults: 10}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		query     types.ParsedQuery
		candidate types.PaperCandidate
		want      float64
	}{
		{
			name:      "no terms match",
			query:     query("quantum", "computing"),
			candidate: types.PaperCandidate{Title: "Birdsong acoustics", Summary: "A field study."},
			want:      0.0,
		},
		{
			name:      "all terms in title only",
			query:     query("quantum", "computing"),
			candidate: types.PaperCandidate{Title: "Quantum Computing Advances", Summary: "Nothing relevant here."},
			want:      0.6,
		},
		{
			name:      "all terms in summary only",
			query:     query("quantum", "computing"),
			candidate: types.PaperCandidate{Title: "Recent Advances", Summary: "We survey quantum computing."},
			want:      0.4,
		},
		{
			name:      "all terms everywhere",
			query:     query("quantum", "computing"),
			candidate: types.PaperCandidate{Title: "Quantum Computing", Summary: "About quantum computing."},
			want:      1.0,
		},
		{
			name:      "half the terms in title",
			query:     query("quantum", "computing"),
			candidate: types.PaperCandidate{Title: "Quantum Error Correction", Summary: ""},
			want:      0.3,
		},
		{
			name:      "matching is case-insensitive",
			query:     query("BERT"),
			candidate: types.PaperCandidate{Title: "Improvements to bert pretraining", Summary: ""},
			want:      0.6,
		},
		{
			name:      "multi-word term matches as substring",
			query:     query("red teaming"),
			candidate: types.PaperCandidate{Title: "Red Teaming Language Models", Summary: ""},
			want:      0.6,
		},
		{
			name:      "empty title and summary score zero",
			query:     query("quantum"),
			candidate: types.PaperCandidate{},
			want:      0.0,
		},
		{
			name:      "no search terms is neutral",
			query:     types.ParsedQuery{},
			candidate: types.PaperCandidate{Title: "Anything"},
			want:      0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.query, tt.candidate)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScoreInRange(t *testing.T) {
	candidates := []types.PaperCandidate{
		{Title: "Quantum Computing", Summary: "quantum computing quantum computing"},
		{Title: "", Summary: ""},
		{Title: "quantum", Summary: "computing"},
	}
	q := query("quantum", "computing", "qubits")
	for _, c := range candidates {
		s := Score(q, c)
		if s < 0.0 || s > 1.0 {
			t.Errorf("Score(%q) = %f, want value in [0,1]", c.Title, s)
		}
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	q := query("quantum", "computing")
	candidates := []types.PaperCandidate{
		{ArxivID: "1", Title: "Birdsong acoustics", Summary: "Nothing relevant."},
		{ArxivID: "2", Title: "Quantum Computing", Summary: "About quantum computing."},
		{ArxivID: "3", Title: "Quantum Error Correction", Summary: "Discusses computing."},
	}

	ranked := Rank(q, candidates)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}

	wantOrder := []string{"2", "3", "1"}
	for i, want := range wantOrder {
		if ranked[i].ArxivID != want {
			t.Errorf("ranked[%d].ArxivID = %s, want %s", i, ranked[i].ArxivID, want)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].RelevanceScore > ranked[i-1].RelevanceScore {
			t.Errorf("ranked[%d] score %f exceeds ranked[%d] score %f",
				i, ranked[i].RelevanceScore, i-1, ranked[i-1].RelevanceScore)
		}
	}
}

func TestRankStableTieBreak(t *testing.T) {
	q := query("quantum")
	// Both score 0.6: term in title, not in summary.
	candidates := []types.PaperCandidate{
		{ArxivID: "first", Title: "Quantum Widgets", Summary: "widgets"},
		{ArxivID: "second", Title: "Quantum Gadgets", Summary: "gadgets"},
	}

	ranked := Rank(q, candidates)
	if ranked[0].ArxivID != "first" || ranked[1].ArxivID != "second" {
		t.Errorf("equal scores must keep original order, got %s then %s",
			ranked[0].ArxivID, ranked[1].ArxivID)
	}
}

func TestRankKeepsZeroScoreCandidates(t *testing.T) {
	q := query("quantum")
	candidates := []types.PaperCandidate{
		{ArxivID: "1", Title: "Nothing here"},
		{ArxivID: "2", Title: "Also nothing"},
	}

	ranked := Rank(q, candidates)
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2: zero-score candidates must not be dropped", len(ranked))
	}
	for _, p := range ranked {
		if p.RelevanceScore != 0.0 {
			t.Errorf("score = %f, want 0.0", p.RelevanceScore)
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	q := query("quantum", "computing")
	candidates := []types.PaperCandidate{
		{ArxivID: "1", Title: "Quantum Computing", Summary: "quantum"},
		{ArxivID: "2", Title: "Classical Algorithms", Summary: "computing"},
		{ArxivID: "3", Title: "Quantum Chemistry", Summary: "quantum computing"},
	}

	a := Rank(q, candidates)
	b := Rank(q, candidates)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Rank is not deterministic:\n%v\n%v", a, b)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	q := query("quantum")
	candidates := []types.PaperCandidate{
		{ArxivID: "1", Title: "Nothing"},
		{ArxivID: "2", Title: "Quantum"},
	}

	Rank(q, candidates)
	if candidates[0].ArxivID != "1" || candidates[1].ArxivID != "2" {
		t.Error("Rank reordered its input slice")
	}
}
