// Copyright Align Security Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the arxiv-mcp pipeline:
// the structured query produced by the compiler, the candidate papers returned
// by the find_papers tool, and the scored papers handed back to the caller.
package types

// PaperCandidate is a single paper as returned by the find_papers tool.
// Title and summary may be empty when arXiv omits them; they are never
// treated as absent. Values are immutable once received from the tool.
type PaperCandidate struct {
	// Title is the paper title with internal whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract with internal whitespace collapsed.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in arXiv order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published and Updated are RFC 3339 timestamps as reported by arXiv.
	Published string `json:"published" yaml:"published"`
	Updated   string `json:"updated" yaml:"updated"`

	// ArxivID is the repository identifier (e.g. "2301.07041").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// URL is the abstract page for the paper.
	URL string `json:"url" yaml:"url"`

	// Categories lists the arXiv category terms (e.g. "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`
}

// ScoredPaper is a PaperCandidate plus its computed relevance score.
// Created only by the ranker and never mutated afterwards.
type ScoredPaper struct {
	PaperCandidate `yaml:",inline"`

	// RelevanceScore is a value in [0.0, 1.0] measuring lexical overlap
	// between the query's search terms and the paper's title and summary.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
