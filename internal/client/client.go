// Copyright Align Security Inc., 2026. All rights reserved.

// Package client composes the search pipeline: compile the natural-language
// request into a structured query, invoke the paper-search tool over a
// session, and rank what comes back.
package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/align-sec/arxiv-mcp/internal/arxiv"
	"github.com/align-sec/arxiv-mcp/internal/mcp"
	"github.com/align-sec/arxiv-mcp/internal/rank"
	"github.com/align-sec/arxiv-mcp/internal/store"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// Compiler turns a natural-language request into a structured query.
// Satisfied by *compile.Compiler.
type Compiler interface {
	Compile(ctx context.Context, queryText string, referenceTime time.Time) (types.ParsedQuery, error)
}

// Client runs searches end to end.
type Client struct {
	Compiler  Compiler
	Transport mcp.Transport

	// History, when non-nil, records completed searches. Recording
	// failures are reported on Log and never fail the search.
	History *store.Store

	// Log receives progress lines. Defaults to io.Discard.
	Log io.Writer

	// Now supplies the reference time for date validation. Defaults to
	// time.Now.
	Now func() time.Time
}

// Output holds everything one search produced.
type Output struct {
	QueryText string
	Parsed    types.ParsedQuery
	Papers    []types.ScoredPaper
	HistoryID int64
}

// Search runs the full pipeline for one request. The session opened for
// the tool call is always closed before Search returns, on every path.
func (c *Client) Search(ctx context.Context, queryText string) (Output, error) {
	w := c.Log
	if w == nil {
		w = io.Discard
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	out := Output{QueryText: queryText}

	if strings.TrimSpace(queryText) == "" {
		return out, fmt.Errorf("query is empty: describe the papers you are looking for")
	}

	referenceTime := now()

	fmt.Fprintf(w, "compiling query...\n")
	parsed, err := c.Compiler.Compile(ctx, queryText, referenceTime)
	if err != nil {
		return out, fmt.Errorf("compiling query: %w", err)
	}
	out.Parsed = parsed
	fmt.Fprintf(w, "compiled query: terms=%v max_results=%d", parsed.SearchTerms, parsed.MaxResults)
	if parsed.MinDate != "" {
		fmt.Fprintf(w, " min_date=%s", parsed.MinDate)
	}
	fmt.Fprintln(w)

	session, err := c.Transport.Connect(ctx)
	if err != nil {
		return out, fmt.Errorf("connecting to tool server: %w", err)
	}
	defer session.Close()

	fmt.Fprintf(w, "invoking %s...\n", arxiv.ToolName)
	candidates, err := session.Invoke(ctx, arxiv.ToolName, parsed)
	if err != nil {
		return out, fmt.Errorf("invoking %s: %w", arxiv.ToolName, err)
	}
	fmt.Fprintf(w, "received %d candidates\n", len(candidates))

	out.Papers = rank.Rank(parsed, candidates)

	if c.History != nil {
		id, err := c.History.Save(ctx, queryText, parsed, out.Papers)
		if err != nil {
			fmt.Fprintf(w, "warning: recording search history: %v\n", err)
		} else {
			out.HistoryID = id
		}
	}

	return out, nil
}

// Truncate returns at most n papers from the front of the ranked list.
// A non-positive n returns the list unchanged.
func Truncate(papers []types.ScoredPaper, n int) []types.ScoredPaper {
	if n > 0 && len(papers) > n {
		return papers[:n]
	}
	return papers
}
