// Copyright Align Security Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv API for papers matching a structured
// query. It is the implementation behind the find_papers tool; nothing in
// this package knows about the invocation protocol.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/align-sec/arxiv-mcp/internal/httputil"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// arXiv asks automated clients for no more than one request every three
// seconds.
const requestInterval = 3 * time.Second

const defaultUserAgent = "arxiv-mcp/0.1"

// Client queries the arXiv API.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New returns a Client honoring the given HTTP settings.
func New(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(requestInterval), 1),
		userAgent: ua,
	}
}

// FindPapers queries arXiv for papers matching all search terms, most
// recently submitted first, and filters out papers published before the
// query's min_date. At most query.MaxResults papers are requested.
func (c *Client) FindPapers(ctx context.Context, query types.ParsedQuery) ([]types.PaperCandidate, error) {
	if len(query.SearchTerms) == 0 {
		return nil, fmt.Errorf("empty arXiv query: no search terms")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	params := url.Values{}
	params.Set("search_query", buildQuery(query.SearchTerms))
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	minDate, hasMinDate := query.MinDateTime()

	var papers []types.PaperCandidate
	for _, entry := range feed.Entries {
		if hasMinDate && publishedBefore(entry.Published, minDate) {
			continue
		}

		p := types.PaperCandidate{
			Title:     collapseWhitespace(entry.Title),
			Summary:   collapseWhitespace(entry.Summary),
			Published: entry.Published,
			Updated:   entry.Updated,
			ArxivID:   extractID(entry.ID),
			URL:       entry.ID,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, cat := range entry.Categories {
			if cat.Term != "" {
				p.Categories = append(p.Categories, cat.Term)
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// buildQuery constructs the search_query parameter. Terms are quoted so
// multi-word terms match as phrases, joined with AND so papers must match
// every term, and prefixed with all: to search every field.
func buildQuery(terms []string) string {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		parts = append(parts, fmt.Sprintf("all:%q", term))
	}
	return strings.Join(parts, " AND ")
}

// publishedBefore reports whether an RFC 3339 published timestamp falls
// before min. Unparseable timestamps are kept rather than dropped.
func publishedBefore(published string, min time.Time) bool {
	if len(published) < len(types.DateFormat) {
		return false
	}
	d, err := time.Parse(types.DateFormat, published[:len(types.DateFormat)])
	if err != nil {
		return false
	}
	return d.Before(min)
}

// collapseWhitespace trims s and folds internal runs of whitespace,
// including the line breaks arXiv inserts into titles and abstracts.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" becomes "2301.07041v1").
func extractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return idURL
	}
	return idURL[idx+len(prefix):]
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}
