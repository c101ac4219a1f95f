// Copyright Align Security Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Quantum   Computing
  Advances</title>
    <summary>  We survey recent
  progress in quantum computing.  </summary>
    <published>2023-01-17T12:00:00Z</published>
    <updated>2023-02-01T09:30:00Z</updated>
    <author><name> Alice Example </name></author>
    <author><name>Bob Sample</name></author>
    <category term="quant-ph"/>
    <category term="cs.ET"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2012.00001v2</id>
    <title>Older Paper</title>
    <summary>From 2020.</summary>
    <published>2020-12-01T00:00:00Z</published>
    <updated>2020-12-02T00:00:00Z</updated>
    <author><name>Carol Vintage</name></author>
    <category term="cs.LG"/>
  </entry>
</feed>`

// testClient returns a Client pointed at url with rate limiting disabled.
func testClient(url string) *Client {
	c := New(types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	apiBase = url
	return c
}

func TestFindPapersParsesFeed(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		if ua := r.Header.Get("User-Agent"); ua != "test/0.1" {
			t.Errorf("User-Agent = %q, want test/0.1", ua)
		}
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	papers, err := c.FindPapers(context.Background(), types.ParsedQuery{
		SearchTerms: []string{"quantum computing", "qubits"},
		MaxResults:  10,
	})
	if err != nil {
		t.Fatalf("FindPapers() error: %v", err)
	}

	if want := `all:"quantum computing" AND all:"qubits"`; gotQuery != want {
		t.Errorf("search_query = %q, want %q", gotQuery, want)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	p := papers[0]
	if p.Title != "Quantum Computing Advances" {
		t.Errorf("Title = %q, whitespace not collapsed", p.Title)
	}
	if p.Summary != "We survey recent progress in quantum computing." {
		t.Errorf("Summary = %q, whitespace not collapsed", p.Summary)
	}
	if p.ArxivID != "2301.07041v1" {
		t.Errorf("ArxivID = %q, want 2301.07041v1", p.ArxivID)
	}
	if p.URL != "http://arxiv.org/abs/2301.07041v1" {
		t.Errorf("URL = %q", p.URL)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Alice Example" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if len(p.Categories) != 2 || p.Categories[0] != "quant-ph" {
		t.Errorf("Categories = %v", p.Categories)
	}
	if p.Published != "2023-01-17T12:00:00Z" || p.Updated != "2023-02-01T09:30:00Z" {
		t.Errorf("Published/Updated = %q/%q", p.Published, p.Updated)
	}
}

func TestFindPapersMinDateFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	papers, err := c.FindPapers(context.Background(), types.ParsedQuery{
		SearchTerms: []string{"quantum"},
		MinDate:     "2022-01-01",
		MaxResults:  10,
	})
	if err != nil {
		t.Fatalf("FindPapers() error: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("len(papers) = %d, want 1 (older paper filtered)", len(papers))
	}
	if papers[0].ArxivID != "2301.07041v1" {
		t.Errorf("kept paper = %s, want 2301.07041v1", papers[0].ArxivID)
	}
}

func TestFindPapersRequestParameters(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"start":       r.URL.Query().Get("start"),
			"max_results": r.URL.Query().Get("max_results"),
			"sortBy":      r.URL.Query().Get("sortBy"),
			"sortOrder":   r.URL.Query().Get("sortOrder"),
		}
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.FindPapers(context.Background(), types.ParsedQuery{
		SearchTerms: []string{"quantum"},
		MaxResults:  3,
	})
	if err != nil {
		t.Fatalf("FindPapers() error: %v", err)
	}

	want := map[string]string{
		"start":       "0",
		"max_results": "3",
		"sortBy":      "submittedDate",
		"sortOrder":   "descending",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestFindPapersEmptyTerms(t *testing.T) {
	c := testClient("http://invalid.invalid")
	if _, err := c.FindPapers(context.Background(), types.ParsedQuery{}); err == nil {
		t.Error("FindPapers accepted an empty term list")
	}
}

func TestFindPapersHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	if _, err := c.FindPapers(context.Background(), types.ParsedQuery{SearchTerms: []string{"x"}}); err == nil {
		t.Error("FindPapers ignored HTTP 400")
	}
}

func TestToolRoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	ft := c.Tool()
	if ft.Name != ToolName {
		t.Fatalf("tool name = %s, want %s", ft.Name, ToolName)
	}

	args := json.RawMessage(`{"search_terms": ["quantum"], "max_results": 10}`)
	raw, err := ft.Handler(context.Background(), args)
	if err != nil {
		t.Fatalf("Handler() error: %v", err)
	}

	var papers []types.PaperCandidate
	if err := json.Unmarshal(raw, &papers); err != nil {
		t.Fatalf("decoding handler result: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("len(papers) = %d, want 2", len(papers))
	}
}

func TestToolBadArguments(t *testing.T) {
	c := testClient("http://invalid.invalid")
	ft := c.Tool()
	if _, err := ft.Handler(context.Background(), json.RawMessage(`not json`)); err == nil {
		t.Error("Handler accepted malformed arguments")
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		terms []string
		want  string
	}{
		{[]string{"quantum"}, `all:"quantum"`},
		{[]string{"red teaming", "LLM"}, `all:"red teaming" AND all:"LLM"`},
	}
	for _, tt := range tests {
		if got := buildQuery(tt.terms); got != tt.want {
			t.Errorf("buildQuery(%v) = %q, want %q", tt.terms, got, tt.want)
		}
	}
}
