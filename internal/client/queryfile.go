// Copyright Align Security Inc., 2026. All rights reserved.

package client

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A search can be saved to a file and re-displayed later without
// re-querying any API.
type QueryFile struct {
	Query   QueryParams         `yaml:"query"`
	Results []types.ScoredPaper `yaml:"results"`
	Summary QuerySummary        `yaml:"summary"`
}

// QueryParams stores the request and its compiled form.
type QueryParams struct {
	Text        string   `yaml:"text"`
	SearchTerms []string `yaml:"search_terms"`
	MinDate     string   `yaml:"min_date,omitempty"`
	MaxResults  int      `yaml:"max_results"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search and its ranked results to a YAML file.
func WriteQueryFile(path string, out Output) error {
	qf := QueryFile{
		Query: QueryParams{
			Text:        out.QueryText,
			SearchTerms: out.Parsed.SearchTerms,
			MinDate:     out.Parsed.MinDate,
			MaxResults:  out.Parsed.MaxResults,
		},
		Results: out.Papers,
		Summary: QuerySummary{
			Total:     len(out.Papers),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Output converts a loaded query file back to a displayable Output.
func (qf *QueryFile) Output() Output {
	return Output{
		QueryText: qf.Query.Text,
		Parsed: types.ParsedQuery{
			SearchTerms: qf.Query.SearchTerms,
			MinDate:     qf.Query.MinDate,
			MaxResults:  qf.Query.MaxResults,
		},
		Papers: qf.Results,
	}
}
