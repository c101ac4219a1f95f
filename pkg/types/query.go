// Copyright Align Security Inc., 2026. All rights reserved.

package types

import "time"

// DateFormat is the calendar-date layout used throughout the pipeline.
const DateFormat = "2006-01-02"

// DefaultMaxResults is used when a query does not request a result count.
const DefaultMaxResults = 10

// ParsedQuery is the validated, structured form of a natural-language
// request. It is produced once per search by the query compiler and
// consumed as the find_papers tool argument.
type ParsedQuery struct {
	// SearchTerms holds the key terms extracted from the user text, in
	// extraction order. Always non-empty after compilation.
	SearchTerms []string `json:"search_terms" yaml:"search_terms"`

	// MinDate is the minimum publication date in YYYY-MM-DD form, or
	// empty when the request carries no date constraint.
	MinDate string `json:"min_date,omitempty" yaml:"min_date,omitempty"`

	// MaxResults is the requested result count. Always positive after
	// compilation; defaults to DefaultMaxResults.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// MinDateTime parses MinDate. The second return value is false when the
// query has no date constraint.
func (q ParsedQuery) MinDateTime() (time.Time, bool) {
	if q.MinDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateFormat, q.MinDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
