// Copyright Align Security Inc., 2026. All rights reserved.

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes ranked papers as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-10s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Published", "Score", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, p := range out.Papers {
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-10s  %-6.2f  %s\n",
			i+1, title, formatAuthors(p.Authors), formatDate(p.Published),
			p.RelevanceScore, p.ArxivID)
	}

	fmt.Fprintf(w, "\n%d papers for terms %v\n", len(out.Papers), out.Parsed.SearchTerms)
}

// FormatJSON writes ranked papers as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// formatDate keeps the date part of an RFC 3339 timestamp.
func formatDate(published string) string {
	if len(published) >= 10 {
		return published[:10]
	}
	return published
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
