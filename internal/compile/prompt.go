// Copyright Align Security Inc., 2026. All rights reserved.

package compile

import (
	"bytes"
	"text/template"
	"time"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// systemPromptTmpl is the system prompt sent with every compilation request.
// It describes the expected JSON schema and carries the reference date so
// relative phrases like "last 6 months" resolve against the caller's clock.
var systemPromptTmpl = template.Must(template.New("compile").Parse(`You are a helpful assistant that extracts structured information from natural language queries about arXiv papers.

Current date: {{.Date}}

Given a user query, extract the following information and return ONLY a valid JSON object (no markdown, no explanation):

{
    "search_terms": ["list", "of", "key", "terms"],
    "min_date": "YYYY-MM-DD or null if not specified",
    "max_results": integer (default 10 if not specified)
}

Rules:
- search_terms: Extract 2-4 KEY terms only. Be selective and avoid redundancy. Focus on the core concepts.
  * Use specific technical terms when present (e.g., "transformer", "BERT", "quantum computing")
  * Avoid generic words like "papers", "research", "about"
  * Don't include synonyms or related terms - pick the most important one
  * Combine related concepts into single terms when possible
  * Example: "LLM red teaming for AI agent security" -> ["LLM", "red teaming", "AI agents"]
- min_date: If the user mentions a time period (e.g., "last 6 months", "recent", "past year"), calculate the date. If "recent" without specifics, use 6 months ago. If not mentioned, use null.
- max_results: Extract the number of papers requested. Default to 10 if not specified.

Return ONLY the JSON object, nothing else.`))

// renderSystemPrompt executes the system prompt template with the given
// reference time.
func renderSystemPrompt(referenceTime time.Time) (string, error) {
	var buf bytes.Buffer
	data := struct{ Date string }{Date: referenceTime.Format(types.DateFormat)}
	if err := systemPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
