// Copyright Align Security Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/align-sec/arxiv-mcp/internal/tool"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// ToolName is the name the search pipeline invokes the backend by.
const ToolName = "find_papers"

// findPapersSchema is the caller-facing JSON Schema for the tool arguments.
var findPapersSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"search_terms": {
			"type": "array",
			"items": {"type": "string"},
			"description": "List of search terms to query arXiv"
		},
		"min_date": {
			"type": "string",
			"description": "Minimum publication date in YYYY-MM-DD format"
		},
		"max_results": {
			"type": "integer",
			"default": 10,
			"description": "Maximum number of results to return"
		}
	},
	"required": ["search_terms"]
}`)

// Tool wraps the client as the find_papers tool, decoding the argument
// object into a ParsedQuery and encoding the candidate papers as a JSON
// array.
func (c *Client) Tool() tool.Tool {
	return tool.Tool{
		Name:        ToolName,
		Description: "Search for papers on arXiv based on search terms, optional minimum date, and maximum number of results.",
		InputSchema: findPapersSchema,
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			var query types.ParsedQuery
			if err := json.Unmarshal(args, &query); err != nil {
				return nil, fmt.Errorf("decoding find_papers arguments: %w", err)
			}

			papers, err := c.FindPapers(ctx, query)
			if err != nil {
				return nil, err
			}
			if papers == nil {
				// An empty result is a JSON array, not null.
				papers = []types.PaperCandidate{}
			}
			return json.Marshal(papers)
		},
	}
}
