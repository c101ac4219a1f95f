// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"context"
	"encoding/json"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// Transport establishes a session to a tool endpoint. The two
// implementations are StdioTransport (tool server as a subprocess) and
// InprocTransport (direct dispatch, no channel); callers select one by
// configuration rather than branching inside the invoker.
type Transport interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is an exclusively-owned handle on an open channel to the tool
// endpoint, valid from Connect to Close. A session is not reentrant: only
// one request may be outstanding at a time, and a session must never be
// shared between concurrent searches.
type Session interface {
	// ListTools returns the tools the endpoint offers.
	ListTools(ctx context.Context) ([]ToolInfo, error)

	// Invoke runs the named tool with the given arguments and decodes
	// the result into candidate papers. Exactly one round trip; no
	// retries.
	Invoke(ctx context.Context, toolName string, args any) ([]types.PaperCandidate, error)

	// Close releases the channel. Idempotent, and safe to call after a
	// failed Invoke.
	Close() error
}

// decodeCandidates parses a tool result payload as a JSON array of papers.
// Anything else (the remote's ad-hoc error object, a bare string) is a
// tool failure, not a decode panic.
func decodeCandidates(toolName string, data []byte) ([]types.PaperCandidate, error) {
	var papers []types.PaperCandidate
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, &ToolInvocationError{
			Tool:    toolName,
			Message: "result is not a paper list: " + truncate(string(data), 200),
		}
	}
	return papers, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
