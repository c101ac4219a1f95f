// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/align-sec/arxiv-mcp/internal/tool"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

func TestInprocInvoke(t *testing.T) {
	var gotArgs types.ParsedQuery
	reg := registryWith(t, tool.Tool{
		Name: "find_papers",
		Handler: func(_ context.Context, args json.RawMessage) (json.RawMessage, error) {
			require.NoError(t, json.Unmarshal(args, &gotArgs))
			return json.RawMessage(papersJSON), nil
		},
	})

	tr := &InprocTransport{Registry: reg}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)
	defer s.Close()

	query := types.ParsedQuery{SearchTerms: []string{"quantum"}, MaxResults: 2}
	papers, err := s.Invoke(context.Background(), "find_papers", query)
	require.NoError(t, err)

	assert.Equal(t, query, gotArgs)
	require.Len(t, papers, 2)
	assert.Equal(t, "Quantum Computing", papers[0].Title)
}

func TestInprocInvokeToolError(t *testing.T) {
	reg := registryWith(t, papersTool("", fmt.Errorf("arXiv unreachable")))
	tr := &InprocTransport{Registry: reg}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Invoke(context.Background(), "find_papers", struct{}{})

	var tie *ToolInvocationError
	require.ErrorAs(t, err, &tie)
	assert.Contains(t, tie.Message, "arXiv unreachable")
}

func TestInprocInvokeUnknownTool(t *testing.T) {
	tr := &InprocTransport{Registry: registryWith(t, papersTool(papersJSON, nil))}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Invoke(context.Background(), "nope", struct{}{})

	var tie *ToolInvocationError
	require.ErrorAs(t, err, &tie)
	assert.Equal(t, codeMethodNotFound, tie.Code)
}

func TestInprocInvokeTimeout(t *testing.T) {
	reg := registryWith(t, tool.Tool{
		Name: "find_papers",
		Handler: func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	tr := &InprocTransport{Registry: reg, InvokeTimeout: 20 * time.Millisecond}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)

	_, err = s.Invoke(context.Background(), "find_papers", struct{}{})

	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "find_papers", te.Op)

	// Release still works after the timeout.
	require.NoError(t, s.Close())
}

func TestInprocListTools(t *testing.T) {
	tr := &InprocTransport{Registry: registryWith(t, papersTool(papersJSON, nil))}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)
	defer s.Close()

	tools, err := s.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "find_papers", tools[0].Name)
}

func TestInprocCloseIdempotent(t *testing.T) {
	tr := &InprocTransport{Registry: registryWith(t, papersTool(papersJSON, nil))}
	s, err := tr.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Invoke(context.Background(), "find_papers", struct{}{})
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
}

func TestInprocConnectWithoutRegistry(t *testing.T) {
	tr := &InprocTransport{}
	_, err := tr.Connect(context.Background())

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
}
