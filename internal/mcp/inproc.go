// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/align-sec/arxiv-mcp/internal/tool"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// InprocTransport dispatches tool calls directly to a registry in the same
// process. There is no channel and no subprocess, but the session contract
// is identical: exclusive ownership, one outstanding call, idempotent
// Close, and the same error taxonomy.
type InprocTransport struct {
	// Registry holds the callable tools.
	Registry *tool.Registry

	// InvokeTimeout bounds each tool call (default 60s).
	InvokeTimeout time.Duration
}

// Connect returns a session over the registry.
func (t *InprocTransport) Connect(_ context.Context) (Session, error) {
	if t.Registry == nil {
		return nil, &ConnectionError{Reason: "no tool registry configured"}
	}
	timeout := t.InvokeTimeout
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}
	return &inprocSession{reg: t.Registry, timeout: timeout}, nil
}

type inprocSession struct {
	reg     *tool.Registry
	timeout time.Duration

	mu     sync.Mutex
	closed atomic.Bool
}

func (s *inprocSession) ListTools(_ context.Context) ([]ToolInfo, error) {
	if s.closed.Load() {
		return nil, &ConnectionError{Reason: "session is closed"}
	}
	var infos []ToolInfo
	for _, t := range s.reg.List() {
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return infos, nil
}

func (s *inprocSession) Invoke(ctx context.Context, toolName string, args any) ([]types.PaperCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, &ConnectionError{Reason: "session is closed"}
	}

	t, ok := s.reg.Get(toolName)
	if !ok {
		return nil, &ToolInvocationError{Tool: toolName, Code: codeMethodNotFound, Message: "unknown tool"}
	}

	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s arguments: %w", toolName, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := t.Handler(callCtx, rawArgs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: toolName, Timeout: s.timeout}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ToolInvocationError{Tool: toolName, Message: err.Error()}
	}

	return decodeCandidates(toolName, result)
}

// Close marks the session unusable. Idempotent; there is no channel to
// release.
func (s *inprocSession) Close() error {
	s.closed.Store(true)
	return nil
}
