// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/align-sec/arxiv-mcp/internal/tool"
)

// Server serves a tool registry over the wire protocol, one request per
// line, responses tagged with the request's correlation id. It is the peer
// StdioTransport talks to when the tool runs out of process.
type Server struct {
	Registry *tool.Registry
	Logger   *zap.Logger
	Name     string
	Version  string
}

// Serve reads requests from r and writes responses to w until r reaches
// EOF or ctx is cancelled. Malformed frames get a parse-error response and
// do not kill the loop.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxFrame)

	logger.Info("server ready", zap.String("name", s.Name), zap.String("version", s.Version))

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("malformed request frame", zap.Error(err))
			if err := enc.Encode(errorResponse("", codeParseError, "parse error")); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
			continue
		}

		resp := s.handle(ctx, req, logger)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	logger.Info("client closed the channel, shutting down")
	return nil
}

// handle dispatches one request and builds its response.
func (s *Server) handle(ctx context.Context, req request, logger *zap.Logger) response {
	switch req.Method {
	case methodInitialize:
		logger.Info("session initialized", zap.String("id", req.ID))
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      peerInfo{Name: s.Name, Version: s.Version},
		})

	case methodListTools:
		var infos []ToolInfo
		for _, t := range s.Registry.List() {
			infos = append(infos, ToolInfo{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: t.InputSchema,
			})
		}
		logger.Info("tools listed", zap.Int("count", len(infos)))
		return resultResponse(req.ID, listToolsResult{Tools: infos})

	case methodCallTool:
		var params callToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
		}

		t, ok := s.Registry.Get(params.Name)
		if !ok {
			logger.Warn("unknown tool requested", zap.String("tool", params.Name))
			return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
		}

		logger.Info("tool call", zap.String("tool", params.Name), zap.String("id", req.ID))
		result, err := t.Handler(ctx, params.Arguments)
		if err != nil {
			// Tool-level failures travel inside the result so the
			// caller sees the remote message verbatim.
			logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
			return resultResponse(req.ID, callToolResult{
				IsError: true,
				Content: []contentBlock{{Type: "text", Text: err.Error()}},
			})
		}

		logger.Info("tool succeeded", zap.String("tool", params.Name), zap.Int("bytes", len(result)))
		return resultResponse(req.ID, callToolResult{
			Content: []contentBlock{{Type: "text", Text: string(result)}},
		})

	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
	}
}

func resultResponse(id string, result any) response {
	raw, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, codeInternalError, fmt.Sprintf("marshaling result: %v", err))
	}
	return response{JSONRPC: "2.0", ID: id, Result: raw}
}

func errorResponse(id string, code int, message string) response {
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}
