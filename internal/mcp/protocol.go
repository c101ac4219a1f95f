// Copyright Align Security Inc., 2026. All rights reserved.

// Package mcp implements the tool-invocation protocol between the search
// pipeline and the find_papers tool: newline-delimited JSON-RPC 2.0 with
// per-request correlation ids. The client side is a Transport that yields
// an exclusively-owned Session; the server side serves a tool registry
// over an io.Reader/io.Writer pair (stdin/stdout in practice).
package mcp

import "encoding/json"

// protocolVersion is echoed during the initialize handshake.
const protocolVersion = "2024-11-05"

const (
	methodInitialize = "initialize"
	methodListTools  = "tools/list"
	methodCallTool   = "tools/call"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// request is a JSON-RPC 2.0 request frame.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response frame. The ID echoes the request's
// correlation id.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is the JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeParams is sent by the client during the handshake.
type initializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ClientInfo      peerInfo   `json:"clientInfo"`
}

// initializeResult is the server's handshake reply.
type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      peerInfo     `json:"serverInfo"`
	Capabilities    capabilities `json:"capabilities"`
}

// peerInfo identifies one end of the session.
type peerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// capabilities advertises what the server supports.
type capabilities struct {
	Tools struct{} `json:"tools"`
}

// ToolInfo describes one tool as surfaced by discovery.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// listToolsResult is the tools/list reply.
type listToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// callToolParams names the tool to run and carries its arguments.
type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// callToolResult is the tools/call reply. Tool-level failures travel as
// IsError with a textual message; protocol-level failures use the JSON-RPC
// error object instead.
type callToolResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// contentBlock is a typed chunk of tool output. find_papers returns a
// single text block holding the JSON-encoded paper array.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
