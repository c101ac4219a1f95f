// Copyright Align Security Inc., 2026. All rights reserved.

// Package tool defines the tool abstraction served over the invocation
// protocol. Each tool carries its caller-facing JSON schema together with
// the handler invoked when the tool is called; the registry maps tool
// names to tools for the server and the in-process transport.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Handler executes a tool with JSON-encoded arguments and returns a
// JSON-encoded result. Implementations must be safe for concurrent use
// and must respect context cancellation.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Tool is a named operation callable over the invocation protocol.
type Tool struct {
	// Name is the identifier callers invoke the tool by.
	Name string

	// Description is the human-readable summary surfaced by discovery.
	Description string

	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema json.RawMessage

	// Handler executes the tool.
	Handler Handler
}

// Registry holds the set of registered tools. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a name twice is a programming error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
