// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"fmt"
	"time"
)

// ConnectionError reports that the channel to the tool endpoint could not
// be established or was lost. Never retried inside the invoker.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool endpoint connection: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tool endpoint connection: %s", e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports that no response with the expected correlation id
// arrived before the deadline. The invocation is abandoned; later
// responses on that id are discarded.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no response within %v", e.Op, e.Timeout)
}

// ToolInvocationError reports that the remote end answered with an error:
// either a JSON-RPC error object or a tool-level failure. Code and Message
// carry the remote values verbatim.
type ToolInvocationError struct {
	Tool    string
	Code    int
	Message string
}

func (e *ToolInvocationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("tool %s failed: [%d] %s", e.Tool, e.Code, e.Message)
	}
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}
