// Copyright Align Security Inc., 2026. All rights reserved.

package compile

import "fmt"

// SchemaValidationError reports that the completion service produced output
// that does not satisfy the structured-query schema. It carries the raw
// offending payload so the failure can be diagnosed without retrying blindly.
// Never retried automatically.
type SchemaValidationError struct {
	Reason  string
	Payload string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("query schema validation: %s (payload: %s)", e.Reason, e.Payload)
}

// UpstreamError reports a failure of the completion service itself.
// Transient is true for the classes worth one retry (network errors,
// timeouts, HTTP 429 and 5xx); auth and other 4xx failures are permanent.
type UpstreamError struct {
	StatusCode int
	Message    string
	Transient  bool
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion service returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion service: %s", e.Message)
}
