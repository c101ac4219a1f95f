// Copyright Align Security Inc., 2026. All rights reserved.

// Package compile turns a free-text paper request into a validated
// ParsedQuery using a single Claude completion call. The model's output is
// parsed as an untyped JSON document first and then validated into the
// strict schema, so a malformed response surfaces as a SchemaValidationError
// carrying the offending payload instead of a generic decode failure.
package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// messagesAPIURL is the Claude Messages API endpoint. Package-level var for
// test substitution.
var messagesAPIURL = "https://api.anthropic.com/v1/messages"

const (
	defaultModel        = "claude-sonnet-4-5"
	defaultTimeout      = 30 * time.Second
	defaultRetryBackoff = 2 * time.Second
	maxTokens           = 1024
)

// Compiler compiles natural-language queries into ParsedQuery values.
type Compiler struct {
	cfg    types.CompilerConfig
	client *http.Client
}

// New returns a Compiler using the given configuration. A nil client falls
// back to http.DefaultClient. Zero config fields get defaults.
func New(cfg types.CompilerConfig, client *http.Client) *Compiler {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Compiler{cfg: cfg, client: client}
}

// Compile sends one completion request containing the user text and the
// schema description, then validates the response into a ParsedQuery.
// Relative date phrases resolve against referenceTime, not the wall clock.
// A transient upstream failure (network error, timeout, HTTP 429/5xx) is
// retried exactly once after a bounded backoff; everything else surfaces
// immediately.
func (c *Compiler) Compile(ctx context.Context, queryText string, referenceTime time.Time) (types.ParsedQuery, error) {
	if strings.TrimSpace(queryText) == "" {
		return types.ParsedQuery{}, fmt.Errorf("query text is empty")
	}

	prompt, err := renderSystemPrompt(referenceTime)
	if err != nil {
		return types.ParsedQuery{}, fmt.Errorf("rendering system prompt: %w", err)
	}

	text, err := c.complete(ctx, prompt, queryText)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.Transient {
			select {
			case <-ctx.Done():
				return types.ParsedQuery{}, ctx.Err()
			case <-time.After(c.cfg.RetryBackoff):
			}
			text, err = c.complete(ctx, prompt, queryText)
		}
		if err != nil {
			return types.ParsedQuery{}, err
		}
	}

	return parseResponse(text, referenceTime)
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// complete performs one round trip to the completion service and returns
// the text of the first content block. Failures are reported as
// *UpstreamError with the Transient flag classified from the failure mode.
func (c *Compiler) complete(ctx context.Context, system, queryText string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []claudeMessage{
			{Role: "user", Content: queryText},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, messagesAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		// A dead caller context is not retryable; everything else at this
		// layer (network errors, per-call timeouts) is transient.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UpstreamError{Message: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Transient:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("decoding response: %v", err)}
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &UpstreamError{Message: "no text content in completion response"}
}

// parseResponse strips markdown fencing, parses the text as an untyped JSON
// document, and validates it into a ParsedQuery.
func parseResponse(text string, referenceTime time.Time) (types.ParsedQuery, error) {
	payload := stripFences(text)

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return types.ParsedQuery{}, &SchemaValidationError{
			Reason:  fmt.Sprintf("response is not a JSON object: %v", err),
			Payload: payload,
		}
	}

	return validate(doc, payload, referenceTime)
}

// validate checks the untyped document against the ParsedQuery schema,
// filling defaults for missing optional fields.
func validate(doc map[string]any, payload string, referenceTime time.Time) (types.ParsedQuery, error) {
	fail := func(reason string) (types.ParsedQuery, error) {
		return types.ParsedQuery{}, &SchemaValidationError{Reason: reason, Payload: payload}
	}

	rawTerms, ok := doc["search_terms"]
	if !ok {
		return fail("search_terms is missing")
	}
	termList, ok := rawTerms.([]any)
	if !ok {
		return fail("search_terms is not an array")
	}
	if len(termList) == 0 {
		return fail("search_terms is empty")
	}
	terms := make([]string, 0, len(termList))
	for i, raw := range termList {
		term, ok := raw.(string)
		if !ok {
			return fail(fmt.Sprintf("search_terms[%d] is not a string", i))
		}
		if strings.TrimSpace(term) == "" {
			return fail(fmt.Sprintf("search_terms[%d] is empty", i))
		}
		terms = append(terms, term)
	}

	query := types.ParsedQuery{
		SearchTerms: terms,
		MaxResults:  types.DefaultMaxResults,
	}

	if raw, ok := doc["max_results"]; ok && raw != nil {
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) {
			return fail("max_results is not an integer")
		}
		if n <= 0 {
			return fail(fmt.Sprintf("max_results must be positive, got %d", int(n)))
		}
		query.MaxResults = int(n)
	}

	if raw, ok := doc["min_date"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return fail("min_date is not a string")
		}
		// The model sometimes emits the literal string "null".
		if s != "" && s != "null" {
			d, err := time.Parse(types.DateFormat, s)
			if err != nil {
				return fail(fmt.Sprintf("min_date %q is not a valid YYYY-MM-DD date", s))
			}
			if d.After(referenceTime) {
				return fail(fmt.Sprintf("min_date %q is in the future", s))
			}
			query.MinDate = s
		}
	}

	return query, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, from the model's response text.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	body := lines[1:]
	if strings.TrimSpace(body[len(body)-1]) == "```" {
		body = body[:len(body)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
