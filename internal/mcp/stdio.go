// Copyright Align Security Inc., 2026. All rights reserved.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/align-sec/arxiv-mcp/pkg/types"
)

const (
	defaultInvokeTimeout = 60 * time.Second

	// shutdownGrace is how long Close waits for the server process to
	// exit after its stdin closes before killing it.
	shutdownGrace = 2 * time.Second

	// maxFrame bounds a single protocol line. arXiv abstracts are small;
	// 8 MiB leaves plenty of headroom.
	maxFrame = 8 << 20
)

// StdioTransport launches the tool server as a subprocess and speaks the
// wire protocol over its stdin/stdout. The server's own stderr passes
// through to Log.
type StdioTransport struct {
	// Command is the argv that launches the tool server.
	Command []string

	// InvokeTimeout bounds each round trip (default 60s).
	InvokeTimeout time.Duration

	// Log receives protocol diagnostics and the server's stderr.
	// Defaults to io.Discard.
	Log io.Writer
}

// Connect spawns the server process and performs the initialize handshake.
// The returned session owns the process until Close.
func (t *StdioTransport) Connect(ctx context.Context) (Session, error) {
	if len(t.Command) == 0 {
		return nil, &ConnectionError{Reason: "no server command configured"}
	}

	log := t.Log
	if log == nil {
		log = io.Discard
	}
	timeout := t.InvokeTimeout
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}

	cmd := exec.Command(t.Command[0], t.Command[1:]...)
	cmd.Stderr = log

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &ConnectionError{Reason: "opening server stdin", Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ConnectionError{Reason: "opening server stdout", Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &ConnectionError{
			Reason: fmt.Sprintf("starting server %q", strings.Join(t.Command, " ")),
			Err:    err,
		}
	}

	s := &stdioSession{
		stdin:   stdin,
		lines:   make(chan []byte, 16),
		done:    make(chan struct{}),
		timeout: timeout,
		log:     log,
		shutdown: func() {
			exited := make(chan struct{})
			go func() {
				cmd.Wait()
				close(exited)
			}()
			select {
			case <-exited:
			case <-time.After(shutdownGrace):
				cmd.Process.Kill()
				<-exited
			}
		},
	}
	go s.readLoop(stdout)

	params := initializeParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      peerInfo{Name: "arxiv-mcp", Version: "0.1"},
	}
	if _, err := s.roundTrip(ctx, methodInitialize, params); err != nil {
		s.Close()
		return nil, &ConnectionError{Reason: "initialize handshake", Err: err}
	}

	return s, nil
}

// stdioSession is the channel to one server process. The mutex serializes
// round trips so only one request is ever outstanding.
type stdioSession struct {
	stdin    io.WriteCloser
	lines    chan []byte
	done     chan struct{}
	timeout  time.Duration
	log      io.Writer
	shutdown func()

	mu        sync.Mutex
	closeOnce sync.Once
}

// readLoop pumps server stdout lines into the session until the pipe
// closes or the session is closed.
func (s *stdioSession) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64<<10), maxFrame)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		select {
		case s.lines <- line:
		case <-s.done:
			return
		}
	}
	close(s.lines)
}

// roundTrip sends one request and waits for the response carrying the same
// correlation id. Responses with a different id are logged and discarded.
// A deadline miss abandons the request: no further responses on that id
// are awaited.
func (s *stdioSession) roundTrip(ctx context.Context, method string, params any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return nil, &ConnectionError{Reason: "session is closed"}
	default:
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s params: %w", method, err)
	}

	id := uuid.New().String()
	frame, err := json.Marshal(request{JSONRPC: "2.0", ID: id, Method: method, Params: rawParams})
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}
	frame = append(frame, '\n')

	if _, err := s.stdin.Write(frame); err != nil {
		return nil, &ConnectionError{Reason: "writing request", Err: err}
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, &TimeoutError{Op: method, Timeout: s.timeout}
			}
			return nil, ctx.Err()
		case <-timer.C:
			return nil, &TimeoutError{Op: method, Timeout: s.timeout}
		case <-s.done:
			return nil, &ConnectionError{Reason: "session closed while awaiting response"}
		case line, ok := <-s.lines:
			if !ok {
				return nil, &ConnectionError{Reason: "server closed the channel"}
			}
			var resp response
			if err := json.Unmarshal(line, &resp); err != nil {
				fmt.Fprintf(s.log, "discarding malformed frame: %v\n", err)
				continue
			}
			if resp.ID != id {
				fmt.Fprintf(s.log, "discarding response with correlation id %q (awaiting %q)\n", resp.ID, id)
				continue
			}
			if resp.Error != nil {
				return nil, &ToolInvocationError{Tool: method, Code: resp.Error.Code, Message: resp.Error.Message}
			}
			return resp.Result, nil
		}
	}
}

// ListTools asks the server which tools it offers.
func (s *stdioSession) ListTools(ctx context.Context) ([]ToolInfo, error) {
	result, err := s.roundTrip(ctx, methodListTools, struct{}{})
	if err != nil {
		return nil, err
	}
	var lt listToolsResult
	if err := json.Unmarshal(result, &lt); err != nil {
		return nil, fmt.Errorf("decoding tools/list result: %w", err)
	}
	return lt.Tools, nil
}

// Invoke runs the named tool in one round trip and decodes its text
// payload into candidate papers.
func (s *stdioSession) Invoke(ctx context.Context, toolName string, args any) ([]types.PaperCandidate, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s arguments: %w", toolName, err)
	}

	result, err := s.roundTrip(ctx, methodCallTool, callToolParams{Name: toolName, Arguments: rawArgs})
	if err != nil {
		var tie *ToolInvocationError
		if errors.As(err, &tie) {
			tie.Tool = toolName
		}
		var te *TimeoutError
		if errors.As(err, &te) {
			te.Op = toolName
		}
		return nil, err
	}

	var ctr callToolResult
	if err := json.Unmarshal(result, &ctr); err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", toolName, err)
	}
	if ctr.IsError {
		return nil, &ToolInvocationError{Tool: toolName, Message: joinText(ctr.Content)}
	}

	text, ok := firstText(ctr.Content)
	if !ok {
		return nil, &ToolInvocationError{Tool: toolName, Message: "result carries no text content"}
	}
	return decodeCandidates(toolName, []byte(text))
}

// Close shuts the session down: the server sees EOF on stdin and exits; a
// server that lingers past the grace period is killed. Safe to call any
// number of times and after failed invokes.
func (s *stdioSession) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.stdin.Close()
		if s.shutdown != nil {
			s.shutdown()
		}
	})
	return nil
}

// firstText returns the first text content block.
func firstText(blocks []contentBlock) (string, bool) {
	for _, b := range blocks {
		if b.Type == "text" {
			return b.Text, true
		}
	}
	return "", false
}

// joinText concatenates all text blocks for error reporting.
func joinText(blocks []contentBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	if len(parts) == 0 {
		return "remote tool error"
	}
	return strings.Join(parts, "; ")
}
