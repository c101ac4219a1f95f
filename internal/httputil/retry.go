// Copyright Align Security Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by components that talk to
// external services.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 3 * time.Second

const defaultMaxRetries = 4

// retryable reports whether a status code is worth another attempt. arXiv
// signals overload with 503 and rate limiting with 429.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 503
// with exponential backoff starting at RetryBaseDelay and doubling each
// attempt.
//
// When maxRetries is 0 the default (4) is used. On each retryable response
// the body is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — return the response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
