// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the metadata source
// clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/refcheck/pkg/types"
)

// RetryPolicy controls retry behavior for one logical request.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the first backoff interval.
	BaseDelay time.Duration

	// Factor is the backoff multiplier per attempt.
	Factor float64
}

// DefaultPolicy returns the documented retry defaults: 5 retries,
// 1 s base delay, factor 2 (1 s, 2 s, 4 s, 8 s, 16 s).
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: types.DefaultMaxRetries,
		BaseDelay:  types.DefaultRetryBaseDelay,
		Factor:     types.DefaultBackoffFactor,
	}
}

// Backoff returns the sleep interval before retry attempt (0-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt)))
}

// normalize fills zero fields so a partially built policy still behaves.
func (p RetryPolicy) normalize() RetryPolicy {
	d := DefaultPolicy()
	if p.MaxRetries <= 0 {
		p.MaxRetries = d.MaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = d.BaseDelay
	}
	if p.Factor <= 1 {
		p.Factor = d.Factor
	}
	return p
}

// retryableStatus reports whether the response status warrants a retry.
// Rate limiting and server faults are transient; everything else,
// including 404, is a definite answer from the source.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// DoWithRetry executes an HTTP request and retries on HTTP 429, HTTP
// 5xx, and transport errors with exponential backoff. The delay starts
// at policy.BaseDelay and is multiplied by policy.Factor each attempt.
//
// A 404 (or any other non-retryable status) is returned immediately so
// callers can distinguish a definite "not found" from exhausted
// retries. On each retryable response the body is drained and closed
// before sleeping. If the context is cancelled during a backoff wait
// the function returns ctx.Err(). After exhausting retries the last
// retryable response (or the last transport error) is returned.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy) (*http.Response, error) {
	policy = policy.normalize()

	var lastErr error
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = nil
			if attempt >= policy.MaxRetries {
				// Exhausted retries: hand back the retryable response
				// so the caller can inspect the status.
				return resp, nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt >= policy.MaxRetries {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Backoff(attempt)):
		}
	}
}
