// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import "fmt"

// NetworkError wraps a transport-level failure (DNS, connect, TLS, or a
// broken response body). It is surfaced to the caller; the fetcher does
// not retry it.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network failure: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError reports a missing or rejected API credential. It is fatal:
// the run aborts rather than continuing without access.
type AuthError struct {
	// Status is the HTTP status the API returned, or 0 when the token
	// was missing before any request was made.
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed (HTTP %d): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// RateLimitError reports API throttling (HTTP 429) that persisted through
// the configured retries. The caller decides whether to back off and rerun.
type RateLimitError struct {
	// RetryAfter is the Retry-After header value, when the API sent one.
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("rate limit exceeded, retry after %s seconds", e.RetryAfter)
	}
	return "rate limit exceeded (HTTP 429)"
}
