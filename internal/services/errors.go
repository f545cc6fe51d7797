package services

import "fmt"

// ValidationError rejects a request before any expensive work happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExtractionError means the PDF yielded no usable text.
type ExtractionError struct {
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// UpstreamError means the completion provider call itself failed:
// unreachable, errored, timed out or misconfigured.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion provider error: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// MalformedResponseError means the provider answered, but with content
// that is not valid JSON or violates the Evaluation schema. Kept distinct
// from UpstreamError so operators can tell "provider is down" from
// "provider returned garbage".
type MalformedResponseError struct {
	Reason string
	// Snippet holds a trimmed copy of the offending payload.
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

const snippetLimit = 200

func snippet(s string) string {
	if len(s) > snippetLimit {
		return s[:snippetLimit] + "..."
	}
	return s
}
