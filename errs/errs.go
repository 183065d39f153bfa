// Package errs defines the error kinds shared by the analysis pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// Internal is any unanticipated fault.
	Internal Kind = iota
	// InvalidInput is a malformed URL or a missing required field. No I/O has been attempted.
	InvalidInput
	// FetchFailed is a non-2xx status or a transport failure on the primary page.
	FetchFailed
	// ParseFailed is a document that could not be parsed.
	ParseFailed
	// Upstream is a failure reported by the completion endpoint.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "input"
	case FetchFailed:
		return "fetch"
	case ParseFailed:
		return "parse"
	case Upstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a pipeline failure with its kind. Message is what callers see.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Input returns an InvalidInput error.
func Input(format string, args ...any) *Error {
	return &Error{Kind: InvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Fetch wraps a primary-page retrieval failure.
func Fetch(msg string, cause error) *Error {
	return &Error{Kind: FetchFailed, Message: msg, Cause: cause}
}

// Parse wraps a document parse failure.
func Parse(msg string, cause error) *Error {
	return &Error{Kind: ParseFailed, Message: msg, Cause: cause}
}

// UpstreamError wraps a completion endpoint failure.
func UpstreamError(msg string, cause error) *Error {
	return &Error{Kind: Upstream, Message: msg, Cause: cause}
}

// InternalError wraps an unanticipated fault.
func InternalError(msg string, cause error) *Error {
	return &Error{Kind: Internal, Message: msg, Cause: cause}
}

// KindOf reports the kind of err. Errors not produced by this package are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsClientError reports whether err should be answered with a 4xx status.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case InvalidInput, FetchFailed, ParseFailed:
		return true
	}
	return false
}
