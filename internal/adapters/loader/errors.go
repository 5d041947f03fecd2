package loader

import (
	"errors"
	"fmt"
)

// Sentinel kinds for loader errors. The concrete error types below match
// their sentinel through errors.Is.
var (
	ErrInvalidResource = errors.New("invalid resource name")
	ErrInvalidSettings = errors.New("invalid loader settings")
	ErrTransport       = errors.New("transport error")
	ErrRequestFailed   = errors.New("request failed")
	ErrParse           = errors.New("parse error")
	ErrBodyTooLarge    = errors.New("response body too large")
)

// TransportError means no HTTP response was obtained: connection refused,
// DNS failure, timeout or a cancelled context.
type TransportError struct {
	Resource string
	URL      string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// RequestFailedError means the server answered with a non-2xx status.
type RequestFailedError struct {
	Resource   string
	URL        string
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Resource, e.StatusCode)
}

// Is matches ErrRequestFailed.
func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// ParseError means the body was not the JSON document expected.
type ParseError struct {
	Resource string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Kind maps an error to a short label for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrRequestFailed):
		return "status"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrInvalidResource):
		return "invalid_resource"
	default:
		return "unknown"
	}
}

// StatusCode returns the upstream status of a RequestFailedError, or 0.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
