package edbo

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound    = errors.New("registry: resource not found")
	ErrForbidden   = errors.New("registry: access forbidden")
	ErrRateLimited = errors.New("registry: too many requests")
	ErrUnavailable = errors.New("registry: host unreachable or transport failure")
	ErrUpstream    = errors.New("registry: internal error (5xx)")
	ErrBadResponse = errors.New("registry: invalid response format or malformed data")
	ErrTimeout     = errors.New("registry: request timed out")
)

// APIError wraps the sentinel errors with request context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("edbo: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

// MissingParamError reports a required search parameter that was not set.
type MissingParamError struct {
	Field string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("edbo: required parameter %q is not set", e.Field)
}

// InvalidParamError reports a search parameter with a value the registry
// would reject.
type InvalidParamError struct {
	Field  string
	Reason string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("edbo: invalid parameter %q: %s", e.Field, e.Reason)
}
