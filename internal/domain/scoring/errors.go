package scoring

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to classify a scoring failure.
var (
	// ErrConfiguration means the scorer has no credentials; no call was made.
	ErrConfiguration = errors.New("scorer configuration error")
	// ErrInvalidRequest means prompt or response was empty; no call was made.
	ErrInvalidRequest = errors.New("invalid scoring request")
	// ErrUpstream covers unreachable, timed out or non-JSON scorer replies.
	ErrUpstream = errors.New("scorer upstream error")
	// ErrParse means the scorer replied with JSON lacking score or comment.
	ErrParse = errors.New("scorer parse error")
)

// Error is a classified scoring failure.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Fatal reports whether err must be surfaced to the caller instead of being
// degraded into an error result.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrInvalidRequest)
}

// KindName returns a short label for err, used in logs and metrics.
func KindName(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "unknown"
	}
}
