package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an engine failure for the failover router.
type Kind int

const (
	// Transient failures (connect, timeout, 5xx, throttling) are eligible
	// for failover to the next candidate engine.
	Transient Kind = iota
	// Fatal failures (authentication, request validation) are surfaced
	// immediately and never retried.
	Fatal
)

func (k Kind) String() string {
	if k == Fatal {
		return "fatal"
	}
	return "transient"
}

// Error is a classified engine failure.
type Error struct {
	Engine string
	Kind   Kind
	Status int // HTTP status when the failure came from a response, else 0
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("engine %s: %s failure: status %d: %v", e.Engine, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("engine %s: %s failure: %v", e.Engine, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient engine failure.
func IsTransient(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Kind == Transient
}

// IsFatal reports whether err is a fatal engine failure.
func IsFatal(err error) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Kind == Fatal
}

// classifyStatus maps an HTTP response status to a failure kind.
// Auth and validation rejections will fail identically on any retry; server
// errors and throttling may clear on the fallback engine.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return Transient
	case status >= 500:
		return Transient
	case status >= 400:
		return Fatal
	default:
		return Transient
	}
}

// transportError wraps a failure that happened before any HTTP status was
// received. Cancellation and deadline expiry are transient like any other
// network fault.
func transportError(name string, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Engine: name, Kind: Transient, Err: fmt.Errorf("request timed out: %w", err)}
	}
	return &Error{Engine: name, Kind: Transient, Err: err}
}
