// Package engine wraps the backend translation services behind a single
// adapter contract: build a chat-completion request from the current context
// window, perform the outbound call, classify failures, and hand back
// count-validated segments.
//
// Exactly two adapter variants exist: the remote completion-style service
// and the locally hosted equivalent, chosen at construction time.
package engine

import (
	"context"
	"log"
)

// Request is a decoded translation request handed to an adapter by the
// router. Segments is the ordered MORT decomposition of the client text.
type Request struct {
	Segments   []string
	SourceLang string
	TargetLang string
	RequestID  string
}

// Result is a successful adapter outcome. Segments holds the translated
// segments in input order; count symmetry with the request has already been
// validated.
type Result struct {
	Segments []string
	Model    string
}

// Engine is the adapter contract shared by the remote and local backends.
type Engine interface {
	// Name returns a stable identifier for logs and results.
	Name() string

	// Slot returns the health-tracked backend handle this engine wraps.
	Slot() *Slot

	// Translate performs one outbound translation call. It returns a
	// count-validated result, a *segment.MismatchError, or an *Error
	// classified as Transient or Fatal.
	Translate(ctx context.Context, req Request) (*Result, error)

	// Probe issues a minimal liveness request against the backend,
	// independent of user traffic.
	Probe(ctx context.Context) error
}

// logf writes a request-scoped log line. Logging never affects translation
// outcomes; a nil logger drops the line.
func logf(logger *log.Logger, requestID, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf("["+requestID+"] "+format, args...)
}
