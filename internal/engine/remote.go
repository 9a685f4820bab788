package engine

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/valpere/mortgate/internal/segment"
)

// Remote adapts one completion-style cloud backend. Two Remote instances
// (primary and secondary slots) form the failover pair in remote mode.
type Remote struct {
	slot   *Slot
	sep    string
	client *http.Client
	logger *log.Logger
}

// NewRemote builds the adapter for a cloud slot.
func NewRemote(slot *Slot, sep string, logger *log.Logger) *Remote {
	return &Remote{
		slot:   slot,
		sep:    sep,
		client: &http.Client{Timeout: defaultCallTimeout},
		logger: logger,
	}
}

func (e *Remote) Name() string {
	return string(e.slot.Role)
}

func (e *Remote) Slot() *Slot {
	return e.slot
}

// Translate sends the segment-joined text to the cloud backend and returns
// count-validated translated segments. The context snapshot is taken before
// the call and history is pushed after it; no buffer lock spans the network
// round trip.
func (e *Remote) Translate(ctx context.Context, req Request) (*Result, error) {
	text := segment.Encode(req.Segments, e.sep)
	snapshot := e.slot.History.Snapshot()

	messages := buildMessages(req.SourceLang, req.TargetLang, e.sep, text, snapshot)
	logf(e.logger, req.RequestID, "sending %d segments to %s (%s), %d context turns",
		len(req.Segments), e.Name(), e.slot.Model, len(snapshot))

	content, err := chatCompletion(ctx, e.client, e.Name(), e.slot, messages)
	if err != nil {
		return nil, err
	}

	translated := segment.Decode(content, e.sep)
	if err := segment.Validate(len(req.Segments), len(translated)); err != nil {
		logf(e.logger, req.RequestID, "%s returned drifted segmentation: %v", e.Name(), err)
		return nil, err
	}

	for i := range req.Segments {
		e.slot.History.Push(req.Segments[i], translated[i])
	}

	return &Result{Segments: translated, Model: e.slot.Model}, nil
}

// Probe checks backend liveness with a minimal completion request.
func (e *Remote) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return doProbe(ctx, e.client, e.Name(), e.slot)
}
