package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/valpere/mortgate/internal/segment"
)

// Local adapts the locally hosted backend (an Ollama-style server exposing
// the same chat-completion surface). It is the only slot in local mode and
// has no failover partner.
type Local struct {
	slot   *Slot
	sep    string
	client *http.Client
	logger *log.Logger

	warmup sync.Once
}

// NewLocal builds the adapter for the local slot.
func NewLocal(slot *Slot, sep string, logger *log.Logger) *Local {
	return &Local{
		slot:   slot,
		sep:    sep,
		client: &http.Client{Timeout: defaultCallTimeout},
		logger: logger,
	}
}

func (e *Local) Name() string {
	return string(RoleLocal)
}

func (e *Local) Slot() *Slot {
	return e.slot
}

// Translate sends the segment-joined text to the local backend, warming the
// model up first on the very first request.
func (e *Local) Translate(ctx context.Context, req Request) (*Result, error) {
	e.warmup.Do(func() { e.warmupModel(ctx, req.RequestID) })

	text := segment.Encode(req.Segments, e.sep)
	snapshot := e.slot.History.Snapshot()

	messages := buildMessages(req.SourceLang, req.TargetLang, e.sep, text, snapshot)
	logf(e.logger, req.RequestID, "sending %d segments to %s (%s)",
		len(req.Segments), e.Name(), e.slot.Model)

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

// Probe checks local backend liveness with a minimal completion request.
func (e *Local) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return doProbe(ctx, e.client, e.Name(), e.slot)
}

// warmupModel asks an Ollama host to load the model into memory ahead of the
// first real request, so the first translation does not pay the cold-start
// cost. Non-Ollama endpoints skip the warmup. Failures are logged and
// ignored; warmup is an optimization, not a precondition.
func (e *Local) warmupModel(ctx context.Context, requestID string) {
	const chatPath = "/v1/chat/completions"
	if !strings.Contains(e.slot.Endpoint, chatPath) || !strings.Contains(e.slot.Endpoint, "11434") {
		logf(e.logger, requestID, "host is not Ollama, warmup skipped")
		return
	}

	warmupURL := strings.Replace(e.slot.Endpoint, chatPath, "/api/generate", 1)
	body, _ := json.Marshal(map[string]any{
		"model":      e.slot.Model,
		"prompt":     "ping",
		"keep_alive": "60m",
	})

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, warmupURL, bytes.NewBuffer(body))
	if err != nil {
		logf(e.logger, requestID, "ollama warmup failed: %v", err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		logf(e.logger, requestID, "ollama warmup failed: %v", err)
		return
	}
	resp.Body.Close()
	logf(e.logger, requestID, "ollama warmup command sent")
}
