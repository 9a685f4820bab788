// Package monitor runs the background health probes for all engine slots.
//
// The monitor is fully decoupled from request traffic: it condemns a slot
// after a configurable streak of failed probes and restores it after a single
// good one. Request paths only ever read the resulting availability flag.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/valpere/mortgate/internal/engine"
)

const (
	// DefaultInterval between probe rounds.
	DefaultInterval = 60 * time.Second
	// DefaultFailureThreshold is the consecutive-failure count that flips a
	// slot to unhealthy. Recovery takes a single good probe.
	DefaultFailureThreshold = 3
	// probeTimeout bounds a single probe call so one hung backend cannot
	// stall the whole round.
	probeTimeout = 30 * time.Second
)

// Monitor periodically probes a set of engines and maintains each slot's
// availability flag.
type Monitor struct {
	engines   []engine.Engine
	interval  time.Duration
	threshold int
	logger    *log.Logger
}

// New builds a monitor for the given engines. Non-positive interval or
// threshold fall back to the defaults.
func New(engines []engine.Engine, interval time.Duration, threshold int, logger *log.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	return &Monitor{
		engines:   engines,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
	}
}

// Start launches the probe loop on its own goroutine. The loop runs one
// round immediately, then every interval until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	m.ProbeAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ProbeAll(ctx)
		}
	}
}

// ProbeAll runs one probe round over every engine. Exported so a one-shot
// round can be forced at startup or from tests.
func (m *Monitor) ProbeAll(ctx context.Context) {
	for _, eng := range m.engines {
		select {
		case <-ctx.Done():
			return
		default:
		}
		m.probe(ctx, eng)
	}
}

func (m *Monitor) probe(ctx context.Context, eng engine.Engine) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	slot := eng.Slot()
	if err := eng.Probe(probeCtx); err != nil {
		if slot.RecordProbeFailure(m.threshold) {
			m.logf("[monitor] %s engine condemned after %d consecutive failed probes: %v",
				eng.Name(), slot.ConsecutiveFailures(), err)
		} else {
			m.logf("[monitor] %s engine probe failed (%d/%d): %v",
				eng.Name(), slot.ConsecutiveFailures(), m.threshold, err)
		}
		return
	}

	if slot.RecordProbeSuccess() {
		m.logf("[monitor] %s engine is available again", eng.Name())
	}
}

func (m *Monitor) logf(format string, args ...any) {
	if m.logger == nil {
		return
	}
	m.logger.Printf(format, args...)
}
