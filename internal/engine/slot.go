package engine

import (
	"sync/atomic"
	"time"

	"github.com/valpere/mortgate/internal/history"
)

// Role identifies which position a slot occupies in the routing decision.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleLocal     Role = "local"
)

// Availability is the health monitor's current opinion of a slot.
type Availability int32

const (
	Unknown Availability = iota
	Healthy
	Unhealthy
)

func (a Availability) String() string {
	switch a {
	case Healthy:
		return "healthy"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Slot is a configured, health-tracked handle to one translation backend.
// Slots are built once at startup and live for the process lifetime.
//
// The availability cell has two writers with disjoint responsibilities: the
// health monitor (probe outcomes) and request-path adapters (reactive
// condemnation on transient failure). Reads are lock-free and may be stale by
// up to one probe interval; the flag is a liveness heuristic, not a
// correctness guarantee.
type Slot struct {
	Role        Role
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	History     *history.Buffer

	availability atomic.Int32
	failures     atomic.Int32
	lastProbe    atomic.Int64 // unix nanos, 0 = never probed
}

// NewSlot builds a slot with its own context buffer. contextDepth controls
// the buffer capacity; contextEnabled=false yields a buffer that records
// nothing.
func NewSlot(role Role, endpoint, apiKey, model string, temperature float64, contextEnabled bool, contextDepth int) *Slot {
	return &Slot{
		Role:        role,
		Endpoint:    endpoint,
		APIKey:      apiKey,
		Model:       model,
		Temperature: temperature,
		History:     history.New(contextDepth, contextEnabled),
	}
}

// Availability returns the current health opinion.
func (s *Slot) Availability() Availability {
	return Availability(s.availability.Load())
}

// Usable reports whether the router may select this slot. A slot that has
// never been probed (Unknown) is usable; only a condemned slot is skipped.
func (s *Slot) Usable() bool {
	return s.Availability() != Unhealthy
}

// MarkUnhealthy condemns the slot immediately. Called by adapters on a
// request-path transient failure so the next selection skips the slot without
// waiting for the scheduled probe.
func (s *Slot) MarkUnhealthy() {
	s.availability.Store(int32(Unhealthy))
}

// RecordProbeSuccess resets the failure streak and restores the slot to
// healthy. A single good probe is enough to recover.
func (s *Slot) RecordProbeSuccess() (recovered bool) {
	s.failures.Store(0)
	s.lastProbe.Store(time.Now().UnixNano())
	prev := s.availability.Swap(int32(Healthy))
	return Availability(prev) == Unhealthy
}

// RecordProbeFailure increments the consecutive-failure streak and condemns
// the slot once the streak reaches threshold.
func (s *Slot) RecordProbeFailure(threshold int) (condemned bool) {
	n := s.failures.Add(1)
	s.lastProbe.Store(time.Now().UnixNano())
	if int(n) >= threshold && s.Availability() != Unhealthy {
		s.availability.Store(int32(Unhealthy))
		return true
	}
	return false
}

// ConsecutiveFailures returns the current probe failure streak.
func (s *Slot) ConsecutiveFailures() int {
	return int(s.failures.Load())
}

// LastProbe returns the time of the most recent probe, or the zero time if
// the slot has never been probed.
func (s *Slot) LastProbe() time.Time {
	n := s.lastProbe.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// HasKey reports whether a credential is configured, without exposing it.
func (s *Slot) HasKey() bool {
	return s.APIKey != ""
}
