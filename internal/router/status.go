package router

import (
	"time"

	"github.com/valpere/mortgate/internal/config"
)

// SlotStatus is the health view of one engine slot.
type SlotStatus struct {
	Role                string    `json:"role"`
	Model               string    `json:"model"`
	Availability        string    `json:"availability"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastProbe           time.Time `json:"last_probe,omitempty"`
}

// HealthStatus is the gateway-level health report.
type HealthStatus struct {
	Status string       `json:"status"`
	Mode   string       `json:"mode"`
	Slots  []SlotStatus `json:"slots"`
}

// SlotSettings is the redacted configuration view of one engine slot.
// Credentials are reduced to a has-key flag and never leave the process.
type SlotSettings struct {
	Role           string  `json:"role"`
	Endpoint       string  `json:"endpoint"`
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ContextEnabled bool    `json:"context_enabled"`
	HasKey         bool    `json:"has_key"`
}

// ConfigStatus is the redacted configuration report.
type ConfigStatus struct {
	Mode      string         `json:"mode"`
	Separator string         `json:"separator"`
	Slots     []SlotSettings `json:"slots"`
}

// Health reports the mode and the per-slot availability snapshot. Reads are
// lock-free and may lag a racing probe by one interval.
func (r *Router) Health() HealthStatus {
	status := HealthStatus{
		Status: "healthy",
		Mode:   string(r.mode),
		Slots:  make([]SlotStatus, 0, len(r.engines)),
	}

	anyUsable := false
	for _, eng := range r.engines {
		slot := eng.Slot()
		if slot.Usable() {
			anyUsable = true
		}
		status.Slots = append(status.Slots, SlotStatus{
			Role:                string(slot.Role),
			Model:               slot.Model,
			Availability:        slot.Availability().String(),
			ConsecutiveFailures: slot.ConsecutiveFailures(),
			LastProbe:           slot.LastProbe(),
		})
	}
	if !anyUsable {
		status.Status = "degraded"
	}
	return status
}

// ConfigSnapshot reports the per-slot settings with credentials redacted.
func (r *Router) ConfigSnapshot() ConfigStatus {
	snap := ConfigStatus{
		Mode:      string(r.mode),
		Separator: r.sep,
		Slots:     make([]SlotSettings, 0, len(r.engines)),
	}
	for _, eng := range r.engines {
		slot := eng.Slot()
		snap.Slots = append(snap.Slots, SlotSettings{
			Role:           string(slot.Role),
			Endpoint:       slot.Endpoint,
			Model:          slot.Model,
			Temperature:    slot.Temperature,
			ContextEnabled: slot.History.Enabled(),
			HasKey:         slot.HasKey(),
		})
	}
	return snap
}

// Mode returns the configured routing mode.
func (r *Router) Mode() config.Mode {
	return r.mode
}

// Separator returns the MORT separator token in use.
func (r *Router) Separator() string {
	return r.sep
}
