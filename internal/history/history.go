// Package history keeps a per-engine rolling window of recent translations.
//
// The window feeds the "previous dialog context" turns of the next outbound
// prompt, which conversational engines use for gender and register
// consistency across consecutive game-dialog lines. It is in-memory only and
// small; nothing here survives a restart.
package history

import "sync"

// Entry is one translated exchange: the source segment and what the engine
// produced for it.
type Entry struct {
	Source     string
	Translated string
}

// Buffer is a bounded FIFO of the most recent Entries for a single engine
// slot. A Buffer created with enabled=false accepts no entries and always
// snapshots empty, so context-insensitive engines never see stale history.
//
// Buffer is safe for concurrent use. Callers must not hold implicit ordering
// assumptions beyond request completion order, and must never call into a
// Buffer while an outbound engine call is in flight on the same goroutine
// path: snapshot before the call, push after.
type Buffer struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	enabled  bool
}

// DefaultCapacity is the window size used when the configuration does not
// override it. Two lines of dialog are enough for gender agreement without
// dragging unrelated scenes into the prompt.
const DefaultCapacity = 2

// New creates a Buffer holding at most capacity entries. Capacity 0 is an
// always-empty window; a negative capacity falls back to DefaultCapacity.
func New(capacity int, enabled bool) *Buffer {
	if capacity < 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity, enabled: enabled}
}

// Enabled reports whether the buffer records history.
func (b *Buffer) Enabled() bool {
	return b.enabled
}

// Push appends an entry, evicting the oldest when the window is full.
// It is a no-op on a disabled or zero-capacity buffer.
func (b *Buffer) Push(source, translated string) {
	if !b.enabled || b.capacity == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, Entry{Source: source, Translated: translated})
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

// Snapshot returns the current window oldest-first. The returned slice is a
// copy; callers may keep it across an outbound call without holding the lock.
func (b *Buffer) Snapshot() []Entry {
	if !b.enabled {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Clear drops all entries.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// Len returns the number of retained entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
