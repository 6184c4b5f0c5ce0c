// Package logring keeps a bounded in-memory ring of request metadata for
// the observability endpoint. Entries hold counts, categories, and scores
// only; raw text, placeholder values, and rehydration contents are never
// admitted.
package logring

import (
	"sync"
	"time"
)

// Capacity is the maximum number of entries retained. The oldest entry is
// evicted when a new one would exceed it.
const Capacity = 200

// Entry is one recorded request. Values must be metadata, never payloads.
type Entry struct {
	Timestamp   time.Time      `json:"timestamp"`
	RequestID   string         `json:"request_id"`
	Route       string         `json:"route"`
	EntityCount int            `json:"entity_count"`
	Category    string         `json:"category"`
	RiskScore   int            `json:"risk_score"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Ring is a fixed-capacity, concurrency-safe event buffer.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	start   int
	count   int
}

// New creates a Ring with the default Capacity.
func New() *Ring {
	return NewWithCapacity(Capacity)
}

// NewWithCapacity creates a Ring holding at most n entries. n must be > 0.
func NewWithCapacity(n int) *Ring {
	if n <= 0 {
		n = Capacity
	}
	return &Ring{entries: make([]Entry, n)}
}

// Add records an entry, evicting the oldest when full. A zero Timestamp is
// stamped with the current time.
func (r *Ring) Add(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := (r.start + r.count) % len(r.entries)
	if r.count == len(r.entries) {
		r.start = (r.start + 1) % len(r.entries)
		r.count--
	}
	r.entries[idx] = e
	r.count++
}

// Len returns the number of retained entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Snapshot returns the retained entries, newest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, r.count)
	for i := 0; i < r.count; i++ {
		// newest first: walk backwards from the most recent slot
		idx := (r.start + r.count - 1 - i) % len(r.entries)
		out[i] = r.entries[idx]
	}
	return out
}
