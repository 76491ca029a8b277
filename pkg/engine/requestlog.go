package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ourohead/ourohead/internal/matching"
)

// DefaultRequestLogSize bounds the in-memory request history.
const DefaultRequestLogSize = 1000

// RequestEntry records one request served by the engine.
type RequestEntry struct {
	ID         string              `json:"id"`
	Timestamp  time.Time           `json:"timestamp"`
	Method     string              `json:"method"`
	Path       string              `json:"path"`
	Query      string              `json:"query,omitempty"`
	Status     int                 `json:"status"`
	Endpoint   string              `json:"endpoint,omitempty"`
	DurationMs int64               `json:"durationMs"`
	NearMisses []matching.NearMiss `json:"nearMisses,omitempty"`
}

// RequestLog is a fixed-size FIFO of recent requests.
type RequestLog struct {
	mu         sync.RWMutex
	entries    []RequestEntry
	maxEntries int
}

// NewRequestLog creates a log holding up to maxEntries requests.
func NewRequestLog(maxEntries int) *RequestLog {
	if maxEntries <= 0 {
		maxEntries = DefaultRequestLogSize
	}
	return &RequestLog{
		entries:    make([]RequestEntry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Add records entry, evicting the oldest when full.
func (l *RequestLog) Add(entry RequestEntry) {
	if entry.ID == "" {
		entry.ID = newEntryID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) >= l.maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (l *RequestLog) List(limit int) []RequestEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]RequestEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of stored entries.
func (l *RequestLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes every entry.
func (l *RequestLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// newEntryID returns a time-ordered id.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
