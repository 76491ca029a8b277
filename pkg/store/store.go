// Package store persists the API definition.
//
// Backends:
//   - file:   a JSON or YAML document, written atomically
//   - sqlite: an embedded database with versioned migrations
//   - memory: no persistence, for tests and throwaway sessions
//
// Use backend.Open to construct one from configuration.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ourohead/ourohead/pkg/definition"
)

// Common errors.
var (
	ErrReadOnly = errors.New("store is read-only")
	ErrClosed   = errors.New("store is closed")
	ErrNilInput = errors.New("definition is nil")
	ErrNotFound = errors.New("not found")
)

// Backend names a storage backend.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Config holds store configuration.
type Config struct {
	Backend Backend

	// Path is the definition file (file backend) or database file (sqlite).
	// Empty selects a file in DataDir.
	Path string

	// DataDir is used when Path is empty.
	DataDir string

	ReadOnly bool
	Logger   *slog.Logger
}

// Store loads and saves the API definition.
type Store interface {
	// Load returns the stored definition, or an empty one when nothing has
	// been saved yet.
	Load(ctx context.Context) (*definition.APIDefinition, error)

	// Save replaces the stored definition and notifies listeners.
	Save(ctx context.Context, def *definition.APIDefinition) error

	// AddChangeListener registers fn to be called after each successful save.
	AddChangeListener(fn ChangeListener)

	Close() error
}

// Operations reported in ChangeEvent.
const (
	OperationSave = "save"
)

// ChangeEvent describes a persisted change.
type ChangeEvent struct {
	Operation  string                    `json:"operation"`
	Endpoints  int                       `json:"endpoints"`
	Timestamp  int64                     `json:"timestamp"`
	Definition *definition.APIDefinition `json:"definition,omitempty"`
}

// ChangeListener is called when the definition changes.
type ChangeListener func(event ChangeEvent)

// Notifier fans change events out to listeners. Backends embed it.
// Each listener receives events one at a time, in save order.
type Notifier struct {
	mu        sync.RWMutex
	listeners []*listenerQueue
	wg        sync.WaitGroup
}

// listenerQueue delivers events to one listener serially. A drain goroutine
// runs only while events are pending.
type listenerQueue struct {
	fn ChangeListener

	mu       sync.Mutex
	pending  []ChangeEvent
	draining bool
}

// AddChangeListener registers fn.
func (n *Notifier) AddChangeListener(fn ChangeListener) {
	if fn == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, &listenerQueue{fn: fn})
}

// Notify queues an event with a copy of def for every listener and returns
// without waiting for delivery. A panicking listener does not affect the
// store, other listeners or later events.
func (n *Notifier) Notify(op string, def *definition.APIDefinition) {
	n.mu.RLock()
	listeners := make([]*listenerQueue, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	count := 0
	if def != nil {
		count = len(def.Endpoints)
	}
	now := time.Now().UnixMilli()
	for _, q := range listeners {
		q.push(&n.wg, ChangeEvent{Operation: op, Endpoints: count, Timestamp: now, Definition: def.Clone()})
	}
}

func (q *listenerQueue) push(wg *sync.WaitGroup, event ChangeEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, event)
	if q.draining {
		return
	}
	q.draining = true
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.drain()
	}()
}

func (q *listenerQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		event := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.deliver(event)
	}
}

func (q *listenerQueue) deliver(event ChangeEvent) {
	defer func() { _ = recover() }()
	q.fn(event)
}

// Wait blocks until in-flight listener calls return.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
