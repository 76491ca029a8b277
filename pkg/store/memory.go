package store

import (
	"context"
	"sync"

	"github.com/ourohead/ourohead/pkg/definition"
)

// MemoryStore keeps the definition in memory.
type MemoryStore struct {
	Notifier

	mu     sync.RWMutex
	def    *definition.APIDefinition
	closed bool
}

// NewMemoryStore returns a store seeded with a copy of initial, which may be nil.
func NewMemoryStore(initial *definition.APIDefinition) *MemoryStore {
	def := initial.Clone()
	if def == nil {
		def = &definition.APIDefinition{}
	}
	def.Normalize()
	return &MemoryStore{def: def}
}

// Load returns a copy of the current definition.
func (s *MemoryStore) Load(ctx context.Context) (*definition.APIDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.def.Clone(), nil
}

// Save replaces the definition.
func (s *MemoryStore) Save(ctx context.Context, def *definition.APIDefinition) error {
	if def == nil {
		return ErrNilInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.def = def.Clone()
	s.def.Normalize()
	saved := s.def.Clone()
	s.mu.Unlock()

	s.Notify(OperationSave, saved)
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
