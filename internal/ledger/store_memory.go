package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps ledger entries in process memory. Used by tests and dry
// runs; contents are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []json.RawMessage
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReadAll returns a copy of all stored entries in append order.
func (s *MemoryStore) ReadAll(_ context.Context) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]json.RawMessage, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Append stores one entry after all existing ones.
func (s *MemoryStore) Append(_ context.Context, entry any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, raw)
	return nil
}
