// Package memory provides in-process adapters for the onclick ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/onclick/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[string]any
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]any),
	}
}

// Save persists a copy of the snapshot.
func (s *Store) Save(ctx context.Context, worldID string, snapshot map[string]any) error {
	copied := clone(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[worldID] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored snapshot.
func (s *Store) Load(ctx context.Context, worldID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.data[worldID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return clone(snapshot), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, worldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, worldID)
	return nil
}

// List returns the stored world ids in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
