package memory

import (
	"context"
	"sync"

	"github.com/pacerkit/pacer/pkg/ports"
	"github.com/pacerkit/pacer/pkg/runner"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*ports.RunSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*ports.RunSnapshot),
	}
}

// Save persists the snapshot in memory, replacing any previous one.
func (s *Store) Save(ctx context.Context, snap *ports.RunSnapshot) error {
	copied := copySnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.RunID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, runID string) (*ports.RunSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[runID]
	if !ok {
		return nil, ports.ErrRunNotFound
	}
	// Copy on read so callers can't mutate stored data through the pointer.
	return copySnapshot(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// copySnapshot isolates the stored value from the caller's, mirroring what
// serialization does in the durable adapters.
func copySnapshot(snap *ports.RunSnapshot) *ports.RunSnapshot {
	copied := *snap
	if snap.Context != nil {
		copied.Context = make(runner.Context, len(snap.Context))
		for k, v := range snap.Context {
			copied.Context[k] = v
		}
	}
	return &copied
}
