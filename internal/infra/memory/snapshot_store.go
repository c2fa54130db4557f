package memory

import (
	"context"
	"sync"

	"quizbank-service/internal/domain"
)

// SnapshotStore keeps persisted session snapshots in memory. It is the
// fallback when no Redis is configured; snapshots then survive reattaches
// within one process but not restarts.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.SessionSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.SessionSnapshot),
	}
}

func (s *SnapshotStore) Save(_ context.Context, sessionID string, snap domain.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionID] = snap
	return nil
}

func (s *SnapshotStore) Load(_ context.Context, sessionID string) (domain.SessionSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	return snap, ok, nil
}

func (s *SnapshotStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}
