package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quizbank-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists session snapshots as JSON blobs in Redis, one key
// per session with a sliding TTL. The question bank is never part of the
// snapshot, so the stored value stays small regardless of bank size.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Save(ctx context.Context, sessionID string, snap domain.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

func (s *SnapshotStore) Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return domain.SessionSnapshot{}, false, nil
	}
	if err != nil {
		return domain.SessionSnapshot{}, false, err
	}
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.SessionSnapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SnapshotStore) key(sessionID string) string {
	return "quiz:snapshot:" + sessionID
}
