package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a mirrored snapshot outlives its refresh
const DefaultTTL = 10 * time.Minute

// RedisWriter mirrors computed snapshots into Redis for external readers
type RedisWriter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client, ttl time.Duration) *RedisWriter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisWriter{
		client: client,
		ttl:    ttl,
	}
}

// SnapshotKey is the key a game's latest snapshot is stored under
func SnapshotKey(gameID string) string {
	return fmt.Sprintf("dashboard:game:%s:snapshot", gameID)
}

// StateKey is the key a game's widget state is stored under
func StateKey(gameID string) string {
	return fmt.Sprintf("dashboard:game:%s:state", gameID)
}

// WriteSnapshot stores the snapshot and marks the game ready
func (w *RedisWriter) WriteSnapshot(ctx context.Context, snapshot *models.StatsSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, SnapshotKey(snapshot.GameID), data, w.ttl)
	pipe.Set(ctx, StateKey(snapshot.GameID), string(models.WidgetReady), w.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing snapshot for %s: %w", snapshot.GameID, err)
	}
	return nil
}

// WriteState stores a game's widget state without a snapshot
func (w *RedisWriter) WriteState(ctx context.Context, gameID string, state models.WidgetState) error {
	return w.client.Set(ctx, StateKey(gameID), string(state), w.ttl).Err()
}
