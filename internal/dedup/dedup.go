package dedup

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator suppresses publishing a widget whose HTML matches the last one
// published for the same game
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    ttl,
	}
}

// ShouldPublish records html as the game's latest fragment and reports
// whether it differs from the previous one. The swap is a single SET ... GET.
func (d *Deduplicator) ShouldPublish(ctx context.Context, gameID, html string) (bool, error) {
	hash := Hash(html)
	prev, err := d.client.SetArgs(ctx, Key(gameID), hash, redis.SetArgs{
		Get: true,
		TTL: d.ttl,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to swap dedup hash: %w", err)
	}
	return prev != hash, nil
}

// Clear forgets the game's last published fragment
func (d *Deduplicator) Clear(ctx context.Context, gameID string) error {
	return d.client.Del(ctx, Key(gameID)).Err()
}

// Key is dashboard:dedup:{game}
func Key(gameID string) string {
	return "dashboard:dedup:" + gameID
}

// Hash fingerprints a rendered fragment
func Hash(html string) string {
	sum := sha256.Sum256([]byte(html))
	return fmt.Sprintf("%x", sum[:8])
}
