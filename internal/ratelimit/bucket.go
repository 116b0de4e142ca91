package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refillPeriod = time.Minute

// TokenBucket caps manual refreshes with a shared Redis counter. The key
// expires one refill period after it was first filled, which refills it.
type TokenBucket struct {
	client    *redis.Client
	key       string
	maxTokens int
}

// NewTokenBucket creates a bucket holding maxTokens per minute
func NewTokenBucket(client *redis.Client, key string, maxTokens int) *TokenBucket {
	return &TokenBucket{client: client, key: key, maxTokens: maxTokens}
}

// Allow takes a token and reports whether one was available
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	var left *redis.IntCmd
	_, err := tb.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, tb.key, tb.maxTokens, refillPeriod)
		left = pipe.Decr(ctx, tb.key)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to take refresh token: %w", err)
	}

	if left.Val() < 0 {
		// Give back the overdraft so Tokens never reports a negative count
		tb.client.Incr(ctx, tb.key)
		return false, nil
	}
	return true, nil
}

// Tokens returns the tokens left in the current period
func (tb *TokenBucket) Tokens(ctx context.Context) (int, error) {
	tokens, err := tb.client.Get(ctx, tb.key).Int()
	if errors.Is(err, redis.Nil) {
		return tb.maxTokens, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read refresh tokens: %w", err)
	}
	return tokens, nil
}

// Reset refills the bucket
func (tb *TokenBucket) Reset(ctx context.Context) error {
	return tb.client.Del(ctx, tb.key).Err()
}
