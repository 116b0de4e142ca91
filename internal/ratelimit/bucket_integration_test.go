//go:build integration

package ratelimit_test

import (
	"context"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/ratelimit"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/testutil"
)

func TestTokenBucket(t *testing.T) {
	ctx := context.Background()
	tb := ratelimit.NewTokenBucket(testutil.RedisClient(t), "dashboard:ratelimit:test", 2)

	for i := 0; i < 2; i++ {
		ok, err := tb.Allow(ctx)
		if err != nil || !ok {
			t.Fatalf("call %d: expected allow, got %v %v", i, ok, err)
		}
	}

	ok, err := tb.Allow(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("third call should be limited")
	}
	if n, _ := tb.Tokens(ctx); n != 0 {
		t.Errorf("expected 0 tokens, got %d", n)
	}

	if err := tb.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if ok, _ := tb.Allow(ctx); !ok {
		t.Error("expected allow after reset")
	}
}
