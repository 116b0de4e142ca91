package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/retry"
)

var errBoom = errors.New("boom")

func TestExecute_SucceedsAfterRetries(t *testing.T) {
	policy := retry.NewRetryPolicy(3, time.Millisecond, nil)

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecute_GivesUp(t *testing.T) {
	policy := retry.NewRetryPolicy(2, time.Millisecond, nil)

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return errBoom
	})

	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped errBoom, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestExecute_PermanentErrorStops(t *testing.T) {
	policy := retry.NewRetryPolicy(5, time.Millisecond, func(error) bool { return false })

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return errBoom
	})

	if err != errBoom {
		t.Fatalf("expected errBoom unwrapped, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	policy := retry.NewRetryPolicy(5, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := policy.Execute(ctx, func() error {
		calls++
		return errBoom
	})

	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped errBoom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before abort, got %d", calls)
	}
}
