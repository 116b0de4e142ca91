//go:build integration

package dedup_test

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/dedup"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/testutil"
)

func TestShouldPublish(t *testing.T) {
	ctx := context.Background()
	d := dedup.NewDeduplicator(testutil.RedisClient(t), time.Minute)

	steps := []struct {
		game string
		html string
		want bool
	}{
		{"countdown", "<p>ready</p>", true},
		{"countdown", "<p>ready</p>", false},
		{"countdown", "<p>error</p>", true},
		{"countdown", "<p>ready</p>", true}, // recovery after an error publishes again
		{"cybertrace", "<p>ready</p>", true},
	}

	for i, s := range steps {
		got, err := d.ShouldPublish(ctx, s.game, s.html)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got != s.want {
			t.Errorf("step %d (%s %s): expected %v, got %v", i, s.game, s.html, s.want, got)
		}
	}

	if err := d.Clear(ctx, "countdown"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if ok, _ := d.ShouldPublish(ctx, "countdown", "<p>ready</p>"); !ok {
		t.Error("cleared game should publish again")
	}
}
