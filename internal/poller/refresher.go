package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// DefaultInterval is how often every game is reloaded
const DefaultInterval = 5 * time.Minute

// Refresher reloads all games on a fixed interval and on demand
type Refresher struct {
	orch     *Orchestrator
	interval time.Duration
	logger   *slog.Logger
	inFlight atomic.Bool
	cycles   atomic.Int64
	skipped  atomic.Int64
}

// NewRefresher creates a refresher
func NewRefresher(orch *Orchestrator, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		orch:     orch,
		interval: interval,
		logger:   logger,
	}
}

// Run loads every game once, then again on each tick until ctx is done
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("starting refresher", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RefreshAll(ctx, TriggerScheduled)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping refresher")
			return
		case <-ticker.C:
			r.RefreshAll(ctx, TriggerScheduled)
		}
	}
}

// RefreshAll runs one full cycle on behalf of trigger. It returns false
// without loading anything when another cycle is still running.
func (r *Refresher) RefreshAll(ctx context.Context, trigger string) bool {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.logger.Warn("refresh cycle skipped, previous cycle still running")
		return false
	}
	defer r.inFlight.Store(false)

	start := time.Now()
	r.orch.LoadAll(ctx, trigger)
	r.cycles.Add(1)
	r.logger.Info("refresh cycle complete", "trigger", trigger, "duration", time.Since(start))
	return true
}

// Busy reports whether a full cycle is running
func (r *Refresher) Busy() bool {
	return r.inFlight.Load()
}

// RefreshGame reloads a single game
func (r *Refresher) RefreshGame(ctx context.Context, gameID string) (models.Widget, error) {
	return r.orch.LoadGame(ctx, gameID)
}

// Stats reports completed and skipped cycles
func (r *Refresher) Stats() (cycles, skipped int64) {
	return r.cycles.Load(), r.skipped.Load()
}
