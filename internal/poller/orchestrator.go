package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/board"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/render"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// SnapshotCache mirrors finished loads somewhere outside the process
type SnapshotCache interface {
	WriteSnapshot(ctx context.Context, snapshot *models.StatsSnapshot) error
	WriteState(ctx context.Context, gameID string, state models.WidgetState) error
}

// UpdatePublisher announces finished widgets to other consumers
type UpdatePublisher interface {
	PublishWidgetUpdate(ctx context.Context, widget models.Widget) error
}

// LoadRecord describes one finished load attempt
type LoadRecord struct {
	GameID    string
	State     models.WidgetState
	Message   string
	Rows      int
	Latency   time.Duration
	Trigger   string
	StartedAt time.Time
}

// LoadRecorder keeps an audit trail of load attempts
type LoadRecorder interface {
	RecordLoad(ctx context.Context, record LoadRecord) error
}

// Load triggers
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// PublishGate decides whether a widget's HTML is new enough to publish
type PublishGate interface {
	ShouldPublish(ctx context.Context, gameID, html string) (bool, error)
}

// Orchestrator loads games into the board: fetch, compute, render
type Orchestrator struct {
	registry *registry.Registry
	source   providers.RowSource
	board    *board.Board
	renderer *render.Renderer
	slots    map[string]bool
	logger   *slog.Logger

	cache     SnapshotCache
	publisher UpdatePublisher
	gate      PublishGate
	recorder  LoadRecorder

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewOrchestrator creates an orchestrator; slots lists the games the page can display
func NewOrchestrator(
	reg *registry.Registry,
	source providers.RowSource,
	b *board.Board,
	renderer *render.Renderer,
	slots []string,
	logger *slog.Logger,
) *Orchestrator {
	slotSet := make(map[string]bool, len(slots))
	for _, id := range slots {
		slotSet[id] = true
	}
	return &Orchestrator{
		registry: reg,
		source:   source,
		board:    b,
		renderer: renderer,
		slots:    slotSet,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// WithCache mirrors every finished load into cache
func (o *Orchestrator) WithCache(cache SnapshotCache) *Orchestrator {
	o.cache = cache
	return o
}

// WithPublisher publishes finished widgets; gate may be nil to publish every load
func (o *Orchestrator) WithPublisher(publisher UpdatePublisher, gate PublishGate) *Orchestrator {
	o.publisher = publisher
	o.gate = gate
	return o
}

// WithRecorder records every load attempt
func (o *Orchestrator) WithRecorder(recorder LoadRecorder) *Orchestrator {
	o.recorder = recorder
	return o
}

// LoadAll loads every game in registry order, recording trigger as the cause.
// One game's failure never stops the others.
func (o *Orchestrator) LoadAll(ctx context.Context, trigger string) {
	for _, id := range o.registry.IDs() {
		if ctx.Err() != nil {
			return
		}
		if _, err := o.load(ctx, id, trigger); err != nil {
			o.logger.Warn("game skipped", "game", id, "error", err)
		}
	}
}

// LoadGame refreshes one game's widget. Fetch and data failures end up on the
// board as error widgets; only an unknown game or a game without a slot is
// returned as an error.
func (o *Orchestrator) LoadGame(ctx context.Context, gameID string) (models.Widget, error) {
	return o.load(ctx, gameID, TriggerManual)
}

func (o *Orchestrator) load(ctx context.Context, gameID, trigger string) (models.Widget, error) {
	module, err := o.registry.Get(gameID)
	if err != nil {
		return models.Widget{}, err
	}
	if !o.slots[gameID] {
		return models.Widget{}, &models.RenderError{GameID: gameID, Reason: "no dashboard slot"}
	}

	lock := o.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	widget, rows := o.run(ctx, module)

	if o.recorder != nil {
		record := LoadRecord{
			GameID:    gameID,
			State:     widget.State,
			Message:   widget.Message,
			Rows:      rows,
			Latency:   time.Since(start),
			Trigger:   trigger,
			StartedAt: start,
		}
		if err := o.recorder.RecordLoad(ctx, record); err != nil {
			o.logger.Warn("load record failed", "game", gameID, "error", err)
		}
	}
	return widget, nil
}

// run performs fetch, compute and render, returning the final widget and the data row count
func (o *Orchestrator) run(ctx context.Context, module contracts.GameModule) (models.Widget, int) {
	desc := module.Descriptor()
	gameID := desc.ID
	logger := o.logger.With("game", gameID)
	start := time.Now()

	o.board.Set(models.Widget{
		GameID:    gameID,
		State:     models.WidgetLoading,
		HTML:      o.renderer.Loading(),
		UpdatedAt: time.Now(),
	})

	rows, err := o.source.FetchRows(ctx, desc.Source)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return o.fail(ctx, gameID, "Error: "+err.Error()), 0
	}

	if desc.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	snapshot, err := module.ComputeStats(rows)
	if err != nil {
		var dataErr *models.DataError
		if errors.As(err, &dataErr) {
			logger.Info("no data", "rows", len(rows))
			return o.fail(ctx, gameID, dataErr.Message), len(rows)
		}
		logger.Error("compute failed", "error", err)
		return o.fail(ctx, gameID, "Error: "+err.Error()), len(rows)
	}

	html, err := o.renderer.Widget(module, snapshot)
	if err != nil {
		logger.Error("render failed", "error", err)
		return o.fail(ctx, gameID, "Error: "+err.Error()), len(rows)
	}

	widget := models.Widget{
		GameID:    gameID,
		State:     models.WidgetReady,
		HTML:      html,
		Snapshot:  snapshot,
		UpdatedAt: time.Now(),
	}
	o.board.Set(widget)

	if o.cache != nil {
		if err := o.cache.WriteSnapshot(ctx, snapshot); err != nil {
			logger.Warn("cache write failed", "error", err)
		}
	}
	o.publish(ctx, widget)

	logger.Info("game loaded",
		"players", snapshot.TotalPlayers,
		"duration", time.Since(start))
	return widget, len(rows)
}

// fail records an error widget and mirrors the state
func (o *Orchestrator) fail(ctx context.Context, gameID, message string) models.Widget {
	widget := models.Widget{
		GameID:    gameID,
		State:     models.WidgetError,
		HTML:      o.renderer.Error(message),
		Message:   message,
		UpdatedAt: time.Now(),
	}
	o.board.Set(widget)

	if o.cache != nil {
		if err := o.cache.WriteState(ctx, gameID, models.WidgetError); err != nil {
			o.logger.Warn("cache write failed", "game", gameID, "error", err)
		}
	}
	o.publish(ctx, widget)
	return widget
}

func (o *Orchestrator) publish(ctx context.Context, widget models.Widget) {
	if o.publisher == nil {
		return
	}
	if o.gate != nil {
		ok, err := o.gate.ShouldPublish(ctx, widget.GameID, string(widget.HTML))
		if err != nil {
			o.logger.Warn("dedup check failed", "game", widget.GameID, "error", err)
		} else if !ok {
			return
		}
	}
	if err := o.publisher.PublishWidgetUpdate(ctx, widget); err != nil {
		o.logger.Warn("publish failed", "game", widget.GameID, "error", err)
	}
}

func (o *Orchestrator) lockFor(gameID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()
	l, ok := o.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[gameID] = l
	}
	return l
}
