package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/board"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/chart"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/effects"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/hub"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/poller"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/render"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS configuration
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Refresher reloads games on demand
type Refresher interface {
	RefreshGame(ctx context.Context, gameID string) (models.Widget, error)
	RefreshAll(ctx context.Context, trigger string) bool
	Busy() bool
	Stats() (cycles, skipped int64)
}

// RefreshLimiter caps manual refreshes
type RefreshLimiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Deps are everything the handlers serve from
type Deps struct {
	Registry  *registry.Registry
	Board     *board.Board
	Renderer  *render.Renderer
	Refresher Refresher
	Hub       *hub.Hub
	Effects   effects.Config
	Slots     []string
	Mode      string // sheets mode, reported by /health

	// Limiter may be nil to allow every refresh
	Limiter RefreshLimiter

	Logger *slog.Logger
}

// Handler manages HTTP endpoints
type Handler struct {
	Deps
	ctx context.Context
}

// NewHandler creates a new handler. ctx outlives requests and bounds websocket
// pumps and background refreshes.
func NewHandler(ctx context.Context, deps Deps) *Handler {
	return &Handler{Deps: deps, ctx: ctx}
}

// Register mounts every route on r
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", h.Metrics)
	r.Get("/", h.Page)
	r.Get("/static/style.css", h.Stylesheet)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", h.ListGames)
		r.Get("/games/{game_id}", h.GetGame)
		r.Get("/games/{game_id}/widget", h.GetWidget)
		r.Get("/games/{game_id}/chart.png", h.GetChart)
		r.Post("/games/{game_id}/refresh", h.RefreshGame)
		r.Post("/refresh", h.RefreshAll)
		r.Get("/effects", h.GetEffects)
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "game-dashboard",
		"mode":           h.Mode,
		"active_clients": h.Hub.GetClientCount(),
		"timestamp":      time.Now().UTC(),
	})
}

// Metrics returns hub and refresh metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.Hub.GetMetrics()
	cycles, skipped := h.Refresher.Stats()
	metrics["refresh_cycles"] = cycles
	metrics["refresh_cycles_skipped"] = skipped
	respondJSON(w, http.StatusOK, metrics)
}

// Page renders the dashboard page with the current widget of every slot
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	data := render.PageData{
		Title:         "Games Dashboard",
		StylesheetURL: "/static/style.css",
		Effects:       h.Effects,
	}
	for _, id := range h.Slots {
		widget, _ := h.Board.Get(id)
		html := widget.HTML
		if widget.State == "" {
			html = h.Renderer.Loading()
		}
		data.Slots = append(data.Slots, render.PageSlot{GameID: id, Widget: html})
	}

	var buf bytes.Buffer
	if err := h.Renderer.Page(&buf, data); err != nil {
		respondError(w, h.Logger, http.StatusInternalServerError, "failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Stylesheet serves the page CSS
func (h *Handler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(render.Stylesheet())
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.Hub, effects.NewSession(h.Effects), h.Logger)

	h.Hub.Register(c)

	// Pumps use the handler context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}

// gameSummary is one entry of the games list
type gameSummary struct {
	models.GameDescriptor
	State     models.WidgetState `json:"state"`
	Message   string             `json:"message,omitempty"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

// ListGames returns every game with its current state
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	modules := h.Registry.Modules()
	out := make([]gameSummary, 0, len(modules))
	for _, m := range modules {
		desc := m.Descriptor()
		summary := gameSummary{GameDescriptor: desc}
		if widget, ok := h.Board.Get(desc.ID); ok && widget.State != "" {
			summary.State = widget.State
			summary.Message = widget.Message
			updated := widget.UpdatedAt
			summary.UpdatedAt = &updated
		}
		out = append(out, summary)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": out,
		"count": len(out),
	})
}

// GetGame returns a game's current widget
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, widget)
}

// GetWidget returns a game's widget as an HTML fragment
func (h *Handler) GetWidget(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	html := widget.HTML
	if widget.State == "" {
		html = h.Renderer.Loading()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// GetChart renders a game's chart as a PNG
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	widget, ok := h.widget(w, r)
	if !ok {
		return
	}
	if widget.Snapshot == nil {
		respondError(w, h.Logger, http.StatusNotFound, models.ErrNoData, nil)
		return
	}

	module, _ := h.Registry.Get(widget.GameID)
	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, module.Descriptor().DisplayName, widget.Snapshot); err != nil {
		var dataErr *models.DataError
		if errors.As(err, &dataErr) {
			respondError(w, h.Logger, http.StatusNotFound, dataErr.Message, nil)
			return
		}
		respondError(w, h.Logger, http.StatusInternalServerError, "failed to render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	buf.WriteTo(w)
}

// RefreshGame reloads one game now
func (h *Handler) RefreshGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	if _, err := h.Registry.Get(gameID); err != nil {
		respondError(w, h.Logger, http.StatusNotFound, "game not found", nil)
		return
	}
	if !h.allow(w, r) {
		return
	}

	// A dropped request must not leave an error widget for everyone else
	widget, err := h.Refresher.RefreshGame(h.ctx, gameID)
	if err != nil {
		var renderErr *models.RenderError
		if errors.As(err, &renderErr) {
			respondError(w, h.Logger, http.StatusConflict, renderErr.Error(), nil)
			return
		}
		respondError(w, h.Logger, http.StatusInternalServerError, "refresh failed", err)
		return
	}
	respondJSON(w, http.StatusOK, widget)
}

// RefreshAll starts a full refresh cycle in the background
func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	if h.Refresher.Busy() {
		respondError(w, h.Logger, http.StatusConflict, "refresh already in progress", nil)
		return
	}
	if !h.allow(w, r) {
		return
	}

	go h.Refresher.RefreshAll(h.ctx, poller.TriggerManual)

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "refresh started",
		"games":  h.Registry.IDs(),
	})
}

// GetEffects returns the page effects configuration
func (h *Handler) GetEffects(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Effects)
}

// widget looks up the game in the URL, writing a 404 when it is unknown
func (h *Handler) widget(w http.ResponseWriter, r *http.Request) (models.Widget, bool) {
	gameID := chi.URLParam(r, "game_id")
	if _, err := h.Registry.Get(gameID); err != nil {
		respondError(w, h.Logger, http.StatusNotFound, "game not found", nil)
		return models.Widget{}, false
	}
	widget, _ := h.Board.Get(gameID)
	widget.GameID = gameID
	return widget, true
}

// allow consumes a refresh token, writing a 429 when none is left
func (h *Handler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.Limiter == nil {
		return true
	}
	ok, err := h.Limiter.Allow(r.Context())
	if err != nil {
		// Fail open when the limiter is unreachable
		h.Logger.Warn("rate limiter unavailable", "error", err)
		return true
	}
	if !ok {
		w.Header().Set("Retry-After", "60")
		respondError(w, h.Logger, http.StatusTooManyRequests, "refresh rate limit exceeded", nil)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string, err error) {
	if err != nil {
		logger.Error(message, "error", err)
	}
	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
