package hub

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	broadcastBuffer = 1000
	metricsInterval = 30 * time.Second
)

// envelope is a queued broadcast. A non-empty gameID limits it to clients
// subscribed to that game.
type envelope struct {
	gameID  string
	message models.ServerMessage
}

// Hub fans widget updates and typing frames out to connected browsers.
// The client set is owned by the Run loop; everything else talks to it
// through channels.
type Hub struct {
	logger  *slog.Logger
	welcome func() []models.ServerMessage

	broadcast  chan envelope
	register   chan *client.Client
	unregister chan *client.Client
	done       chan struct{}

	clients map[*client.Client]struct{}

	active      atomic.Int64
	connections atomic.Int64
	delivered   atomic.Int64
	dropped     atomic.Int64
}

// NewHub creates a hub; call Run to start it
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		broadcast:  make(chan envelope, broadcastBuffer),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		clients:    make(map[*client.Client]struct{}),
	}
}

// SetWelcome sets the messages queued for each client as it registers. Call before Run.
func (h *Hub) SetWelcome(welcome func() []models.ServerMessage) {
	h.welcome = welcome
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")
	defer close(h.done)

	metrics := time.NewTicker(metricsInterval)
	defer metrics.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub stopping", "active_clients", len(h.clients))
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("client disconnected", "client", c.ID, "total", len(h.clients))
			}

		case env := <-h.broadcast:
			h.deliver(env)

		case <-metrics.C:
			h.logger.Info("hub metrics",
				"clients", h.active.Load(),
				"total_connections", h.connections.Load(),
				"messages", h.delivered.Load())
		}
	}
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastWidget sends a game's widget to every client subscribed to that game
func (h *Hub) BroadcastWidget(widget models.Widget) {
	h.enqueue(widget.GameID, models.MessageTypeWidgetUpdate, widget)
}

// BroadcastTyping sends a typing frame to every client
func (h *Hub) BroadcastTyping(frame models.TypingFrame) {
	h.enqueue("", models.MessageTypeTypingFrame, frame)
}

func (h *Hub) enqueue(gameID, msgType string, payload interface{}) {
	env := envelope{
		gameID:  gameID,
		message: models.ServerMessage{Type: msgType, Payload: payload, Timestamp: time.Now()},
	}
	select {
	case h.broadcast <- env:
	default:
		h.logger.Warn("broadcast buffer full, dropping message", "type", msgType, "game", gameID)
	}
}

func (h *Hub) add(c *client.Client) {
	h.clients[c] = struct{}{}
	h.active.Store(int64(len(h.clients)))
	h.connections.Add(1)

	if h.welcome != nil {
		for _, msg := range h.welcome() {
			c.TrySend(msg)
		}
	}
	h.logger.Info("client connected", "client", c.ID, "total", len(h.clients))
}

func (h *Hub) drop(c *client.Client) {
	delete(h.clients, c)
	h.active.Store(int64(len(h.clients)))
	c.Close()
}

// deliver hands env to every matching client. A client whose outbox is full
// is too slow to keep up and is disconnected.
func (h *Hub) deliver(env envelope) {
	sent := false
	for c := range h.clients {
		if env.gameID != "" && !c.MatchesGame(env.gameID) {
			continue
		}
		if c.TrySend(env.message) {
			sent = true
			continue
		}
		h.logger.Warn("client outbox full, disconnecting", "client", c.ID)
		h.drop(c)
		h.dropped.Add(1)
	}
	if sent {
		h.delivered.Add(1)
	}
}

// GetMetrics returns hub counters for the /metrics endpoint
func (h *Hub) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":     h.GetClientCount(),
		"total_connections":  h.connections.Load(),
		"total_messages":     h.delivered.Load(),
		"dropped_clients":    h.dropped.Load(),
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	return int(h.active.Load())
}
