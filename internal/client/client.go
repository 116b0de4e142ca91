package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/effects"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// intersect events carry every observed element, so allow more than a heartbeat needs
	maxMessageSize = 16 * 1024

	outboxSize = 256
)

// Hub is the part of the broadcast hub a client reports back to
type Hub interface {
	Unregister(client *Client)
}

// Client is one browser tab connected over the websocket. It receives widget
// updates and typing frames from the hub, and answers its own page events.
type Client struct {
	ID   string
	Send chan models.ServerMessage // closed by Close

	conn    *websocket.Conn
	hub     Hub
	session *effects.Session
	logger  *slog.Logger

	closeMu sync.Mutex
	closed  bool

	filterMu sync.RWMutex
	filter   models.SubscriptionFilter
	games    map[string]struct{}

	connectedAt time.Time
	sent        atomic.Int64
	received    atomic.Int64
	lastSeen    atomic.Int64 // unix nanos, 0 until the first message
}

// NewClient wraps conn. session may be nil, in which case page effect
// events are rejected.
func NewClient(id string, conn *websocket.Conn, hub Hub, session *effects.Session, logger *slog.Logger) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan models.ServerMessage, outboxSize),
		conn:        conn,
		hub:         hub,
		session:     session,
		logger:      logger.With("client", id),
		connectedAt: time.Now(),
	}
}

// ReadPump reads client messages until the connection fails or is closed.
// WritePump closes the connection on ctx cancellation, which ends the read.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for ctx.Err() == nil {
		var msg models.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}
		c.received.Add(1)
		c.touch()
		c.HandleMessage(msg)
	}
}

// WritePump delivers queued messages and keeps the connection alive with pings
func (c *Client) WritePump(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.writeClose()
			return

		case msg, ok := <-c.Send:
			if !ok {
				c.writeClose()
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("write failed", "type", msg.Type, "error", err)
				return
			}
			c.sent.Add(1)
			c.touch()

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeClose() {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// TrySend queues msg without blocking. It reports false when the outbox is
// full or the client has been closed.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close closes the outbox, which ends WritePump. Later sends are dropped.
// It is safe to call more than once.
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// SetFilter replaces the set of games the client wants widget updates for.
// An empty filter means every game.
func (c *Client) SetFilter(filter models.SubscriptionFilter) {
	games := make(map[string]struct{}, len(filter.Games))
	for _, id := range filter.Games {
		games[id] = struct{}{}
	}

	c.filterMu.Lock()
	c.filter = filter
	c.games = games
	c.filterMu.Unlock()
}

// GetFilter returns the filter last set by the client
func (c *Client) GetFilter() models.SubscriptionFilter {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.filter
}

// MatchesGame reports whether widget updates for gameID should reach this client
func (c *Client) MatchesGame(gameID string) bool {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()

	if len(c.games) == 0 {
		return true
	}
	_, ok := c.games[gameID]
	return ok
}

// GetStats snapshots the connection's counters
func (c *Client) GetStats() models.ConnectionStats {
	stats := models.ConnectionStats{
		ClientID:          c.ID,
		ConnectedAt:       c.connectedAt,
		MessagesSent:      c.sent.Load(),
		MessagesReceived:  c.received.Load(),
		BufferSize:        outboxSize,
		BufferUtilization: float64(len(c.Send)) / outboxSize * 100,
	}
	if ns := c.lastSeen.Load(); ns != 0 {
		stats.LastMessageAt = time.Unix(0, ns)
	}
	return stats
}

// HandleMessage dispatches one client message
func (c *Client) HandleMessage(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		var filter models.SubscriptionFilter
		if err := decode(msg.Payload, &filter); err != nil {
			c.reject("invalid_filter", "failed to parse filter")
			return
		}
		c.SetFilter(filter)
		c.logger.Debug("subscribed", "games", filter.Games)

	case models.MessageTypeUnsubscribe:
		c.SetFilter(models.SubscriptionFilter{})
		c.logger.Debug("unsubscribed")

	case models.MessageTypeHeartbeat:
		c.reply(models.MessageTypeHeartbeat, c.GetStats())

	default:
		if c.session == nil || !effects.Handles(msg.Type) {
			c.reject("unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type))
			return
		}
		out, err := c.session.Handle(msg)
		if err != nil {
			c.reject("invalid_event", err.Error())
			return
		}
		for _, effect := range out {
			c.reply(models.MessageTypeEffect, effect)
		}
	}
}

func (c *Client) reply(msgType string, payload interface{}) {
	if !c.TrySend(models.ServerMessage{Type: msgType, Payload: payload, Timestamp: time.Now()}) {
		c.logger.Debug("outbox full, reply dropped", "type", msgType)
	}
}

func (c *Client) reject(code, message string) {
	c.reply(models.MessageTypeError, models.ErrorMessage{Code: code, Message: message})
}

func (c *Client) touch() {
	c.lastSeen.Store(time.Now().UnixNano())
}

// decode converts a loosely typed JSON payload into v
func decode(payload map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
