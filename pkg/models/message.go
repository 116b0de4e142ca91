package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeWidgetUpdate = "widget_update"
	MessageTypeTypingFrame  = "typing_frame"
	MessageTypeEffect       = "effect"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeError        = "error"

	// Page effect events sent by the browser
	MessageTypeScroll    = "scroll"
	MessageTypePointer   = "pointer"
	MessageTypeIntersect = "intersect"
	MessageTypeAnchor    = "anchor"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SubscriptionFilter limits which games a client receives widget updates for
type SubscriptionFilter struct {
	Games []string `json:"games,omitempty"`
}

// TypingFrame is one step of a typing animation
type TypingFrame struct {
	Target    string `json:"target"` // "hero", "analytics"
	Text      string `json:"text"`
	Direction string `json:"direction"` // "rtl" or "ltr"
	DelayMs   int64  `json:"delay_ms"`
}

// EffectMessage tells the page to apply a visual change
type EffectMessage struct {
	Action   string            `json:"action"` // "toggle_class", "add_class", "set_vars", "scroll_to"
	Target   string            `json:"target"`
	Class    string            `json:"class,omitempty"`
	On       bool              `json:"on,omitempty"`
	Vars     map[string]string `json:"vars,omitempty"`
	Behavior string            `json:"behavior,omitempty"`
	Block    string            `json:"block,omitempty"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of a failed HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
