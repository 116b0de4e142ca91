package models

import (
	"html/template"
	"time"
)

// WidgetState is the display state of a game's widget
type WidgetState string

const (
	WidgetLoading WidgetState = "loading"
	WidgetReady   WidgetState = "ready"
	WidgetError   WidgetState = "error"
)

// Widget is what a game's dashboard slot currently shows
type Widget struct {
	GameID    string         `json:"game_id"`
	State     WidgetState    `json:"state"`
	HTML      template.HTML  `json:"html"`
	Message   string         `json:"message,omitempty"`
	Snapshot  *StatsSnapshot `json:"snapshot,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}
