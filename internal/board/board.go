package board

import (
	"sync"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Listener is notified after a game's widget changes
type Listener func(widget models.Widget)

// Board holds the latest widget for every game
type Board struct {
	mu        sync.RWMutex
	order     []string
	widgets   map[string]models.Widget
	listeners []Listener
}

// New creates a board with an empty slot per game, in display order
func New(gameIDs []string) *Board {
	b := &Board{
		order:   make([]string, len(gameIDs)),
		widgets: make(map[string]models.Widget, len(gameIDs)),
	}
	copy(b.order, gameIDs)
	for _, id := range gameIDs {
		b.widgets[id] = models.Widget{GameID: id}
	}
	return b
}

// OnUpdate registers a listener. Listeners run synchronously on the setter's goroutine.
func (b *Board) OnUpdate(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Set replaces one game's widget and notifies listeners
func (b *Board) Set(widget models.Widget) {
	b.mu.Lock()
	if _, known := b.widgets[widget.GameID]; !known {
		b.order = append(b.order, widget.GameID)
	}
	b.widgets[widget.GameID] = widget
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, l := range listeners {
		l(widget)
	}
}

// Get returns a game's widget
func (b *Board) Get(gameID string) (models.Widget, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	w, ok := b.widgets[gameID]
	return w, ok
}

// All returns every widget in display order
func (b *Board) All() []models.Widget {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Widget, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.widgets[id])
	}
	return out
}
