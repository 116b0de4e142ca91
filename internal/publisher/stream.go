package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/redis/go-redis/v9"
)

// streamMaxLen caps each game's stream; trimming is approximate
const streamMaxLen = 1000

// StreamPublisher publishes widget updates to Redis streams
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// StreamKey is the per-game update stream
func StreamKey(gameID string) string {
	return fmt.Sprintf("dashboard.updates.%s", gameID)
}

// PublishWidgetUpdate appends a widget to its game's stream
func (p *StreamPublisher) PublishWidgetUpdate(ctx context.Context, widget models.Widget) error {
	data, err := json.Marshal(widget)
	if err != nil {
		return fmt.Errorf("marshaling widget update: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(widget.GameID),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": widget.GameID,
			"state":   string(widget.State),
		},
	}).Err()
}
