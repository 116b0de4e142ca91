package loadlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/poller"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS dashboard_load_logs (
	id          BIGSERIAL PRIMARY KEY,
	game_id     TEXT        NOT NULL,
	state       TEXT        NOT NULL,
	message     TEXT        NOT NULL DEFAULT '',
	row_count   INTEGER     NOT NULL,
	latency_ms  INTEGER     NOT NULL,
	trigger_source TEXT        NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL
)`

// LoadLogger writes load attempts to the dashboard_load_logs table
type LoadLogger struct {
	db *sql.DB
}

// NewLoadLogger creates a new load logger
func NewLoadLogger(db *sql.DB) *LoadLogger {
	return &LoadLogger{
		db: db,
	}
}

// EnsureSchema creates the log table if it does not exist
func (l *LoadLogger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create load log table: %w", err)
	}
	return nil
}

// RecordLoad implements poller.LoadRecorder
func (l *LoadLogger) RecordLoad(ctx context.Context, record poller.LoadRecord) error {
	query := `
		INSERT INTO dashboard_load_logs (
			game_id, state, message, row_count, latency_ms, trigger_source, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := l.db.ExecContext(ctx, query,
		record.GameID,
		string(record.State),
		record.Message,
		record.Rows,
		record.Latency.Milliseconds(),
		record.Trigger,
		record.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log load: %w", err)
	}

	return nil
}

// Recent returns the latest load attempts for a game, newest first
func (l *LoadLogger) Recent(ctx context.Context, gameID string, limit int) ([]poller.LoadRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT game_id, state, message, row_count, latency_ms, trigger_source, started_at
		FROM dashboard_load_logs
		WHERE game_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load logs: %w", err)
	}
	defer rows.Close()

	var out []poller.LoadRecord
	for rows.Next() {
		var (
			rec       poller.LoadRecord
			state     string
			latencyMs int64
		)
		if err := rows.Scan(&rec.GameID, &state, &rec.Message, &rec.Rows, &latencyMs, &rec.Trigger, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan load log: %w", err)
		}
		rec.State = models.WidgetState(state)
		rec.Latency = time.Duration(latencyMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
