package contracts

import (
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// GameModule is the pluggable per-game statistics strategy.
// Each game interprets fixed column positions of its rows.
type GameModule interface {
	// Identification and layout
	Descriptor() models.GameDescriptor

	// ComputeStats derives a snapshot from data rows (header already removed).
	// It must be pure: same rows, same snapshot (apart from ComputedAt).
	ComputeStats(rows []models.Row) (*models.StatsSnapshot, error)

	// StatRows returns the labelled lines shown above the chart
	StatRows(snapshot *models.StatsSnapshot) []models.StatRow
}
