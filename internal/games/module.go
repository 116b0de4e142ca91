package games

import (
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Segment colors shared by every donut
const (
	ColorPositive = "#28ca42"
	ColorNegative = "#ff5f57"
)

// base carries the descriptor common to all game modules
type base struct {
	desc models.GameDescriptor
}

func (b *base) Descriptor() models.GameDescriptor {
	return b.desc
}

// SetSource points the game at another upstream table
func (b *base) SetSource(loc models.SourceLocator) {
	b.desc.Source = loc
}

// newSnapshot starts a snapshot for rows, rejecting empty input
func (b *base) newSnapshot(rows []models.Row) (*models.StatsSnapshot, error) {
	if len(rows) == 0 {
		return nil, models.NewNoDataError(b.desc.ID)
	}
	return &models.StatsSnapshot{
		GameID:       b.desc.ID,
		TotalPlayers: len(rows),
		ComputedAt:   time.Now(),
	}, nil
}

func winLossDonut(posLabel, negLabel string, wins, losses int) *models.DonutData {
	return &models.DonutData{
		Segments: []models.Segment{
			{Label: posLabel, Value: float64(wins), Color: ColorPositive},
			{Label: negLabel, Value: float64(losses), Color: ColorNegative},
		},
	}
}

func playersRow(s *models.StatsSnapshot) models.StatRow {
	return models.StatRow{Label: "Players:", Value: fmt.Sprintf("%d", s.TotalPlayers)}
}

// SourceSetter is implemented by modules whose source can be overridden by config
type SourceSetter interface {
	SetSource(loc models.SourceLocator)
}

// All returns a fresh instance of every game, in display order
func All() []contracts.GameModule {
	return []contracts.GameModule{
		NewHumanVsAI(),
		NewFakeOrReal(),
		NewCyberTrace(),
		NewCountdown(),
		NewGuessTimeline(),
	}
}

// IDs returns every game id, in display order
func IDs() []string {
	all := All()
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.Descriptor().ID
	}
	return ids
}
