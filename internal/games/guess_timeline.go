package games

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/chart"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	guessTimelineAccuracyCol = 7

	// Bars show the most recent rounds only
	guessTimelineBarCount = 7
)

// GuessTimeline implements GameModule for the Timeline game
type GuessTimeline struct {
	base
}

// NewGuessTimeline creates the Timeline module.
// Its sheet has no header row worth skipping.
func NewGuessTimeline() *GuessTimeline {
	return &GuessTimeline{base{desc: models.GameDescriptor{
		ID:          "guess-timeline",
		DisplayName: "Timeline",
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "1X97YkW6zTUAnNbYHYwP1RKYxarM510s0u_QFV3i42L8",
			Range:   "Sheet1",
		},
		Columns: []string{"Player", "Slot 1", "Slot 2", "Slot 3", "Slot 4",
			"Slot 5", "Slot 6", "Accuracy %", "When"},
		ChartKind:  models.ChartBar,
		SkipHeader: false,
	}}}
}

func (m *GuessTimeline) ComputeStats(rows []models.Row) (*models.StatsSnapshot, error) {
	s, err := m.newSnapshot(rows)
	if err != nil {
		return nil, err
	}

	accuracies := FloatColumn(rows, guessTimelineAccuracyCol)
	s.AverageScore = Mean(accuracies)
	s.TopScore = Max(accuracies)

	recent := accuracies
	if len(recent) > guessTimelineBarCount {
		recent = recent[len(recent)-guessTimelineBarCount:]
	}
	s.Bars = chart.Bars(recent)
	return s, nil
}

func (m *GuessTimeline) StatRows(s *models.StatsSnapshot) []models.StatRow {
	return []models.StatRow{
		playersRow(s),
		{Label: "Avg Accuracy:", Value: fmt.Sprintf("%d%%", int(math.Round(s.AverageScore)))},
	}
}
