package games

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

var countdownResults = WinLoss{
	Column:     3,
	WinTokens:  []string{"win"},
	LossTokens: []string{"lose"},
	FoldCase:   true,
}

// Countdown implements GameModule for the Countdown game
type Countdown struct {
	base
}

// NewCountdown creates the Countdown module
func NewCountdown() *Countdown {
	return &Countdown{base{desc: models.GameDescriptor{
		ID:          "countdown",
		DisplayName: "Countdown",
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "19X_N1nNjI1dfpPxZCJoge_RiQ6KRrAsatRIwjJY_xBo",
			Range:   "Sheet1",
		},
		Columns:    []string{"Player", "Time Diff (sec)", "time-feedback", "Result", "Timestamp"},
		ChartKind:  models.ChartDonut,
		SkipHeader: true,
	}}}
}

func (m *Countdown) ComputeStats(rows []models.Row) (*models.StatsSnapshot, error) {
	s, err := m.newSnapshot(rows)
	if err != nil {
		return nil, err
	}

	s.Wins, s.Losses = countdownResults.Count(rows)
	s.Donut = winLossDonut("Wins", "Losses", s.Wins, s.Losses)
	return s, nil
}

func (m *Countdown) StatRows(s *models.StatsSnapshot) []models.StatRow {
	rate := Percent(float64(s.Wins), float64(s.Wins+s.Losses))
	return []models.StatRow{
		playersRow(s),
		{Label: "Win Rate:", Value: fmt.Sprintf("%d%%", rate)},
	}
}
