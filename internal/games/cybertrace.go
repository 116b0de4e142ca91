package games

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

var cybertraceAnswers = WinLoss{
	Column:     2,
	WinTokens:  []string{"true"},
	LossTokens: []string{"false"},
	FoldCase:   true,
}

// CyberTrace implements GameModule for the CyberTrace game
type CyberTrace struct {
	base
}

// NewCyberTrace creates the CyberTrace module
func NewCyberTrace() *CyberTrace {
	return &CyberTrace{base{desc: models.GameDescriptor{
		ID:          "cybertrace",
		DisplayName: "CyberTrace",
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "1IcDLEPd_5SRl5E6rDNfrj5XwX1ntIXJB55tLwxirsZA",
			Range:   "Sheet1",
		},
		Columns:    []string{"Timestamp", "Suspect", "Correct"},
		ChartKind:  models.ChartDonut,
		SkipHeader: true,
	}}}
}

func (m *CyberTrace) ComputeStats(rows []models.Row) (*models.StatsSnapshot, error) {
	s, err := m.newSnapshot(rows)
	if err != nil {
		return nil, err
	}

	s.Wins, s.Losses = cybertraceAnswers.Count(rows)
	s.Donut = winLossDonut("Correct", "Incorrect", s.Wins, s.Losses)
	return s, nil
}

// StatRows reports accuracy over all players, including unanswered rows
func (m *CyberTrace) StatRows(s *models.StatsSnapshot) []models.StatRow {
	accuracy := Percent(float64(s.Wins), float64(s.TotalPlayers))
	return []models.StatRow{
		playersRow(s),
		{Label: "Accuracy:", Value: fmt.Sprintf("%d%%", accuracy)},
	}
}
