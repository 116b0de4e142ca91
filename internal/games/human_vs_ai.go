package games

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	humanVsAIResultCol = 1
	humanVsAIRateCol   = 3
)

var humanVsAIResults = WinLoss{
	Column:     humanVsAIResultCol,
	WinTokens:  []string{"Human", "Win"},
	LossTokens: []string{"AI", "Lose"},
}

// HumanVsAI implements GameModule for the Human vs AI game
type HumanVsAI struct {
	base
}

// NewHumanVsAI creates the Human vs AI module
func NewHumanVsAI() *HumanVsAI {
	return &HumanVsAI{base{desc: models.GameDescriptor{
		ID:          "human-vs-ai",
		DisplayName: "Human vs AI",
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "1DoMo--gHFBv2lRbQKOGnf_p2SfE4ACI_YvxjOQKK5jA",
			Range:   "Sheet1",
		},
		Columns:    []string{"player", "Results", "Error", "Rate", "Date"},
		ChartKind:  models.ChartDonut,
		SkipHeader: true,
	}}}
}

func (m *HumanVsAI) ComputeStats(rows []models.Row) (*models.StatsSnapshot, error) {
	s, err := m.newSnapshot(rows)
	if err != nil {
		return nil, err
	}

	rates := FloatColumn(rows, humanVsAIRateCol)
	s.AverageScore = Mean(rates)
	s.TopScore = Max(rates)

	s.Wins, s.Losses = humanVsAIResults.Count(rows)
	s.Donut = winLossDonut("Human Wins", "AI Wins", s.Wins, s.Losses)
	return s, nil
}

func (m *HumanVsAI) StatRows(s *models.StatsSnapshot) []models.StatRow {
	rate := Percent(float64(s.Wins), float64(s.Wins+s.Losses))
	return []models.StatRow{
		playersRow(s),
		{Label: "Human Win Rate:", Value: fmt.Sprintf("%d%%", rate)},
	}
}
