package games

import (
	"fmt"
	"math"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	fakeOrRealCorrectCol = 2
	fakeOrRealWinsCol    = 5
	fakeOrRealLossesCol  = 6
)

// FakeOrReal implements GameModule for the Fake or Real game
type FakeOrReal struct {
	base
}

// NewFakeOrReal creates the Fake or Real module
func NewFakeOrReal() *FakeOrReal {
	return &FakeOrReal{base{desc: models.GameDescriptor{
		ID:          "fake-or-real",
		DisplayName: "Fake or Real",
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "1vnFddSk3KYrWUX5j5Tuzj2CDHM4vdTNy9X6WcaTefRg",
			Range:   "Sheet1",
		},
		Columns: []string{"Timestamp", "Player", "Correct", "Total", "Accuracy",
			"Wins", "Losses", "FakeRoundsSolved", "SessionId", "GameVersion"},
		ChartKind:  models.ChartDonut,
		SkipHeader: true,
	}}}
}

func (m *FakeOrReal) ComputeStats(rows []models.Row) (*models.StatsSnapshot, error) {
	s, err := m.newSnapshot(rows)
	if err != nil {
		return nil, err
	}

	// A row counts toward both sides when both columns are positive
	s.Wins = CountPositive(rows, fakeOrRealWinsCol)
	s.Losses = CountPositive(rows, fakeOrRealLossesCol)
	s.Donut = winLossDonut("Wins", "Losses", s.Wins, s.Losses)

	correct := make([]float64, len(rows))
	for i, row := range rows {
		correct[i] = float64(ParseInt(row.Cell(fakeOrRealCorrectCol)))
	}
	s.AverageScore = Mean(correct)
	s.TopScore = Max(correct)
	return s, nil
}

func (m *FakeOrReal) StatRows(s *models.StatsSnapshot) []models.StatRow {
	return []models.StatRow{
		playersRow(s),
		{Label: "Avg Score:", Value: fmt.Sprintf("%d/5", int(math.Round(s.AverageScore)))},
	}
}
