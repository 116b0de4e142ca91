package testutil

import (
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// MockRows converts literal cell slices into rows
func MockRows(cells ...[]string) []models.Row {
	rows := make([]models.Row, len(cells))
	for i, c := range cells {
		rows[i] = models.Row(c)
	}
	return rows
}

// MockWinLossRows is the five-row sample with a 1/0 result in column 4
func MockWinLossRows() []models.Row {
	return MockRows(
		[]string{"10", "4", "", "", "1"},
		[]string{"8", "3", "", "", "0"},
		[]string{"12", "5", "", "", "1"},
		[]string{"6", "2", "", "", "0"},
		[]string{"15", "4", "", "", "1"},
	)
}

// MockSheetsBody builds a Sheets values API response body
func MockSheetsBody(rangeName string, values string) string {
	return `{"range":"` + rangeName + `","majorDimension":"ROWS","values":` + values + `}`
}

// MockWidget creates a ready widget for a game
func MockWidget(gameID, html string) models.Widget {
	return models.Widget{
		GameID:    gameID,
		State:     models.WidgetReady,
		HTML:      template.HTML(html),
		UpdatedAt: time.Now(),
	}
}

// MockDescriptor creates a descriptor for a sheets-backed donut game
func MockDescriptor(id string) models.GameDescriptor {
	return models.GameDescriptor{
		ID:          id,
		DisplayName: id,
		Source: models.SourceLocator{
			Kind:    models.SourceSheets,
			TableID: "sheet-" + id,
			Range:   "Sheet1",
		},
		ChartKind:  models.ChartDonut,
		SkipHeader: true,
	}
}

// Logger discards everything
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
