package sheets

import "github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"

// demoRows is the demonstration dataset: a header row, then
// player count, correct answers, two empty cells and a 1/0 result
var demoRows = [][]string{
	{"Header"},
	{"10", "4", "", "", "1"},
	{"8", "3", "", "", "0"},
	{"12", "5", "", "", "1"},
	{"6", "2", "", "", "0"},
	{"15", "4", "", "", "1"},
}

// DemoRows returns a fresh copy of the demonstration dataset
func DemoRows() []models.Row {
	rows := make([]models.Row, len(demoRows))
	for i, r := range demoRows {
		rows[i] = append(models.Row(nil), r...)
	}
	return rows
}
