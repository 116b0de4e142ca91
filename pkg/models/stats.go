package models

import "time"

// Segment is one labelled slice of a donut chart
type Segment struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"` // CSS hex color
}

// DonutData is the ordered set of segments for a ring chart
type DonutData struct {
	Segments []Segment `json:"segments"`
}

// Total returns the sum of all segment values
func (d *DonutData) Total() float64 {
	if d == nil {
		return 0
	}
	var total float64
	for _, s := range d.Segments {
		total += s.Value
	}
	return total
}

// BarPoint is one bar of a bar chart
type BarPoint struct {
	Value  float64 `json:"value"`
	Height float64 `json:"height"` // Pixels
}

// StatsSnapshot is derived from a game's rows on every fetch
type StatsSnapshot struct {
	GameID       string     `json:"game_id"`
	TotalPlayers int        `json:"total_players"`
	AverageScore float64    `json:"average_score"`
	TopScore     float64    `json:"top_score"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	Donut        *DonutData `json:"donut,omitempty"`
	Bars         []BarPoint `json:"bars,omitempty"`
	ComputedAt   time.Time  `json:"computed_at"`
}

// StatRow is one labelled line in a widget's stats block
type StatRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
