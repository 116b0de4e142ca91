package games

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseFloat reads the leading number of s, ignoring trailing text.
// Anything unparsable is 0.
func ParseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseInt reads the leading integer of s ("3.7" is 3). Anything unparsable
// is 0; digits beyond the int range saturate at its bounds.
func ParseInt(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseInt(m, 10, strconv.IntSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	// On ErrRange, v already holds the saturated bound
	return int(v)
}

// FloatColumn extracts column col of every row as a number
func FloatColumn(rows []models.Row, col int) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = ParseFloat(row.Cell(col))
	}
	return values
}

// Mean returns the arithmetic mean, or 0 for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Max returns the largest value, or 0 for no values
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// CountTokens counts rows whose column col equals one of tokens.
// With fold set the comparison ignores case.
func CountTokens(rows []models.Row, col int, tokens []string, fold bool) int {
	count := 0
	for _, row := range rows {
		cell := row.Cell(col)
		for _, tok := range tokens {
			if cell == tok || (fold && strings.EqualFold(cell, tok)) {
				count++
				break
			}
		}
	}
	return count
}

// CountPositive counts rows whose integer column col is > 0
func CountPositive(rows []models.Row, col int) int {
	count := 0
	for _, row := range rows {
		if ParseInt(row.Cell(col)) > 0 {
			count++
		}
	}
	return count
}

// WinLoss is a result-column rule: wins and losses are rows whose column
// matches one of the respective tokens
type WinLoss struct {
	Column     int
	WinTokens  []string
	LossTokens []string
	FoldCase   bool
}

// Count applies the rule to rows
func (w WinLoss) Count(rows []models.Row) (wins, losses int) {
	wins = CountTokens(rows, w.Column, w.WinTokens, w.FoldCase)
	losses = CountTokens(rows, w.Column, w.LossTokens, w.FoldCase)
	return wins, losses
}

// Percent returns round(part/whole*100), or 0 when whole is 0
func Percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}
