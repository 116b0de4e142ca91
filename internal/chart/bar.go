package chart

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Bar scale: a value of 100 maps to BarScale pixels, never below BarFloor
const (
	BarFloor = 10.0
	BarScale = 40.0
)

// BarHeight maps a percentage value to a pixel height
func BarHeight(value float64) float64 {
	return math.Max(BarFloor, value/100*BarScale)
}

// Bars maps a series of values to bar points
func Bars(values []float64) []models.BarPoint {
	bars := make([]models.BarPoint, len(values))
	for i, v := range values {
		bars[i] = models.BarPoint{Value: v, Height: BarHeight(v)}
	}
	return bars
}
