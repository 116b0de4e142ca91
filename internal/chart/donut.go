package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Donut layout in SVG user units (viewBox 0 0 80 80)
const (
	DonutRadius  = 30.0
	DonutCenterX = 40.0
	DonutCenterY = 40.0
)

// Arc is one stroked circle segment of a donut
type Arc struct {
	Segment    models.Segment
	Percent    float64 // Share of the total, 0-100
	DashLength float64
	DashArray  string // "<length> <circumference>"
	DashOffset string
}

// DonutGeometry is everything needed to draw a ring chart
type DonutGeometry struct {
	Radius        float64
	CenterX       float64
	CenterY       float64
	Circumference float64
	Total         float64
	Arcs          []Arc
	CenterLabel   string
	NoData        bool // Total was zero; nothing to draw
}

// Donut computes one arc per segment proportional to value/total.
// The first segment's share becomes the center label.
func Donut(segments []models.Segment) DonutGeometry {
	circumference := 2 * math.Pi * DonutRadius
	g := DonutGeometry{
		Radius:        DonutRadius,
		CenterX:       DonutCenterX,
		CenterY:       DonutCenterY,
		Circumference: circumference,
	}

	for _, s := range segments {
		g.Total += s.Value
	}
	if len(segments) == 0 || g.Total == 0 {
		g.NoData = true
		return g
	}

	var cumulative float64
	g.Arcs = make([]Arc, 0, len(segments))
	for _, s := range segments {
		pct := s.Value / g.Total * 100
		length := pct / 100 * circumference
		g.Arcs = append(g.Arcs, Arc{
			Segment:    s,
			Percent:    pct,
			DashLength: length,
			DashArray:  formatFloat(length) + " " + formatFloat(circumference),
			DashOffset: formatFloat(-cumulative * (circumference / 100)),
		})
		cumulative += pct
	}

	g.CenterLabel = fmt.Sprintf("%d%%", int(math.Round(segments[0].Value/g.Total*100)))
	return g
}

// formatFloat prints the shortest representation, without a negative zero
func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
