package chart

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

const (
	pngWidth  = 320
	pngHeight = 240
)

// RenderPNG rasterises a snapshot's chart: a donut when it has segments,
// otherwise its bars
func RenderPNG(w io.Writer, title string, snapshot *models.StatsSnapshot) error {
	if snapshot == nil {
		return &models.DataError{Message: models.ErrNoData}
	}

	if snapshot.Donut != nil {
		return renderDonutPNG(w, title, snapshot)
	}
	return renderBarPNG(w, title, snapshot)
}

func renderDonutPNG(w io.Writer, title string, snapshot *models.StatsSnapshot) error {
	if snapshot.Donut.Total() == 0 {
		return &models.DataError{GameID: snapshot.GameID, Message: "No data"}
	}

	values := make([]gochart.Value, 0, len(snapshot.Donut.Segments))
	for _, s := range snapshot.Donut.Segments {
		if s.Value == 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s: %g", s.Label, s.Value),
			Value: s.Value,
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#")),
				StrokeColor: drawing.ColorWhite,
			},
		})
	}

	donut := gochart.DonutChart{
		Title:  title,
		Width:  pngWidth,
		Height: pngHeight,
		Values: values,
	}
	if err := donut.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("rendering donut png: %w", err)
	}
	return nil
}

func renderBarPNG(w io.Writer, title string, snapshot *models.StatsSnapshot) error {
	if len(snapshot.Bars) == 0 {
		return &models.DataError{GameID: snapshot.GameID, Message: models.ErrNoData}
	}

	bars := make([]gochart.Value, len(snapshot.Bars))
	for i, b := range snapshot.Bars {
		bars[i] = gochart.Value{
			Label: fmt.Sprintf("%d", i+1),
			Value: b.Height,
		}
	}

	bar := gochart.BarChart{
		Title:    title,
		Width:    pngWidth,
		Height:   pngHeight,
		BarWidth: 24,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: BarScale},
		},
		Bars: bars,
	}
	if err := bar.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("rendering bar png: %w", err)
	}
	return nil
}
