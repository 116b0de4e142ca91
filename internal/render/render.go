package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/chart"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed templates/style.css
var stylesheet []byte

// Renderer turns snapshots into HTML fragments and pages
type Renderer struct {
	tmpl *template.Template
}

// widgetView is the template model for one widget
type widgetView struct {
	Name  string
	Kind  models.ChartKind
	Stats []models.StatRow
	Donut chart.DonutGeometry
	Bars  []models.BarPoint
}

// PageSlot is one game's place on the page
type PageSlot struct {
	GameID string
	Widget template.HTML
}

// PageData is the template model for the full page
type PageData struct {
	Title         string
	StylesheetURL string
	Slots         []PageSlot
	Effects       interface{} // Serialized into the bootstrap script as JSON
}

// New parses the embedded templates
func New() (*Renderer, error) {
	t, err := template.New("dashboard").
		Funcs(template.FuncMap{"num": formatNum}).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Widget renders a game's widget: display name, stat rows and chart
func (r *Renderer) Widget(module contracts.GameModule, snapshot *models.StatsSnapshot) (template.HTML, error) {
	if snapshot == nil {
		return "", &models.DataError{GameID: module.Descriptor().ID, Message: models.ErrNoData}
	}

	desc := module.Descriptor()
	view := widgetView{
		Name:  desc.DisplayName,
		Kind:  desc.ChartKind,
		Stats: module.StatRows(snapshot),
		Bars:  snapshot.Bars,
	}
	// A donut game without donut data falls back to bars, as does any bar game
	if desc.ChartKind == models.ChartDonut && snapshot.Donut != nil {
		view.Donut = chart.Donut(snapshot.Donut.Segments)
	} else {
		view.Kind = models.ChartBar
	}

	return r.execute("widget", view)
}

// Loading renders the placeholder shown while a game is fetched
func (r *Renderer) Loading() template.HTML {
	html, err := r.execute("loading", nil)
	if err != nil {
		return template.HTML(`<div class="loading">Loading...</div>`)
	}
	return html
}

// Error renders an inline error message in place of a chart
func (r *Renderer) Error(message string) template.HTML {
	html, err := r.execute("error", message)
	if err != nil {
		return template.HTML(`<div class="error-message">` + template.HTMLEscapeString(message) + `</div>`)
	}
	return html
}

// Page writes the full dashboard page
func (r *Renderer) Page(w io.Writer, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Stylesheet returns the page's CSS
func Stylesheet() []byte {
	return stylesheet
}

// formatNum prints numbers without trailing zeros
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
