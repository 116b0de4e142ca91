package models

// ChartKind selects how a game's statistics are drawn
type ChartKind string

const (
	ChartDonut ChartKind = "donut"
	ChartBar   ChartKind = "bar"
)

// SourceKind identifies which tabular backend serves a game's rows
type SourceKind string

const (
	SourceSheets   SourceKind = "sheets"
	SourcePostgres SourceKind = "postgres"
)

// SourceLocator addresses a table in an upstream source.
// For sheets: TableID is the spreadsheet id and Range the A1 range.
// For postgres: TableID is the table name and Range an optional ORDER BY column.
type SourceLocator struct {
	Kind    SourceKind `json:"kind" mapstructure:"kind"`
	TableID string     `json:"table_id" mapstructure:"table_id"`
	Range   string     `json:"range" mapstructure:"range"`
}

// GameDescriptor is the fixed, startup-time description of one game
type GameDescriptor struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	Source      SourceLocator `json:"source"`
	Columns     []string      `json:"columns"`    // Expected upstream layout, not validated
	ChartKind   ChartKind     `json:"chart_kind"` // "donut" or "bar"
	SkipHeader  bool          `json:"skip_header"`
}
