package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Source reads game rows from Postgres tables
type Source struct {
	db *sql.DB
}

// NewSource wraps an open database
func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

// Connect opens and pings a Postgres connection pool
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// BuildQuery returns the SELECT for loc: TableID is the (optionally
// schema-qualified) table, Range an optional ORDER BY column
func BuildQuery(loc models.SourceLocator) (string, error) {
	table := strings.TrimSpace(loc.TableID)
	if table == "" {
		return "", fmt.Errorf("postgres source needs a table name")
	}

	parts := strings.Split(table, ".")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid table name %q", table)
		}
		quoted[i] = pq.QuoteIdentifier(p)
	}

	query := "SELECT * FROM " + strings.Join(quoted, ".")
	if order := strings.TrimSpace(loc.Range); order != "" {
		query += " ORDER BY " + pq.QuoteIdentifier(order)
	}
	return query, nil
}

// FetchRows returns the table as rows of strings, column names first.
// NULL cells become "".
func (s *Source) FetchRows(ctx context.Context, loc models.SourceLocator) ([]models.Row, error) {
	query, err := BuildQuery(loc)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchMalformed, Err: err}
	}

	rs, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchTransport, Err: fmt.Errorf("query %s: %w", loc.TableID, err)}
	}
	defer rs.Close()

	columns, err := rs.Columns()
	if err != nil {
		return nil, &models.FetchError{Kind: models.FetchTransport, Err: fmt.Errorf("reading columns: %w", err)}
	}

	rows := []models.Row{models.Row(columns)}

	cells := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, &models.FetchError{Kind: models.FetchMalformed, Err: fmt.Errorf("scanning row: %w", err)}
		}
		row := make(models.Row, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, &models.FetchError{Kind: models.FetchTransport, Err: fmt.Errorf("iterating rows: %w", err)}
	}

	return rows, nil
}
