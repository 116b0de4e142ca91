package providers

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// RowSource fetches the rows addressed by a locator
type RowSource interface {
	FetchRows(ctx context.Context, loc models.SourceLocator) ([]models.Row, error)
}

// Mux routes each locator to the source registered for its kind
type Mux struct {
	sources map[models.SourceKind]RowSource
}

// NewMux creates an empty source mux
func NewMux() *Mux {
	return &Mux{sources: make(map[models.SourceKind]RowSource)}
}

// Handle registers the source serving kind
func (m *Mux) Handle(kind models.SourceKind, source RowSource) {
	m.sources[kind] = source
}

// FetchRows implements RowSource
func (m *Mux) FetchRows(ctx context.Context, loc models.SourceLocator) ([]models.Row, error) {
	source, ok := m.sources[loc.Kind]
	if !ok {
		return nil, &models.FetchError{
			Kind: models.FetchMalformed,
			Err:  fmt.Errorf("no source configured for kind %q", loc.Kind),
		}
	}
	return source.FetchRows(ctx, loc)
}
