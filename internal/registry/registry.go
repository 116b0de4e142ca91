package registry

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/games"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

// Registry manages the game modules, keyed by game id
type Registry struct {
	modules map[string]contracts.GameModule
	order   []string
}

// New creates a registry with every game, applying source overrides by game id
func New(overrides map[string]models.SourceLocator) (*Registry, error) {
	r := &Registry{
		modules: make(map[string]contracts.GameModule),
	}

	for _, module := range games.All() {
		r.Register(module)
	}

	for id, loc := range overrides {
		module, err := r.Get(id)
		if err != nil {
			return nil, fmt.Errorf("source override: %w", err)
		}
		setter, ok := module.(games.SourceSetter)
		if !ok {
			return nil, fmt.Errorf("source override: game %s has a fixed source", id)
		}
		setter.SetSource(loc)
	}

	return r, nil
}

// Register adds a game module; registration order is display order
func (r *Registry) Register(module contracts.GameModule) {
	id := module.Descriptor().ID
	if _, exists := r.modules[id]; !exists {
		r.order = append(r.order, id)
	}
	r.modules[id] = module
}

// Get retrieves a game module by id
func (r *Registry) Get(gameID string) (contracts.GameModule, error) {
	module, ok := r.modules[gameID]
	if !ok {
		return nil, fmt.Errorf("game module not found: %s", gameID)
	}
	return module, nil
}

// Modules returns all modules in registration order
func (r *Registry) Modules() []contracts.GameModule {
	modules := make([]contracts.GameModule, 0, len(r.order))
	for _, id := range r.order {
		modules = append(modules, r.modules[id])
	}
	return modules
}

// IDs returns all game ids in registration order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Compute derives the snapshot for gameID from its data rows
func (r *Registry) Compute(gameID string, rows []models.Row) (*models.StatsSnapshot, error) {
	module, err := r.Get(gameID)
	if err != nil {
		return nil, err
	}
	return module.ComputeStats(rows)
}
