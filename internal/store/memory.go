// internal/store/memory.go
//
// In-memory match registry.
// Live matches are kept here for the duration of the process; finished
// matches are also summarised to the SQLite ledger (see ledger.go).
//
// Characteristics:
//   - Stores *game.Match objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - The registry guards the map only; callers serialise access to a match.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ixentbench/capsicaps/internal/game"
)

// ErrNotFound is returned for unknown match IDs.
var ErrNotFound = errors.New("match not found")

// Store defines the registry interface for live matches.
type Store interface {
	// Save persists or updates a match.
	Save(ctx context.Context, m *game.Match) error

	// Get retrieves a match by ID.
	// Returns ErrNotFound if the match is not registered.
	Get(ctx context.Context, id string) (*game.Match, error)

	// Delete drops a match. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh match identifier.
func NewID() string { return uuid.NewString() }

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex           // guards matches map
	matches map[string]*game.Match // keyed by Match.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{matches: make(map[string]*game.Match)}
}

// Save adds or updates the match in the map.
func (m *memory) Save(ctx context.Context, g *game.Match) error {
	if g.ID == "" {
		return errors.New("save: match has no ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[g.ID] = g
	return nil
}

// Get looks up a match by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.matches[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, id)
	return nil
}
