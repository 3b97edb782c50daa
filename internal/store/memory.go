// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Game sessions are single-play and ephemeral by design — this map only
// lets the HTTP layer find a session again between requests. State is
// lost on restart, which matches the game's lifecycle (no cross-session
// persistence).

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charactle/go-server/internal/game"
)

// ErrNotFound reports an unknown session ID.
var ErrNotFound = errors.New("session not found")

// Store defines the lookup surface for live game sessions.
// Implementations may be backed by memory (this package) or anything
// that can hand back the same *game.Session between requests.
type Store interface {
	// Save registers or refreshes a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session (explicit reset / cleanup).
	Delete(ctx context.Context, id string) error
}

// memory is a map-based Store.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
