// Package store keeps match, team and player state in memory. It also
// owns the per-match guard the HTTP layer uses to serialize scoring
// commands: the engine itself takes no locks and assumes at most one
// in-flight command per match.
package store

import (
	"fmt"
	"sync"

	"cricket-score-service/internal/domain"
)

// ErrMatchNotFound reports an unknown match ID.
var ErrMatchNotFound = fmt.Errorf("match not found")

// MemoryStore is a thread-safe in-memory registry of matches, teams
// and players.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]*domain.Match
	teams   map[string]domain.Team
	players map[string]domain.Player
	guards  map[string]*sync.Mutex
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string]*domain.Match),
		teams:   make(map[string]domain.Team),
		players: make(map[string]domain.Player),
		guards:  make(map[string]*sync.Mutex),
	}
}

// PutMatch registers a match.
func (s *MemoryStore) PutMatch(m *domain.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m
	if _, ok := s.guards[m.ID]; !ok {
		s.guards[m.ID] = &sync.Mutex{}
	}
}

// GetMatch retrieves a match by ID.
func (s *MemoryStore) GetMatch(id string) (*domain.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	return m, ok
}

// ListMatches returns the registered matches.
func (s *MemoryStore) ListMatches() []*domain.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	return out
}

// WithMatch runs fn with the match's serialization guard held, so
// commands for one match never interleave. Commands for different
// matches proceed independently.
func (s *MemoryStore) WithMatch(id string, fn func(*domain.Match) error) error {
	s.mu.RLock()
	m, ok := s.matches[id]
	guard := s.guards[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}

	guard.Lock()
	defer guard.Unlock()
	return fn(m)
}

// PutTeam registers a team.
func (s *MemoryStore) PutTeam(t domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

// GetTeam retrieves a team by ID.
func (s *MemoryStore) GetTeam(id string) (domain.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	return t, ok
}

// PutPlayer registers a player.
func (s *MemoryStore) PutPlayer(p domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

// GetPlayer retrieves a player by ID.
func (s *MemoryStore) GetPlayer(id string) (domain.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}
