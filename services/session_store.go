package services

import (
	"sync"

	"github.com/Dosada05/beach-cup/models"
)

// SessionStore keeps tournaments that are still being played. Sessions are copied
// on the way in and out, so callers never share state with the store.
type SessionStore interface {
	Put(session *models.TournamentSession)
	Get(id string) (*models.TournamentSession, error)
	// Update applies fn to a copy of the session and stores the copy if fn succeeds.
	Update(id string, fn func(session *models.TournamentSession) error) (*models.TournamentSession, error)
	Delete(id string) bool
	Len() int
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.TournamentSession
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]*models.TournamentSession)}
}

func (s *memorySessionStore) Put(session *models.TournamentSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
}

func (s *memorySessionStore) Get(id string) (*models.TournamentSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *memorySessionStore) Update(id string, fn func(session *models.TournamentSession) error) (*models.TournamentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.sessions[id] = next
	return next.Clone(), nil
}

func (s *memorySessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *memorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
