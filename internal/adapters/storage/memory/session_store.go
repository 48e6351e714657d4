package memory

import (
	"sort"
	"sync"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// SessionStore keeps named turn histories in memory. NOT persistent,
// only suitable for development and tests.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]domain.Turn),
	}
}

func (s *SessionStore) Save(name string, turns []domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.Turn, len(turns))
	copy(cp, turns)
	s.sessions[name] = cp
	return nil
}

func (s *SessionStore) Load(name string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.sessions[name]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	cp := make([]domain.Turn, len(turns))
	copy(cp, turns)
	return cp, nil
}

func (s *SessionStore) ListNames() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sessions))
	for name := range s.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
