package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// Store persists named turn histories as one JSON document on disk.
// Saves rewrite the file atomically (write temp, rename), so a crash
// mid-save never corrupts previously stored sessions.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Save(name string, turns []domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}

	cp := make([]domain.Turn, len(turns))
	copy(cp, turns)
	all[name] = cp

	return s.writeAll(all)
}

func (s *Store) Load(name string) ([]domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	turns, ok := all[name]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return turns, nil
}

func (s *Store) ListNames() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) readAll() (map[string][]domain.Turn, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]domain.Turn{}, nil
		}
		return nil, fmt.Errorf("file store: read: %w", err)
	}

	var all map[string][]domain.Turn
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("file store: decode: %w", err)
	}
	if all == nil {
		all = map[string][]domain.Turn{}
	}
	return all, nil
}

func (s *Store) writeAll(all map[string][]domain.Turn) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}
