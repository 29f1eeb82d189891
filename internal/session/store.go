// Package session keeps the caller-side state of browser sessions.
package session

import (
	"sync"
)

// Store keeps the most recent result of each session. The last write wins.
// When full, the least recently written session is dropped.
type Store struct {
	mu      sync.Mutex
	max     int
	order   []string
	results map[string][]byte
}

// NewStore ...
func NewStore(max int) *Store {
	return &Store{
		max:     max,
		results: make(map[string][]byte),
	}
}

// SetLast replaces the last result of session id.
func (s *Store) SetLast(id string, result []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isExist := s.results[id]; isExist {
		s.remove(id)
	}
	s.results[id] = result
	s.order = append(s.order, id)

	for s.max > 0 && len(s.order) > s.max {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
}

// Last returns the last result of session id.
func (s *Store) Last(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, isExist := s.results[id]
	return result, isExist
}

func (s *Store) remove(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
