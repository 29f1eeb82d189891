// Package draft caches the booking inputs of a session on disk.
package draft

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv"
)

const cacheSize = 1 << 20

// Draft of a session.
type Draft struct {
	EventDate           string `json:"event_date"`
	BookingMessage      string `json:"booking_message"`
	OnboardingDismissed bool   `json:"onboarding_dismissed"`
}

// Store of drafts keyed by session id.
type Store struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

// NewStore ...
func NewStore(dir string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: cacheSize,
		}),
	}
}

// Get returns the draft of session id; an unknown session has an empty draft.
func (s *Store) Get(id string) (Draft, error) {
	if err := checkID(id); err != nil {
		return Draft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

// SaveInputs stores the two booking inputs of session id.
func (s *Store) SaveInputs(id, eventDate, bookingMessage string) error {
	return s.update(id, func(d *Draft) {
		d.EventDate = eventDate
		d.BookingMessage = bookingMessage
	})
}

// DismissOnboarding remembers that session id has seen the onboarding.
func (s *Store) DismissOnboarding(id string) error {
	return s.update(id, func(d *Draft) {
		d.OnboardingDismissed = true
	})
}

func (s *Store) update(id string, fn func(d *Draft)) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return err
	}
	fn(&d)

	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err = s.d.Write(id, b); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

func (s *Store) get(id string) (d Draft, err error) {
	if !s.d.Has(id) {
		return
	}
	b, err := s.d.Read(id)
	if err != nil {
		return d, fmt.Errorf("read draft: %w", err)
	}
	if err = json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("decode draft: %w", err)
	}
	return
}

// ids become file names
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("session id %q: %w", id, err)
	}
	return nil
}
