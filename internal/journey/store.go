// Package journey holds the bounded per-user store of in-progress recall
// journeys. Journeys live only in memory; losing one is a normal "restart
// the flow" signal for the caller, never a fault.
package journey

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

// MaxJourneys caps the number of concurrent journeys per subject.
// Caseworkers may open several attempts in separate tabs, but the store
// must not grow unbounded.
const MaxJourneys = 5

// ErrNotFound means the journey expired or never existed. Callers restart
// the flow from its entry point.
var ErrNotFound = errors.New("journey not found")

// Store keeps journeys keyed by (subject id, journey id). Eviction happens
// eagerly at creation time, never by a background sweep.
type Store struct {
	mu       sync.Mutex
	journeys map[string]map[string]domain.Journey
	Now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		journeys: make(map[string]map[string]domain.Journey),
		Now:      time.Now,
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start creates a journey with a fresh id and inserts it, evicting the
// least recently touched journeys until the subject holds at most
// MaxJourneys. The new journey carries the newest timestamp and is always
// retained.
func (s *Store) Start(subjectID string) domain.Journey {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := domain.Journey{
		ID:            uuid.New().String(),
		SubjectID:     subjectID,
		LastTouchedAt: s.now(),
	}
	bySubject := s.journeys[subjectID]
	if bySubject == nil {
		bySubject = make(map[string]domain.Journey)
		s.journeys[subjectID] = bySubject
	}
	bySubject[j.ID] = j
	for len(bySubject) > MaxJourneys {
		delete(bySubject, oldestID(bySubject))
	}
	return j
}

// Get returns a copy of the journey and refreshes its sliding expiry.
func (s *Store) Get(subjectID, journeyID string) (domain.Journey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.journeys[subjectID][journeyID]
	if !ok {
		return domain.Journey{}, ErrNotFound
	}
	j.LastTouchedAt = s.now()
	s.journeys[subjectID][journeyID] = j
	return j, nil
}

// Update writes a journey back. The last write wins; concurrent edits to
// the same journey are not merged.
func (s *Store) Update(j domain.Journey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.journeys[j.SubjectID][j.ID]; !ok {
		return ErrNotFound
	}
	j.LastTouchedAt = s.now()
	s.journeys[j.SubjectID][j.ID] = j
	return nil
}

// Delete removes a journey, on explicit cancel or successful submission.
// Deleting a missing journey is a no-op.
func (s *Store) Delete(subjectID, journeyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.journeys[subjectID], journeyID)
	if len(s.journeys[subjectID]) == 0 {
		delete(s.journeys, subjectID)
	}
}

// ListBySubject returns the subject's journeys, most recently touched
// first, without refreshing them.
func (s *Store) ListBySubject(subjectID string) []domain.Journey {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Journey, 0, len(s.journeys[subjectID]))
	for _, j := range s.journeys[subjectID] {
		out = append(out, j)
	}
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && out[k].LastTouchedAt.After(out[k-1].LastTouchedAt); k-- {
			out[k], out[k-1] = out[k-1], out[k]
		}
	}
	return out
}

func oldestID(bySubject map[string]domain.Journey) string {
	var oldest string
	var oldestAt time.Time
	for id, j := range bySubject {
		if oldest == "" || j.LastTouchedAt.Before(oldestAt) {
			oldest = id
			oldestAt = j.LastTouchedAt
		}
	}
	return oldest
}
