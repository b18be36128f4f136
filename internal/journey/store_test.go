package journey_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/journey"
)

// fakeClock hands out strictly increasing timestamps.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClockedStore() (*journey.Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	s := journey.NewStore()
	s.Now = clock.now
	return s, clock
}

func TestStartAndGetRoundTrip(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	if j.ID == "" || j.SubjectID != "A1234BC" {
		t.Fatalf("unexpected journey %+v", j)
	}
	got, err := s.Get("A1234BC", j.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != j.ID {
		t.Fatalf("expected same journey back")
	}
}

func TestGetRefreshesLastTouched(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	first, _ := s.Get("A1234BC", j.ID)
	second, _ := s.Get("A1234BC", j.ID)
	if !second.LastTouchedAt.After(first.LastTouchedAt) {
		t.Fatalf("expected sliding expiry refresh, got %v then %v", first.LastTouchedAt, second.LastTouchedAt)
	}
}

func TestSixthJourneyEvictsOldest(t *testing.T) {
	s, _ := newClockedStore()
	first := s.Start("A1234BC")
	for i := 0; i < journey.MaxJourneys-1; i++ {
		s.Start("A1234BC")
	}
	sixth := s.Start("A1234BC")

	if got := s.ListBySubject("A1234BC"); len(got) != journey.MaxJourneys {
		t.Fatalf("expected exactly %d journeys, got %d", journey.MaxJourneys, len(got))
	}
	if _, err := s.Get("A1234BC", first.ID); !errors.Is(err, journey.ErrNotFound) {
		t.Fatalf("expected oldest journey evicted, got %v", err)
	}
	if _, err := s.Get("A1234BC", sixth.ID); err != nil {
		t.Fatalf("newest journey must survive: %v", err)
	}
}

func TestRecentlyTouchedJourneySurvivesEviction(t *testing.T) {
	s, _ := newClockedStore()
	first := s.Start("A1234BC")
	for i := 0; i < journey.MaxJourneys-1; i++ {
		s.Start("A1234BC")
	}
	// touching the oldest makes the second-oldest the eviction candidate
	if _, err := s.Get("A1234BC", first.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	s.Start("A1234BC")
	if _, err := s.Get("A1234BC", first.ID); err != nil {
		t.Fatalf("touched journey should survive eviction: %v", err)
	}
}

func TestJourneysNotSharedBetweenSubjects(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	if _, err := s.Get("Z9999ZZ", j.ID); !errors.Is(err, journey.ErrNotFound) {
		t.Fatalf("journey must not be visible to another subject, got %v", err)
	}
}

func TestUpdateMissingJourney(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	s.Delete("A1234BC", j.ID)
	if err := s.Update(j); !errors.Is(err, journey.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	j.RecallTypeCode = "LR"
	j.SelectCase("case-1")
	j.ExcludeCase("case-2")
	if err := s.Update(j); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.Get("A1234BC", j.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RecallTypeCode != "LR" || !got.HasSelectedCase("case-1") || !got.HasExcludedCase("case-2") {
		t.Fatalf("update lost fields: %+v", got)
	}
}

func TestSelectAndExcludeStayDisjoint(t *testing.T) {
	s, _ := newClockedStore()
	j := s.Start("A1234BC")
	j.SelectCase("case-1")
	j.ExcludeCase("case-1")
	if j.HasSelectedCase("case-1") {
		t.Fatalf("case must not be both selected and excluded")
	}
	j.SelectCase("case-1")
	if j.HasExcludedCase("case-1") {
		t.Fatalf("re-selecting must clear the exclusion")
	}
}
