package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/db"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/events"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/migrate"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/repo"
)

func newTestRepo(t *testing.T) (repo.Repo, events.Writer) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	return repo.Repo{DB: conn}, events.Writer{DB: conn, Now: func() time.Time { return now }}
}

func TestLatestEventIDTracksTheTip(t *testing.T) {
	r, w := newTestRepo(t)
	ctx := context.Background()

	tip, err := r.LatestEventID(ctx, "A1234BC")
	if err != nil {
		t.Fatalf("latest event id: %v", err)
	}
	if tip != 0 {
		t.Fatalf("expected 0 on an empty log, got %d", tip)
	}

	for i := 0; i < 3; i++ {
		if err := w.Record(ctx, "journey.started", "A1234BC", "j-1", "caseworker", nil); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}
	if err := w.Record(ctx, "journey.started", "Z9999XX", "j-2", "caseworker", nil); err != nil {
		t.Fatalf("record event: %v", err)
	}

	tip, err = r.LatestEventID(ctx, "A1234BC")
	if err != nil {
		t.Fatalf("latest event id: %v", err)
	}
	if tip != 3 {
		t.Fatalf("expected subject tip 3, got %d", tip)
	}
}

func TestEventsAfterReturnsOnlyNewEntriesAscending(t *testing.T) {
	r, w := newTestRepo(t)
	ctx := context.Background()

	types := []string{"journey.started", "journey.decision", "recall.submitted"}
	for _, evtType := range types {
		if err := w.Record(ctx, evtType, "A1234BC", "j-1", "caseworker", nil); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	cursor, err := r.LatestEventID(ctx, "A1234BC")
	if err != nil {
		t.Fatalf("latest event id: %v", err)
	}
	got, err := r.EventsAfter(ctx, 100, cursor, "A1234BC")
	if err != nil {
		t.Fatalf("events after: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected nothing past the tip, got %d events", len(got))
	}

	if err := w.Record(ctx, "journey.cancelled", "A1234BC", "j-1", "caseworker", nil); err != nil {
		t.Fatalf("record event: %v", err)
	}
	if err := w.Record(ctx, "journey.started", "A1234BC", "j-3", "caseworker", nil); err != nil {
		t.Fatalf("record event: %v", err)
	}

	got, err = r.EventsAfter(ctx, 100, cursor, "A1234BC")
	if err != nil {
		t.Fatalf("events after: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 new events, got %d", len(got))
	}
	if got[0].Type != "journey.cancelled" || got[1].Type != "journey.started" {
		t.Fatalf("expected ascending order, got %q then %q", got[0].Type, got[1].Type)
	}
	if got[0].ID >= got[1].ID {
		t.Fatalf("ids not ascending: %d then %d", got[0].ID, got[1].ID)
	}
}

func TestEventsAfterFiltersBySubject(t *testing.T) {
	r, w := newTestRepo(t)
	ctx := context.Background()

	if err := w.Record(ctx, "journey.started", "A1234BC", "j-1", "caseworker", nil); err != nil {
		t.Fatalf("record event: %v", err)
	}
	if err := w.Record(ctx, "journey.started", "Z9999XX", "j-2", "caseworker", nil); err != nil {
		t.Fatalf("record event: %v", err)
	}

	got, err := r.EventsAfter(ctx, 100, 0, "Z9999XX")
	if err != nil {
		t.Fatalf("events after: %v", err)
	}
	if len(got) != 1 || got[0].SubjectID != "Z9999XX" {
		t.Fatalf("expected one event for Z9999XX, got %v", got)
	}
}
