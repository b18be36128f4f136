package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Writer appends audit entries for journey and recall activity.
type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

// Append writes one audit entry inside the caller's transaction.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, subjectID, journeyID, actorID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,subject_id,journey_id,actor_id,payload_json) VALUES (?,?,?,?,?,?)`,
		ts, evtType, nullable(subjectID), nullable(journeyID), actorID, string(data))
	return err
}

// Record opens a short transaction just to append one entry. Audit writes
// must not block the caseworker: callers log and continue on failure.
func (w Writer) Record(ctx context.Context, evtType, subjectID, journeyID, actorID string, payload EventPayload) error {
	if w.DB == nil {
		return nil
	}
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := w.Append(ctx, tx, evtType, subjectID, journeyID, actorID, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
