// Package repo reads the local audit log.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

// LatestEvents returns the most recent audit entries, newest first,
// optionally filtered by subject, journey, or type.
func (r Repo) LatestEvents(ctx context.Context, limit int, subjectID, journeyID, evtType string) ([]domain.AuditEvent, error) {
	return r.LatestEventsFrom(ctx, limit, 0, subjectID, journeyID, evtType)
}

// LatestEventsFrom pages backwards from the cursor id.
func (r Repo) LatestEventsFrom(ctx context.Context, limit int, cursor int64, subjectID, journeyID, evtType string) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	clauses := []string{"1=1"}
	var args []any
	if subjectID != "" {
		clauses = append(clauses, "subject_id=?")
		args = append(args, subjectID)
	}
	if journeyID != "" {
		clauses = append(clauses, "journey_id=?")
		args = append(args, journeyID)
	}
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	if cursor > 0 {
		clauses = append(clauses, "id<?")
		args = append(args, cursor)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,subject_id,journey_id,actor_id,payload_json FROM events %s ORDER BY id DESC LIMIT ?`, where)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventsAfter returns events with ids greater than the cursor in ascending
// order, for tail-style consumers.
func (r Repo) EventsAfter(ctx context.Context, limit int, cursor int64, subjectID string) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	clauses := []string{"1=1"}
	var args []any
	if subjectID != "" {
		clauses = append(clauses, "subject_id=?")
		args = append(args, subjectID)
	}
	if cursor > 0 {
		clauses = append(clauses, "id>?")
		args = append(args, cursor)
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,subject_id,journey_id,actor_id,payload_json FROM events %s ORDER BY id ASC LIMIT ?`, where)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// LatestEventID returns the most recent audit event id for a subject.
func (r Repo) LatestEventID(ctx context.Context, subjectID string) (int64, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id),0) FROM events WHERE subject_id=?`, subjectID)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func scanEvents(rows *sql.Rows) ([]domain.AuditEvent, error) {
	var res []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var subject, journeyID, payload sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &subject, &journeyID, &e.ActorID, &payload); err != nil {
			return nil, err
		}
		if subject.Valid {
			e.SubjectID = subject.String
		}
		if journeyID.Valid {
			e.JourneyID = journeyID.String
		}
		if payload.Valid {
			e.Payload = payload.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
