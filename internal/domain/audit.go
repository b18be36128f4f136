package domain

// AuditEvent is one append-only entry in the local audit log. The audit log
// records what happened to a journey, not journey state itself.
type AuditEvent struct {
	ID        int64  `json:"id"`
	TS        string `json:"ts" format:"date-time"`
	Type      string `json:"type"`
	SubjectID string `json:"subject_id,omitempty"`
	JourneyID string `json:"journey_id,omitempty"`
	ActorID   string `json:"actor_id"`
	Payload   string `json:"payload_json"`
}
