package server

import (
	"encoding/json"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/engine"
)

// Request payloads

type StartJourneyRequest struct {
	// EditRecallID switches the journey into edit mode, pre-populated
	// from the recorded recall.
	EditRecallID *string `json:"edit_recall_id,omitempty"`
}

type SetRevocationRequest struct {
	RevocationDate   string `json:"revocation_date" format:"date"`
	InPrisonAtRecall bool   `json:"in_prison_at_recall"`
}

type SetReturnToCustodyRequest struct {
	// A null date means the offender is still unlawfully at large.
	ReturnToCustodyDate *string `json:"return_to_custody_date" format:"date"`
}

type SetRecallTypeRequest struct {
	Code string `json:"code"`
}

// Response payloads

type JourneyResponse struct {
	ID                   string                     `json:"id"`
	SubjectID            string                     `json:"subject_id"`
	LastTouchedAt        string                     `json:"last_touched_at" format:"date-time"`
	Mode                 string                     `json:"mode,omitempty" enum:"automated,manual"`
	IsReviewingSummary   bool                       `json:"is_reviewing_summary"`
	RevocationDate       *string                    `json:"revocation_date,omitempty" format:"date"`
	ReturnToCustodyDate  *string                    `json:"return_to_custody_date,omitempty" format:"date"`
	InPrisonAtRecall     *bool                      `json:"in_prison_at_recall,omitempty"`
	RecallTypeCode       string                     `json:"recall_type_code,omitempty"`
	SelectedCaseIDs      []string                   `json:"selected_case_ids"`
	ExcludedCaseIDs      []string                   `json:"excluded_case_ids"`
	SentenceIDs          []string                   `json:"sentence_ids"`
	CalculationRequestID string                     `json:"calculation_request_id,omitempty"`
	Validation           *ValidationSummaryResponse `json:"validation,omitempty"`
	EditingRecallID      string                     `json:"editing_recall_id,omitempty"`
}

type ValidationSummaryResponse struct {
	CriticalMessages     []string `json:"critical_messages"`
	OtherMessages        []string `json:"other_messages"`
	EarliestSentenceDate *string  `json:"earliest_sentence_date,omitempty" format:"date"`
}

type OutcomeResponse struct {
	Kind      string               `json:"kind" enum:"return-to-start,critical-errors,conflicting-adjustments,no-recallable-sentences,manual-selection,automated-review"`
	Messages  []string             `json:"messages,omitempty"`
	Journey   JourneyResponse      `json:"journey"`
	Conflicts []AdjustmentResponse `json:"conflicts,omitempty"`
}

type AdjustmentResponse struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	FromDate string  `json:"from_date" format:"date"`
	ToDate   *string `json:"to_date,omitempty" format:"date"`
	Days     int     `json:"days,omitempty"`
}

type SentenceResponse struct {
	ID            string  `json:"id"`
	Recallable    bool    `json:"recallable"`
	SentenceType  string  `json:"sentence_type,omitempty"`
	Indeterminate bool    `json:"indeterminate,omitempty"`
	HDCApproved   bool    `json:"hdc_approved,omitempty"`
	CRD           *string `json:"crd,omitempty" format:"date"`
	SLED          *string `json:"sled,omitempty" format:"date"`
}

type DecoratedSentenceResponse struct {
	SentenceResponse
	Bucket           string `json:"bucket" enum:"eligible,ineligible,expired"`
	IneligibleReason string `json:"ineligible_reason,omitempty"`
}

type CourtCaseResponse struct {
	ID        string             `json:"id"`
	Reference string             `json:"reference,omitempty"`
	CourtName string             `json:"court_name,omitempty"`
	Sentences []SentenceResponse `json:"sentences"`
}

type ReconciledCaseResponse struct {
	ID        string                      `json:"id"`
	Reference string                      `json:"reference,omitempty"`
	CourtName string                      `json:"court_name,omitempty"`
	Sentences []DecoratedSentenceResponse `json:"sentences"`
}

type RecallRecordResponse struct {
	ID                   string   `json:"id"`
	SubjectID            string   `json:"subject_id"`
	RevocationDate       string   `json:"revocation_date" format:"date"`
	ReturnToCustodyDate  *string  `json:"return_to_custody_date,omitempty" format:"date"`
	InPrisonAtRecall     bool     `json:"in_prison_at_recall"`
	RecallTypeCode       string   `json:"recall_type_code"`
	SentenceIDs          []string `json:"sentence_ids"`
	UALDays              *int     `json:"ual_days,omitempty"`
	CalculationRequestID string   `json:"calculation_request_id,omitempty"`
}

type RecallTypeResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	FixedTerm   bool   `json:"fixed_term"`
}

type EventResponse struct {
	ID        int64          `json:"id"`
	TS        string         `json:"ts" format:"date-time"`
	Type      string         `json:"type"`
	SubjectID string         `json:"subject_id,omitempty"`
	JourneyID string         `json:"journey_id,omitempty"`
	ActorID   string         `json:"actor_id"`
	Payload   map[string]any `json:"payload"`
}

type paginatedEvents struct {
	Items      []EventResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Conversion helpers

func journeyResponse(j domain.Journey) JourneyResponse {
	return JourneyResponse{
		ID:                   j.ID,
		SubjectID:            j.SubjectID,
		LastTouchedAt:        j.LastTouchedAt.UTC().Format(time.RFC3339),
		Mode:                 j.Mode,
		IsReviewingSummary:   j.IsReviewingSummary,
		RevocationDate:       dateString(j.RevocationDate),
		ReturnToCustodyDate:  dateString(j.ReturnToCustodyDate),
		InPrisonAtRecall:     j.InPrisonAtRecall,
		RecallTypeCode:       j.RecallTypeCode,
		SelectedCaseIDs:      nonNilSlice(j.SelectedCaseIDs),
		ExcludedCaseIDs:      nonNilSlice(j.ExcludedCaseIDs),
		SentenceIDs:          nonNilSlice(j.SentenceIDs),
		CalculationRequestID: j.CalculationRequestID,
		Validation:           validationResponse(j.Validation),
		EditingRecallID:      j.EditingRecallID,
	}
}

func validationResponse(v *domain.ValidationSummary) *ValidationSummaryResponse {
	if v == nil {
		return nil
	}
	return &ValidationSummaryResponse{
		CriticalMessages:     nonNilSlice(v.CriticalMessages),
		OtherMessages:        nonNilSlice(v.OtherMessages),
		EarliestSentenceDate: dateString(v.EarliestSentenceDate),
	}
}

func outcomeResponse(out engine.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		Kind:     string(out.Kind),
		Messages: out.Messages,
		Journey:  journeyResponse(out.Journey),
	}
	for _, a := range out.Conflicts {
		resp.Conflicts = append(resp.Conflicts, adjustmentResponse(a))
	}
	return resp
}

func adjustmentResponse(a domain.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:       a.ID,
		Type:     a.Type,
		FromDate: a.FromDate.Format(time.DateOnly),
		ToDate:   dateString(a.ToDate),
		Days:     a.Days,
	}
}

func sentenceResponse(s domain.Sentence) SentenceResponse {
	return SentenceResponse{
		ID:            s.ID,
		Recallable:    s.Recallable,
		SentenceType:  s.SentenceType,
		Indeterminate: s.Indeterminate,
		HDCApproved:   s.HDCApproved,
		CRD:           dateString(s.CRD),
		SLED:          dateString(s.SLED),
	}
}

func courtCaseResponse(c domain.CourtCase) CourtCaseResponse {
	resp := CourtCaseResponse{
		ID:        c.ID,
		Reference: c.Reference,
		CourtName: c.CourtName,
		Sentences: []SentenceResponse{},
	}
	for _, s := range c.Sentences {
		resp.Sentences = append(resp.Sentences, sentenceResponse(s))
	}
	return resp
}

func reconciledCaseResponse(c domain.ReconciledCase) ReconciledCaseResponse {
	resp := ReconciledCaseResponse{
		ID:        c.ID,
		Reference: c.Reference,
		CourtName: c.CourtName,
		Sentences: []DecoratedSentenceResponse{},
	}
	for _, s := range c.Sentences {
		resp.Sentences = append(resp.Sentences, DecoratedSentenceResponse{
			SentenceResponse: sentenceResponse(s.Sentence),
			Bucket:           string(s.Bucket),
			IneligibleReason: s.IneligibleReason,
		})
	}
	return resp
}

func recordResponse(r domain.RecallRecord) RecallRecordResponse {
	return RecallRecordResponse{
		ID:                   r.ID,
		SubjectID:            r.SubjectID,
		RevocationDate:       r.RevocationDate.Format(time.DateOnly),
		ReturnToCustodyDate:  dateString(r.ReturnToCustodyDate),
		InPrisonAtRecall:     r.InPrisonAtRecall,
		RecallTypeCode:       r.RecallTypeCode,
		SentenceIDs:          nonNilSlice(r.SentenceIDs),
		UALDays:              r.UALDays,
		CalculationRequestID: r.CalculationRequestID,
	}
}

func recallTypeResponse(rt eligibility.RecallType) RecallTypeResponse {
	return RecallTypeResponse(rt)
}

func eventResponse(e domain.AuditEvent) EventResponse {
	return EventResponse{
		ID:        e.ID,
		TS:        e.TS,
		Type:      e.Type,
		SubjectID: e.SubjectID,
		JourneyID: e.JourneyID,
		ActorID:   e.ActorID,
		Payload:   decodeJSONMap(e.Payload),
	}
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
