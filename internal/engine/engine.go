// Package engine orchestrates recall journeys: it interprets the
// calculation collaborator's verdict, drives the journey through its
// steps, and assembles the finished record for submission.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/events"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/journey"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/observability"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/ports"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/reconcile"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/ual"
)

type Engine struct {
	Journeys       *journey.Store
	Calculation    ports.CalculationClient
	CaseManagement ports.CaseManagementClient
	Adjustments    ports.AdjustmentsClient
	Events         events.Writer
	DB             *sql.DB
	Now            func() time.Time
	Log            *slog.Logger
}

func New(store *journey.Store, calc ports.CalculationClient, cm ports.CaseManagementClient, adj ports.AdjustmentsClient, auditDB *sql.DB) Engine {
	return Engine{
		Journeys:       store,
		Calculation:    calc,
		CaseManagement: cm,
		Adjustments:    adj,
		Events:         events.Writer{DB: auditDB},
		DB:             auditDB,
		Now:            time.Now,
		Log:            observability.Logger(),
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// audit never blocks the caseworker; failures are logged and dropped.
func (e Engine) audit(ctx context.Context, evtType, subjectID, journeyID, actorID string, payload events.EventPayload) {
	if err := e.Events.Record(ctx, evtType, subjectID, journeyID, actorID, payload); err != nil {
		e.Log.WarnContext(ctx, "audit write failed", "type", evtType, "error", err)
	}
}

// StartJourney begins a fresh recall-recording attempt for the subject.
func (e Engine) StartJourney(ctx context.Context, subjectID, actorID string) (domain.Journey, error) {
	j := e.Journeys.Start(subjectID)
	e.audit(ctx, "journey.started", subjectID, j.ID, actorID, nil)
	return j, nil
}

// StartEditJourney begins a journey pre-populated from a recorded recall.
func (e Engine) StartEditJourney(ctx context.Context, subjectID, recallID, actorID string) (domain.Journey, error) {
	record, err := e.CaseManagement.GetExistingRecall(ctx, recallID)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("fetch recall %s: %w", recallID, err)
	}
	j := e.Journeys.Start(subjectID)
	rev := record.RevocationDate
	inPrison := record.InPrisonAtRecall
	j.EditingRecallID = recallID
	j.RevocationDate = &rev
	j.ReturnToCustodyDate = record.ReturnToCustodyDate
	j.InPrisonAtRecall = &inPrison
	j.RecallTypeCode = record.RecallTypeCode
	j.SentenceIDs = record.SentenceIDs
	j.CalculationRequestID = record.CalculationRequestID
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	e.audit(ctx, "journey.edit_started", subjectID, j.ID, actorID, events.EventPayload{"recall_id": recallID})
	return j, nil
}

// GetJourney looks a journey up, refreshing its sliding expiry.
// journey.ErrNotFound is a normal restart signal for the caller.
func (e Engine) GetJourney(ctx context.Context, subjectID, journeyID string) (domain.Journey, error) {
	return e.Journeys.Get(subjectID, journeyID)
}

// CancelJourney discards an attempt.
func (e Engine) CancelJourney(ctx context.Context, subjectID, journeyID, actorID string) {
	e.Journeys.Delete(subjectID, journeyID)
	e.audit(ctx, "journey.cancelled", subjectID, journeyID, actorID, nil)
}

// SetRevocationDate records the revocation date and custody answer, then
// recomputes the decision: one computation per revocation-date change.
func (e Engine) SetRevocationDate(ctx context.Context, subjectID, journeyID string, revocationDate time.Time, inPrisonAtRecall bool, actorID string) (Outcome, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return Outcome{}, err
	}
	j.RevocationDate = &revocationDate
	j.InPrisonAtRecall = &inPrisonAtRecall
	if err := ual.ValidateWindow(revocationDate, j.ReturnToCustodyDate); err != nil {
		return Outcome{}, FormError{Message: err.Error()}
	}
	if err := e.Journeys.Update(j); err != nil {
		return Outcome{}, err
	}
	return e.ComputeDecision(ctx, subjectID, journeyID, actorID)
}

// SetReturnToCustody records when the offender was taken back into
// custody. A nil date means still in custody. A date before the revocation
// date is a form validation error, rejected before it can reach the UAL
// calculator.
func (e Engine) SetReturnToCustody(ctx context.Context, subjectID, journeyID string, returnToCustody *time.Time, actorID string) (domain.Journey, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	if j.RevocationDate == nil {
		return domain.Journey{}, FormError{Message: "enter the revocation date before the return to custody date"}
	}
	if err := ual.ValidateWindow(*j.RevocationDate, returnToCustody); err != nil {
		return domain.Journey{}, FormError{Message: err.Error()}
	}
	j.ReturnToCustodyDate = returnToCustody
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// SetRecallType records the caseworker's selected recall type.
func (e Engine) SetRecallType(ctx context.Context, subjectID, journeyID, code, actorID string) (domain.Journey, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	if _, ok := eligibility.RecallTypeByCode(code); !ok {
		return domain.Journey{}, FormError{Message: fmt.Sprintf("unknown recall type %q", code)}
	}
	j.RecallTypeCode = code
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// MarkReviewingSummary flips the journey into summary review, which
// changes back-links and re-validation behaviour in the presentation
// layer.
func (e Engine) MarkReviewingSummary(ctx context.Context, subjectID, journeyID string) (domain.Journey, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	j.IsReviewingSummary = true
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// SelectCase / ExcludeCase maintain the manual case selection. The two
// sets stay disjoint.
func (e Engine) SelectCase(ctx context.Context, subjectID, journeyID, caseID string) (domain.Journey, error) {
	return e.updateSelection(subjectID, journeyID, caseID, true)
}

func (e Engine) ExcludeCase(ctx context.Context, subjectID, journeyID, caseID string) (domain.Journey, error) {
	return e.updateSelection(subjectID, journeyID, caseID, false)
}

func (e Engine) updateSelection(subjectID, journeyID, caseID string, selected bool) (domain.Journey, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	if j.Mode != domain.ModeManual {
		return domain.Journey{}, FormError{Message: "case selection is only available on the manual path"}
	}
	if selected {
		j.SelectCase(caseID)
	} else {
		j.ExcludeCase(caseID)
	}
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// ComputeDecision asks the calculation collaborator for its verdict and
// maps it onto the next navigational state. The decide call fails closed:
// without a verdict the journey must not proceed.
func (e Engine) ComputeDecision(ctx context.Context, subjectID, journeyID, actorID string) (Outcome, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return Outcome{}, err
	}
	if j.RevocationDate == nil || j.InPrisonAtRecall == nil {
		return Outcome{Kind: OutcomeReturnToStart, Journey: j}, nil
	}

	decision, err := e.Calculation.Decide(ctx, subjectID, *j.RevocationDate)
	if err != nil {
		return Outcome{}, fmt.Errorf("calculation decide: %w", err)
	}

	var out Outcome
	switch d := decision.(type) {
	case domain.CriticalErrors:
		out = Outcome{Kind: OutcomeCriticalErrors, Messages: d.Messages, Journey: j}
	case domain.ConflictingAdjustments:
		// listing the conflicts is advisory; the interrupt still shows
		// without it
		conflicts, err := e.Adjustments.GetAdjustmentsOverlapping(ctx, subjectID, d.WindowFrom, d.WindowTo)
		if err != nil {
			e.Log.WarnContext(ctx, "adjustments lookup failed", "subject_id", subjectID, "error", err)
			conflicts = nil
		}
		out = Outcome{Kind: OutcomeConflictingAdjustments, Journey: j, Conflicts: conflicts}
	case domain.NoRecallableSentences:
		out = Outcome{Kind: OutcomeNoRecallableSentences, Journey: j}
	case domain.ManualSelectionRequired:
		// the persisted manual mode is what lets SelectCase and
		// ExcludeCase through updateSelection
		j.Mode = domain.ModeManual
		if err := e.Journeys.Update(j); err != nil {
			return Outcome{}, err
		}
		out = Outcome{Kind: OutcomeManualSelection, Messages: d.Messages, Journey: j}
	case domain.AutomatedCalculation:
		cases, err := e.CaseManagement.GetRecallableCourtCases(ctx, subjectID)
		if err != nil {
			return Outcome{}, fmt.Errorf("fetch court cases: %w", err)
		}
		reconciled := reconcile.Cases(cases, reconcile.FromDecision(d))
		j.Mode = domain.ModeAutomated
		j.CalculationRequestID = d.RequestID
		j.SentenceIDs = reconcile.EligibleSentenceIDs(reconciled)
		j.LastAutomatedDecision = &d
		if err := e.Journeys.Update(j); err != nil {
			return Outcome{}, err
		}
		out = Outcome{Kind: OutcomeAutomatedReview, Journey: j}
	default:
		// a new verdict kind introduced upstream without a branch here
		return Outcome{}, fmt.Errorf("unhandled calculation decision %T", decision)
	}

	e.audit(ctx, "journey.decision", subjectID, journeyID, actorID, events.EventPayload{"outcome": string(out.Kind)})
	return out, nil
}

// SentenceView returns the reconciled eligible/ineligible/expired view for
// the automated review screen.
func (e Engine) SentenceView(ctx context.Context, subjectID, journeyID string) ([]domain.ReconciledCase, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return nil, err
	}
	if j.LastAutomatedDecision == nil {
		return nil, FormError{Message: "no calculation decision has been made for this journey"}
	}
	cases, err := e.CaseManagement.GetRecallableCourtCases(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("fetch court cases: %w", err)
	}
	return reconcile.Cases(cases, reconcile.FromDecision(*j.LastAutomatedDecision)), nil
}

// CourtCaseView returns the raw case-management view for manual selection.
func (e Engine) CourtCaseView(ctx context.Context, subjectID, journeyID string) ([]domain.CourtCase, error) {
	if _, err := e.Journeys.Get(subjectID, journeyID); err != nil {
		return nil, err
	}
	return e.CaseManagement.GetRecallableCourtCases(ctx, subjectID)
}

// RefreshValidation fetches the collaborator's advisory checks and caches
// them on the journey. This check fails open: an unavailable advisory
// collaborator never blocks the caseworker.
func (e Engine) RefreshValidation(ctx context.Context, subjectID, journeyID string) (domain.Journey, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.Journey{}, err
	}
	summary, err := e.Calculation.Validate(ctx, subjectID)
	if err != nil {
		e.Log.WarnContext(ctx, "validation check unavailable", "subject_id", subjectID, "error", err)
		return j, nil
	}
	j.Validation = &summary
	if err := e.Journeys.Update(j); err != nil {
		return domain.Journey{}, err
	}
	return j, nil
}

// Submit assembles the finished recall, enforces the eligibility route,
// and hands the record to the case-management collaborator. On success the
// journey is destroyed.
func (e Engine) Submit(ctx context.Context, subjectID, journeyID, actorID string) (domain.RecallRecord, error) {
	j, err := e.Journeys.Get(subjectID, journeyID)
	if err != nil {
		return domain.RecallRecord{}, err
	}
	if j.RevocationDate == nil || j.InPrisonAtRecall == nil {
		return domain.RecallRecord{}, FormError{Message: "revocation details are required before submission"}
	}
	if j.RecallTypeCode == "" {
		return domain.RecallRecord{}, FormError{Message: "select a recall type before submission"}
	}
	if err := ual.ValidateWindow(*j.RevocationDate, j.ReturnToCustodyDate); err != nil {
		return domain.RecallRecord{}, FormError{Message: err.Error()}
	}

	cases, err := e.CaseManagement.GetRecallableCourtCases(ctx, subjectID)
	if err != nil {
		return domain.RecallRecord{}, fmt.Errorf("fetch court cases: %w", err)
	}

	sentenceIDs, err := e.sentenceIDsForSubmission(j, cases)
	if err != nil {
		return domain.RecallRecord{}, err
	}

	reasons := eligibility.Classify(cases)
	routes := make([]eligibility.Route, 0, len(reasons))
	for _, r := range reasons {
		routes = append(routes, r.Route)
	}
	if eligibility.CombineRoutes(routes...) == eligibility.RouteNotPossible {
		return domain.RecallRecord{}, BlockedError{
			Code:    "recall_not_possible",
			Message: "no sentence in this population can be recalled",
		}
	}
	if !eligibility.IsTypePermitted(reasons, j.RecallTypeCode) {
		return domain.RecallRecord{}, BlockedError{
			Code:    "recall_type_not_permitted",
			Message: fmt.Sprintf("recall type %s is not permitted for this sentence population", j.RecallTypeCode),
		}
	}

	record := domain.RecallRecord{
		SubjectID:            subjectID,
		RevocationDate:       *j.RevocationDate,
		ReturnToCustodyDate:  j.ReturnToCustodyDate,
		InPrisonAtRecall:     *j.InPrisonAtRecall,
		RecallTypeCode:       j.RecallTypeCode,
		SentenceIDs:          sentenceIDs,
		UALDays:              ual.Calculate(*j.RevocationDate, j.ReturnToCustodyDate),
		CalculationRequestID: j.CalculationRequestID,
		CreatedByUsername:    actorID,
	}

	if j.EditingRecallID != "" {
		record.ID = j.EditingRecallID
		if err := e.CaseManagement.UpdateRecall(ctx, j.EditingRecallID, record); err != nil {
			return domain.RecallRecord{}, fmt.Errorf("update recall: %w", err)
		}
	} else {
		id, err := e.CaseManagement.SubmitRecall(ctx, record)
		if err != nil {
			return domain.RecallRecord{}, fmt.Errorf("submit recall: %w", err)
		}
		record.ID = id
	}

	e.Journeys.Delete(subjectID, journeyID)
	e.audit(ctx, "recall.recorded", subjectID, journeyID, actorID, events.EventPayload{
		"recall_id":   record.ID,
		"recall_type": record.RecallTypeCode,
		"sentences":   len(record.SentenceIDs),
	})
	return record, nil
}

// sentenceIDsForSubmission rebuilds the sentence list: the automated path
// trusts the reconciled ids recorded at decision time; the manual path
// rebuilds from the selected cases.
func (e Engine) sentenceIDsForSubmission(j domain.Journey, cases []domain.CourtCase) ([]string, error) {
	switch j.Mode {
	case domain.ModeAutomated:
		if len(j.SentenceIDs) == 0 {
			return nil, FormError{Message: "the calculation produced no eligible sentences"}
		}
		return j.SentenceIDs, nil
	case domain.ModeManual:
		if len(j.SelectedCaseIDs) == 0 {
			return nil, FormError{Message: "select at least one court case"}
		}
		var ids []string
		for _, c := range cases {
			if !j.HasSelectedCase(c.ID) || j.HasExcludedCase(c.ID) {
				continue
			}
			for _, s := range c.Sentences {
				if s.Recallable {
					ids = append(ids, s.ID)
				}
			}
		}
		if len(ids) == 0 {
			return nil, FormError{Message: "the selected cases contain no recallable sentences"}
		}
		return ids, nil
	default:
		return nil, FormError{Message: "complete sentence selection before submission"}
	}
}
