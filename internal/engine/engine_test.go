package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/db"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/engine"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/journey"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/migrate"
)

type stubCalculation struct {
	decision    domain.Decision
	decideErr   error
	summary     domain.ValidationSummary
	validateErr error
	decideCalls int
}

func (s *stubCalculation) Validate(ctx context.Context, subjectID string) (domain.ValidationSummary, error) {
	if s.validateErr != nil {
		return domain.ValidationSummary{}, s.validateErr
	}
	return s.summary, nil
}

func (s *stubCalculation) Decide(ctx context.Context, subjectID string, revocationDate time.Time) (domain.Decision, error) {
	s.decideCalls++
	if s.decideErr != nil {
		return nil, s.decideErr
	}
	return s.decision, nil
}

type stubCaseManagement struct {
	cases     []domain.CourtCase
	existing  map[string]domain.RecallRecord
	submitted []domain.RecallRecord
	updated   map[string]domain.RecallRecord
}

func (s *stubCaseManagement) GetRecallableCourtCases(ctx context.Context, subjectID string) ([]domain.CourtCase, error) {
	return s.cases, nil
}

func (s *stubCaseManagement) GetExistingRecall(ctx context.Context, recallID string) (domain.RecallRecord, error) {
	r, ok := s.existing[recallID]
	if !ok {
		return domain.RecallRecord{}, errors.New("recall not found")
	}
	return r, nil
}

func (s *stubCaseManagement) SubmitRecall(ctx context.Context, record domain.RecallRecord) (string, error) {
	s.submitted = append(s.submitted, record)
	return "recall-1", nil
}

func (s *stubCaseManagement) UpdateRecall(ctx context.Context, recallID string, record domain.RecallRecord) error {
	if s.updated == nil {
		s.updated = map[string]domain.RecallRecord{}
	}
	s.updated[recallID] = record
	return nil
}

type stubAdjustments struct {
	adjustments []domain.Adjustment
	err         error
}

func (s *stubAdjustments) GetAdjustmentsOverlapping(ctx context.Context, subjectID string, from time.Time, to *time.Time) ([]domain.Adjustment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.adjustments, nil
}

type testEnv struct {
	Engine engine.Engine
	Calc   *stubCalculation
	Cases  *stubCaseManagement
	Adj    *stubAdjustments
	Ctx    context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	calc := &stubCalculation{}
	cm := &stubCaseManagement{}
	adj := &stubAdjustments{}
	store := journey.NewStore()
	e := engine.New(store, calc, cm, adj, conn)
	e.Now = func() time.Time { return time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC) }
	return &testEnv{Engine: e, Calc: calc, Cases: cm, Adj: adj, Ctx: context.Background()}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMissingFieldsShortCircuitsWithoutCollaboratorCall(t *testing.T) {
	env := newTestEnv(t)
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.ComputeDecision(env.Ctx, "A1234BC", j.ID, "caseworker")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if out.Kind != engine.OutcomeReturnToStart {
		t.Fatalf("expected return-to-start, got %s", out.Kind)
	}
	if env.Calc.decideCalls != 0 {
		t.Fatalf("collaborator must not be called with missing fields")
	}
}

func TestAutomatedDecisionRecordsReconciledSentences(t *testing.T) {
	env := newTestEnv(t)
	env.Cases.cases = []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "S1", Recallable: true},
			{ID: "S2", Recallable: false},
		}},
	}
	// S9 is unknown to case management and must not survive reconciliation
	env.Calc.decision = domain.AutomatedCalculation{
		RequestID:     "calc-77",
		RecallableIDs: []string{"S1", "S1", "S9"},
	}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker")
	if err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	if out.Kind != engine.OutcomeAutomatedReview {
		t.Fatalf("expected automated review, got %s", out.Kind)
	}
	got := out.Journey
	if got.Mode != domain.ModeAutomated {
		t.Fatalf("expected automated mode, got %q", got.Mode)
	}
	if got.CalculationRequestID != "calc-77" {
		t.Fatalf("expected calculation request id recorded, got %q", got.CalculationRequestID)
	}
	if len(got.SentenceIDs) != 1 || got.SentenceIDs[0] != "S1" {
		t.Fatalf("expected sentence ids [S1], got %v", got.SentenceIDs)
	}
}

func TestCriticalErrorsDoesNotMutateJourney(t *testing.T) {
	env := newTestEnv(t)
	env.Calc.decision = domain.CriticalErrors{Messages: []string{"remand period missing"}}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker")
	if err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	if out.Kind != engine.OutcomeCriticalErrors {
		t.Fatalf("expected critical errors, got %s", out.Kind)
	}
	if len(out.Messages) != 1 {
		t.Fatalf("expected collaborator messages surfaced, got %v", out.Messages)
	}
	stored, _ := env.Engine.GetJourney(env.Ctx, "A1234BC", j.ID)
	if len(stored.SentenceIDs) != 0 || stored.Mode != "" || stored.CalculationRequestID != "" {
		t.Fatalf("critical errors must not mutate sentence state: %+v", stored)
	}
}

func TestDecideFailureFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	env.Calc.decideErr = errors.New("calculation api down")
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	if _, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker"); err == nil {
		t.Fatalf("a decide failure must propagate")
	}
}

func TestValidationCheckFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.Calc.validateErr = errors.New("validation api down")
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	got, err := env.Engine.RefreshValidation(env.Ctx, "A1234BC", j.ID)
	if err != nil {
		t.Fatalf("advisory check must fail open: %v", err)
	}
	if got.Validation != nil {
		t.Fatalf("no summary should be cached on failure")
	}
}

func TestConflictingAdjustmentsListingFailsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.Calc.decision = domain.ConflictingAdjustments{WindowFrom: date(2025, 10, 1)}
	env.Adj.err = errors.New("adjustments api down")
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker")
	if err != nil {
		t.Fatalf("listing is advisory and must not block: %v", err)
	}
	if out.Kind != engine.OutcomeConflictingAdjustments || out.Conflicts != nil {
		t.Fatalf("expected conflict interrupt without the listing, got %+v", out)
	}
}

func TestManualSelectionFlow(t *testing.T) {
	env := newTestEnv(t)
	env.Cases.cases = []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "S1", Recallable: true}}},
		{ID: "c2", Sentences: []domain.Sentence{{ID: "S2", Recallable: true}, {ID: "S3", Recallable: false}}},
	}
	env.Calc.decision = domain.ManualSelectionRequired{Messages: []string{"ambiguous sentence mapping"}}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), true, "caseworker")
	if err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	if out.Kind != engine.OutcomeManualSelection || out.Journey.Mode != domain.ModeManual {
		t.Fatalf("expected manual selection, got %+v", out)
	}
	if _, err := env.Engine.SelectCase(env.Ctx, "A1234BC", j.ID, "c2"); err != nil {
		t.Fatalf("select case: %v", err)
	}
	if _, err := env.Engine.ExcludeCase(env.Ctx, "A1234BC", j.ID, "c1"); err != nil {
		t.Fatalf("exclude case: %v", err)
	}
	if _, err := env.Engine.SetRecallType(env.Ctx, "A1234BC", j.ID, eligibility.StandardRecall, "caseworker"); err != nil {
		t.Fatalf("set type: %v", err)
	}
	record, err := env.Engine.Submit(env.Ctx, "A1234BC", j.ID, "caseworker")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(record.SentenceIDs) != 1 || record.SentenceIDs[0] != "S2" {
		t.Fatalf("manual submission must rebuild sentence ids from selected cases, got %v", record.SentenceIDs)
	}
}

func TestSelectionRejectedOnAutomatedPath(t *testing.T) {
	env := newTestEnv(t)
	env.Cases.cases = []domain.CourtCase{{ID: "c1", Sentences: []domain.Sentence{{ID: "S1", Recallable: true}}}}
	env.Calc.decision = domain.AutomatedCalculation{RequestID: "calc-1", RecallableIDs: []string{"S1"}}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	if _, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker"); err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	var formErr engine.FormError
	if _, err := env.Engine.SelectCase(env.Ctx, "A1234BC", j.ID, "c1"); !errors.As(err, &formErr) {
		t.Fatalf("expected form error on automated path, got %v", err)
	}
}

func TestReturnToCustodyBeforeRevocationRejected(t *testing.T) {
	env := newTestEnv(t)
	env.Calc.decision = domain.NoRecallableSentences{}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	if _, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker"); err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	early := date(2025, 9, 30)
	var formErr engine.FormError
	if _, err := env.Engine.SetReturnToCustody(env.Ctx, "A1234BC", j.ID, &early, "caseworker"); !errors.As(err, &formErr) {
		t.Fatalf("expected form validation error, got %v", err)
	}
}

func TestSubmitRejectsImpermissibleRecallType(t *testing.T) {
	env := newTestEnv(t)
	// standard determinate population: HDC recall types are outside the envelope
	env.Cases.cases = []domain.CourtCase{{ID: "c1", Sentences: []domain.Sentence{{ID: "S1", Recallable: true}}}}
	env.Calc.decision = domain.AutomatedCalculation{RequestID: "calc-1", RecallableIDs: []string{"S1"}}
	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	if _, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker"); err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	if _, err := env.Engine.SetRecallType(env.Ctx, "A1234BC", j.ID, eligibility.CurfewConditionHDC, "caseworker"); err != nil {
		t.Fatalf("set type: %v", err)
	}
	var blocked engine.BlockedError
	if _, err := env.Engine.Submit(env.Ctx, "A1234BC", j.ID, "caseworker"); !errors.As(err, &blocked) {
		t.Fatalf("expected blocked submission, got %v", err)
	}
	if blocked.Code != "recall_type_not_permitted" {
		t.Fatalf("unexpected block code %s", blocked.Code)
	}
}

func TestEditJourneyPrePopulatesFromExistingRecall(t *testing.T) {
	env := newTestEnv(t)
	rtc := date(2025, 9, 10)
	env.Cases.existing = map[string]domain.RecallRecord{
		"recall-9": {
			ID:                  "recall-9",
			SubjectID:           "A1234BC",
			RevocationDate:      date(2025, 9, 1),
			ReturnToCustodyDate: &rtc,
			InPrisonAtRecall:    true,
			RecallTypeCode:      eligibility.StandardRecall,
			SentenceIDs:         []string{"S1"},
		},
	}
	j, err := env.Engine.StartEditJourney(env.Ctx, "A1234BC", "recall-9", "caseworker")
	if err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if j.EditingRecallID != "recall-9" || j.RevocationDate == nil || !j.RevocationDate.Equal(date(2025, 9, 1)) {
		t.Fatalf("journey not pre-populated: %+v", j)
	}
	if j.RecallTypeCode != eligibility.StandardRecall || len(j.SentenceIDs) != 1 {
		t.Fatalf("journey missing recall fields: %+v", j)
	}
}

// End-to-end: one case with a recallable and a non-recallable sentence,
// automated verdict on S1, no return to custody.
func TestEndToEndAutomatedScenario(t *testing.T) {
	env := newTestEnv(t)
	env.Cases.cases = []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "S1", Recallable: true},
			{ID: "S2", Recallable: false},
		}},
	}
	env.Calc.decision = domain.AutomatedCalculation{RequestID: "calc-5", RecallableIDs: []string{"S1"}}

	j, _ := env.Engine.StartJourney(env.Ctx, "A1234BC", "caseworker")
	out, err := env.Engine.SetRevocationDate(env.Ctx, "A1234BC", j.ID, date(2025, 10, 1), false, "caseworker")
	if err != nil {
		t.Fatalf("set revocation: %v", err)
	}
	if out.Kind != engine.OutcomeAutomatedReview {
		t.Fatalf("expected automated review, got %s", out.Kind)
	}
	if len(out.Journey.SentenceIDs) != 1 || out.Journey.SentenceIDs[0] != "S1" {
		t.Fatalf("expected sentence ids [S1], got %v", out.Journey.SentenceIDs)
	}
	if _, err := env.Engine.SetRecallType(env.Ctx, "A1234BC", j.ID, eligibility.StandardRecall, "caseworker"); err != nil {
		t.Fatalf("set type: %v", err)
	}
	record, err := env.Engine.Submit(env.Ctx, "A1234BC", j.ID, "caseworker")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if record.UALDays != nil {
		t.Fatalf("UAL must be nil while still at large, got %d", *record.UALDays)
	}
	if record.RecallTypeCode != eligibility.StandardRecall || len(env.Cases.submitted) != 1 {
		t.Fatalf("record not submitted as expected: %+v", record)
	}
	if _, err := env.Engine.GetJourney(env.Ctx, "A1234BC", j.ID); !errors.Is(err, journey.ErrNotFound) {
		t.Fatalf("journey must be destroyed after submission, got %v", err)
	}
}
