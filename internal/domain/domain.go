package domain

import "time"

// JourneyMode is set once sentence selection begins.
const (
	ModeAutomated = "automated"
	ModeManual    = "manual"
)

// Journey is one in-progress recall-recording attempt. It is exclusively
// owned by the per-subject session scope for the duration of the attempt.
type Journey struct {
	ID                  string     `json:"id"`
	SubjectID           string     `json:"subject_id"`
	LastTouchedAt       time.Time  `json:"last_touched_at" format:"date-time"`
	Mode                string     `json:"mode,omitempty" enum:"automated,manual"`
	IsReviewingSummary  bool       `json:"is_reviewing_summary"`
	RevocationDate      *time.Time `json:"revocation_date,omitempty" format:"date"`
	ReturnToCustodyDate *time.Time `json:"return_to_custody_date,omitempty" format:"date"`
	// InPrisonAtRecall is nil until the caseworker has answered the
	// in/out-of-custody question.
	InPrisonAtRecall *bool    `json:"in_prison_at_recall,omitempty"`
	RecallTypeCode   string   `json:"recall_type_code,omitempty"`
	SelectedCaseIDs  []string `json:"selected_case_ids,omitempty"`
	ExcludedCaseIDs  []string `json:"excluded_case_ids,omitempty"`
	SentenceIDs      []string `json:"sentence_ids,omitempty"`
	// CalculationRequestID is recorded by the automated outcome only.
	CalculationRequestID string             `json:"calculation_request_id,omitempty"`
	Validation           *ValidationSummary `json:"validation,omitempty"`
	// LastAutomatedDecision caches the collaborator's verdict sets so
	// sentence screens can re-reconcile without re-deciding. One
	// computation per revocation-date change.
	LastAutomatedDecision *AutomatedCalculation `json:"-"`
	// EditingRecallID is set when the journey edits an existing recall.
	EditingRecallID string `json:"editing_recall_id,omitempty"`
}

// HasSelectedCase reports whether the case id is in the selected set.
func (j *Journey) HasSelectedCase(caseID string) bool { return contains(j.SelectedCaseIDs, caseID) }

// HasExcludedCase reports whether the case id is in the excluded set.
func (j *Journey) HasExcludedCase(caseID string) bool { return contains(j.ExcludedCaseIDs, caseID) }

// SelectCase moves a case into the selected set. A case is never in both
// the selected and excluded sets.
func (j *Journey) SelectCase(caseID string) {
	j.ExcludedCaseIDs = remove(j.ExcludedCaseIDs, caseID)
	if !contains(j.SelectedCaseIDs, caseID) {
		j.SelectedCaseIDs = append(j.SelectedCaseIDs, caseID)
	}
}

// ExcludeCase moves a case into the excluded set.
func (j *Journey) ExcludeCase(caseID string) {
	j.SelectedCaseIDs = remove(j.SelectedCaseIDs, caseID)
	if !contains(j.ExcludedCaseIDs, caseID) {
		j.ExcludedCaseIDs = append(j.ExcludedCaseIDs, caseID)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ValidationSummary is the last advisory verdict retrieved from the
// calculation collaborator.
type ValidationSummary struct {
	CriticalMessages     []string   `json:"critical_messages,omitempty"`
	OtherMessages        []string   `json:"other_messages,omitempty"`
	EarliestSentenceDate *time.Time `json:"earliest_sentence_date,omitempty" format:"date"`
}

// HasCriticalMessages reports whether the collaborator found blocking data
// problems.
func (v *ValidationSummary) HasCriticalMessages() bool {
	return v != nil && len(v.CriticalMessages) > 0
}

// CourtCase is a case-management court case with its sentences.
type CourtCase struct {
	ID        string     `json:"id"`
	Reference string     `json:"reference,omitempty"`
	CourtName string     `json:"court_name,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Sentence as known to the case-management system, which is the source of
// truth for what sentences exist and which case they belong to.
type Sentence struct {
	ID            string     `json:"id"`
	Recallable    bool       `json:"recallable"`
	SentenceType  string     `json:"sentence_type,omitempty"`
	Indeterminate bool       `json:"indeterminate,omitempty"`
	HDCApproved   bool       `json:"hdc_approved,omitempty"`
	CRD           *time.Time `json:"crd,omitempty" format:"date"`
	SLED          *time.Time `json:"sled,omitempty" format:"date"`
}

// EligibilityBucket classifies a sentence after reconciliation.
type EligibilityBucket string

const (
	BucketEligible   EligibilityBucket = "eligible"
	BucketIneligible EligibilityBucket = "ineligible"
	BucketExpired    EligibilityBucket = "expired"
)

// DecoratedSentence is a sentence enriched with its eligibility outcome.
type DecoratedSentence struct {
	Sentence
	Bucket EligibilityBucket `json:"bucket" enum:"eligible,ineligible,expired"`
	// IneligibleReason is populated only when Bucket is ineligible.
	IneligibleReason string `json:"ineligible_reason,omitempty"`
}

// ReconciledCase is a court case reduced to the sentences in scope for this
// recall. Cases with no eligible sentences are not present in a reconciled
// view at all.
type ReconciledCase struct {
	ID        string              `json:"id"`
	Reference string              `json:"reference,omitempty"`
	CourtName string              `json:"court_name,omitempty"`
	Sentences []DecoratedSentence `json:"sentences"`
}

// EligibleSentenceIDs returns the ids of the eligible sentences in
// case-management order.
func (c ReconciledCase) EligibleSentenceIDs() []string {
	var ids []string
	for _, s := range c.Sentences {
		if s.Bucket == BucketEligible {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// RecallRecord is a finished recall as submitted to, or retrieved from, the
// case-management collaborator.
type RecallRecord struct {
	ID                   string     `json:"id,omitempty"`
	SubjectID            string     `json:"subject_id"`
	RevocationDate       time.Time  `json:"revocation_date" format:"date"`
	ReturnToCustodyDate  *time.Time `json:"return_to_custody_date,omitempty" format:"date"`
	InPrisonAtRecall     bool       `json:"in_prison_at_recall"`
	RecallTypeCode       string     `json:"recall_type_code"`
	SentenceIDs          []string   `json:"sentence_ids"`
	UALDays              *int       `json:"ual_days,omitempty"`
	CalculationRequestID string     `json:"calculation_request_id,omitempty"`
	CreatedByUsername    string     `json:"created_by_username,omitempty"`
}

// Adjustment is an existing administrative adjustment (remand, UAL, tagged
// bail and so on) that may overlap the proposed recall window.
type Adjustment struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	FromDate time.Time  `json:"from_date" format:"date"`
	ToDate   *time.Time `json:"to_date,omitempty" format:"date"`
	Days     int        `json:"days,omitempty"`
}
