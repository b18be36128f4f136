package engine

import "github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"

// OutcomeKind names the next navigational state for the presentation
// layer. Blocking kinds map to explanatory interrupt screens, never to a
// generic failure.
type OutcomeKind string

const (
	// OutcomeReturnToStart means required journey fields are missing and
	// the caseworker is sent back to the journey's entry point.
	OutcomeReturnToStart OutcomeKind = "return-to-start"
	// OutcomeCriticalErrors is terminal until the data problems are
	// resolved externally.
	OutcomeCriticalErrors OutcomeKind = "critical-errors"
	// OutcomeConflictingAdjustments sends the caseworker to review the
	// overlapping adjustments before proceeding.
	OutcomeConflictingAdjustments OutcomeKind = "conflicting-adjustments"
	// OutcomeNoRecallableSentences is terminal and directs the caseworker
	// to manual case correction outside this flow.
	OutcomeNoRecallableSentences OutcomeKind = "no-recallable-sentences"
	// OutcomeManualSelection switches the journey to case-by-case
	// selection.
	OutcomeManualSelection OutcomeKind = "manual-selection"
	// OutcomeAutomatedReview proceeds through the automated review
	// screen.
	OutcomeAutomatedReview OutcomeKind = "automated-review"
)

// Outcome is the immutable result of one decision computation.
type Outcome struct {
	Kind      OutcomeKind         `json:"kind"`
	Messages  []string            `json:"messages,omitempty"`
	Journey   domain.Journey      `json:"journey"`
	Conflicts []domain.Adjustment `json:"conflicts,omitempty"`
}

// FormError is a caseworker-correctable input problem, surfaced as form
// validation rather than a system fault.
type FormError struct {
	Message string
}

func (e FormError) Error() string { return e.Message }

// BlockedError is a blocking condition with its own interrupt screen.
type BlockedError struct {
	Code    string
	Message string
}

func (e BlockedError) Error() string { return e.Message }
