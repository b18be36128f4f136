package domain

import "time"

// Decision is the calculation collaborator's verdict for one revocation
// date. It is a sealed variant: the engine matches on the concrete type and
// treats anything it does not recognise as a programming error rather than
// falling through to a default.
type Decision interface {
	decision()
}

// CriticalErrors means the collaborator found blocking data problems.
// Terminal for this attempt until the data is fixed externally.
type CriticalErrors struct {
	Messages []string
}

// ConflictingAdjustments means the proposed revocation window overlaps
// existing administrative adjustments the caseworker must review first.
type ConflictingAdjustments struct {
	WindowFrom time.Time
	WindowTo   *time.Time
}

// NoRecallableSentences means no sentence in the population can legally be
// recalled at all.
type NoRecallableSentences struct{}

// ManualSelectionRequired means automatic calculation is not possible and
// the caseworker must pick affected cases by hand.
type ManualSelectionRequired struct {
	Messages []string
}

// AutomatedCalculation means the collaborator unambiguously computed the
// affected sentences.
type AutomatedCalculation struct {
	RequestID string
	// Per-sentence verdict sets. An id may legitimately appear in only one
	// of them; reconciliation applies first-match precedence regardless.
	RecallableIDs           []string
	IneligibleIDs           []string
	BeforeInitialReleaseIDs []string
	ExpiredIDs              []string
	UnexpectedRecallTypeIDs []string
}

func (CriticalErrors) decision()          {}
func (ConflictingAdjustments) decision()  {}
func (NoRecallableSentences) decision()   {}
func (ManualSelectionRequired) decision() {}
func (AutomatedCalculation) decision()    {}
