// Package reconcile merges the two independently maintained sentence
// sources into one consistent view. The case-management system is the
// source of truth for which sentences exist and which case they belong to;
// the calculation engine is the source of truth for legal eligibility on a
// given revocation date. Neither alone is sufficient.
package reconcile

import "github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"

// Verdicts are the calculation collaborator's per-sentence identifier sets.
type Verdicts struct {
	RecallableIDs           []string
	IneligibleIDs           []string
	BeforeInitialReleaseIDs []string
	ExpiredIDs              []string
}

// FromDecision lifts an automated calculation outcome into verdict sets.
func FromDecision(d domain.AutomatedCalculation) Verdicts {
	return Verdicts{
		RecallableIDs:           d.RecallableIDs,
		IneligibleIDs:           d.IneligibleIDs,
		BeforeInitialReleaseIDs: d.BeforeInitialReleaseIDs,
		ExpiredIDs:              d.ExpiredIDs,
	}
}

const (
	reasonIneligible           = "the release-dates calculation reports this sentence as ineligible"
	reasonBeforeInitialRelease = "this sentence predates the initial release from custody"
)

// Cases buckets every case-management sentence against the verdict sets,
// first match wins: recallable, then ineligible (including
// sentences-before-initial-release), then expired. A sentence absent from
// all three sets is out of scope for this recall and is dropped. A case is
// only returned if it contributes at least one eligible sentence.
func Cases(cases []domain.CourtCase, v Verdicts) []domain.ReconciledCase {
	recallable := toSet(v.RecallableIDs)
	ineligible := toSet(v.IneligibleIDs)
	beforeRelease := toSet(v.BeforeInitialReleaseIDs)
	expired := toSet(v.ExpiredIDs)

	var out []domain.ReconciledCase
	for _, c := range cases {
		rc := domain.ReconciledCase{ID: c.ID, Reference: c.Reference, CourtName: c.CourtName}
		eligibleCount := 0
		for _, s := range c.Sentences {
			switch {
			case recallable[s.ID]:
				rc.Sentences = append(rc.Sentences, domain.DecoratedSentence{
					Sentence: s,
					Bucket:   domain.BucketEligible,
				})
				eligibleCount++
			case ineligible[s.ID]:
				rc.Sentences = append(rc.Sentences, domain.DecoratedSentence{
					Sentence:         s,
					Bucket:           domain.BucketIneligible,
					IneligibleReason: reasonIneligible,
				})
			case beforeRelease[s.ID]:
				rc.Sentences = append(rc.Sentences, domain.DecoratedSentence{
					Sentence:         s,
					Bucket:           domain.BucketIneligible,
					IneligibleReason: reasonBeforeInitialRelease,
				})
			case expired[s.ID]:
				rc.Sentences = append(rc.Sentences, domain.DecoratedSentence{
					Sentence: s,
					Bucket:   domain.BucketExpired,
				})
			}
		}
		if eligibleCount > 0 {
			out = append(out, rc)
		}
	}
	return out
}

// EligibleSentenceIDs flattens the eligible sentence ids of a reconciled
// view in case-management order, duplicates removed.
func EligibleSentenceIDs(cases []domain.ReconciledCase) []string {
	seen := map[string]bool{}
	var ids []string
	for _, c := range cases {
		for _, id := range c.EligibleSentenceIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
