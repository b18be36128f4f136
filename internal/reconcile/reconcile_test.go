package reconcile_test

import (
	"testing"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/reconcile"
)

func TestBucketPrecedence(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "s1", Recallable: true},
			{ID: "s2", Recallable: true},
			{ID: "s3", Recallable: true},
			{ID: "s4", Recallable: true},
		}},
	}
	v := reconcile.Verdicts{
		RecallableIDs:           []string{"s1"},
		IneligibleIDs:           []string{"s2"},
		BeforeInitialReleaseIDs: []string{"s3"},
		ExpiredIDs:              []string{"s4"},
	}
	out := reconcile.Cases(cases, v)
	if len(out) != 1 || len(out[0].Sentences) != 4 {
		t.Fatalf("expected one case with four sentences, got %+v", out)
	}
	buckets := map[string]domain.EligibilityBucket{}
	for _, s := range out[0].Sentences {
		buckets[s.ID] = s.Bucket
	}
	if buckets["s1"] != domain.BucketEligible {
		t.Fatalf("s1 should be eligible, got %s", buckets["s1"])
	}
	if buckets["s2"] != domain.BucketIneligible || buckets["s3"] != domain.BucketIneligible {
		t.Fatalf("s2/s3 should be ineligible, got %s/%s", buckets["s2"], buckets["s3"])
	}
	if buckets["s4"] != domain.BucketExpired {
		t.Fatalf("s4 should be expired, got %s", buckets["s4"])
	}
}

func TestRecallablePrecedenceOverOtherSets(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "s1", Recallable: true}}},
	}
	v := reconcile.Verdicts{
		RecallableIDs: []string{"s1"},
		IneligibleIDs: []string{"s1"},
		ExpiredIDs:    []string{"s1"},
	}
	out := reconcile.Cases(cases, v)
	if len(out) != 1 || out[0].Sentences[0].Bucket != domain.BucketEligible {
		t.Fatalf("recallable must win over the other sets, got %+v", out)
	}
}

func TestSentenceInNoSetIsDropped(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "s1", Recallable: true},
			{ID: "s2", Recallable: true},
		}},
	}
	v := reconcile.Verdicts{RecallableIDs: []string{"s1"}}
	out := reconcile.Cases(cases, v)
	if len(out) != 1 || len(out[0].Sentences) != 1 || out[0].Sentences[0].ID != "s1" {
		t.Fatalf("s2 is out of scope and should be dropped, got %+v", out)
	}
}

func TestCaseWithoutEligibleSentencesIsOmitted(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "s1", Recallable: true}}},
		{ID: "c2", Sentences: []domain.Sentence{{ID: "s2", Recallable: true}}},
	}
	v := reconcile.Verdicts{
		RecallableIDs: []string{"s1"},
		ExpiredIDs:    []string{"s2"},
	}
	out := reconcile.Cases(cases, v)
	if len(out) != 1 || out[0].ID != "c1" {
		t.Fatalf("c2 contributes no eligible sentence and should be omitted, got %+v", out)
	}
}

func TestExpiredOnlySentenceBucketedExpired(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "s1", Recallable: true},
			{ID: "s2", Recallable: true},
		}},
	}
	v := reconcile.Verdicts{
		RecallableIDs: []string{"s1"},
		ExpiredIDs:    []string{"s2"},
	}
	out := reconcile.Cases(cases, v)
	if out[0].Sentences[1].Bucket != domain.BucketExpired {
		t.Fatalf("expected expired bucket, got %s", out[0].Sentences[1].Bucket)
	}
}

func TestEligibleSentenceIDsDeduplicated(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "s1", Recallable: true}}},
		{ID: "c2", Sentences: []domain.Sentence{{ID: "s1", Recallable: true}, {ID: "s2", Recallable: true}}},
	}
	v := reconcile.Verdicts{RecallableIDs: []string{"s1", "s2"}}
	ids := reconcile.EligibleSentenceIDs(reconcile.Cases(cases, v))
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Fatalf("expected [s1 s2], got %v", ids)
	}
}
