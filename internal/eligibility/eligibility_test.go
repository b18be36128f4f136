package eligibility_test

import (
	"testing"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
)

func TestIneligibleTypesComplement(t *testing.T) {
	ineligible := eligibility.IneligibleTypesFor(eligibility.StandardRecall)
	if len(ineligible) != 6 {
		t.Fatalf("expected 6 ineligible types, got %d", len(ineligible))
	}
	for _, rt := range ineligible {
		if rt.Code == eligibility.StandardRecall {
			t.Fatalf("standard recall must not be in its own complement")
		}
	}
}

func TestIneligibleTypesEmptyEligibleSet(t *testing.T) {
	if got := eligibility.IneligibleTypesFor(); len(got) != 7 {
		t.Fatalf("empty eligible set should exclude the whole universe, got %d", len(got))
	}
}

func TestCombineRoutesWorstCase(t *testing.T) {
	cases := []struct {
		in   []eligibility.Route
		want eligibility.Route
	}{
		{nil, eligibility.RouteNormal},
		{[]eligibility.Route{eligibility.RouteNormal}, eligibility.RouteNormal},
		{[]eligibility.Route{eligibility.RouteNormal, eligibility.RouteManual}, eligibility.RouteManual},
		{[]eligibility.Route{eligibility.RouteManual, eligibility.RouteNotPossible, eligibility.RouteNormal}, eligibility.RouteNotPossible},
	}
	for _, tc := range cases {
		if got := eligibility.CombineRoutes(tc.in...); got != tc.want {
			t.Fatalf("combine %v: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestRouteForUnknownReason(t *testing.T) {
	if _, err := eligibility.RouteFor("NOT_A_REASON"); err == nil {
		t.Fatalf("expected error for unknown reason code")
	}
	r, err := eligibility.RouteFor(eligibility.ReasonIndeterminate)
	if err != nil || r != eligibility.RouteManual {
		t.Fatalf("expected manual route for indeterminate, got %s (%v)", r, err)
	}
}

func TestClassifyNoRecallableSentences(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "s1", Recallable: false}}},
	}
	rs := eligibility.Classify(cases)
	if len(rs) != 1 || rs[0].Code != eligibility.ReasonNoSentencesForRecall {
		t.Fatalf("expected single no-sentences reason, got %+v", rs)
	}
	if route := eligibility.RouteForPopulation(cases); route != eligibility.RouteNotPossible {
		t.Fatalf("expected notPossible, got %s", route)
	}
}

func TestClassifyIndeterminateAndHDCCombine(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "s1", Recallable: true, Indeterminate: true},
			{ID: "s2", Recallable: true, HDCApproved: true},
		}},
	}
	rs := eligibility.Classify(cases)
	var codes []string
	for _, r := range rs {
		codes = append(codes, r.Code)
	}
	if len(rs) < 2 {
		t.Fatalf("expected indeterminate and HDC reasons, got %v", codes)
	}
	// manual beats normal
	if route := eligibility.RouteForPopulation(cases); route != eligibility.RouteManual {
		t.Fatalf("expected manual route, got %s", route)
	}
	// only the standard recall survives both envelopes
	permitted := eligibility.PermittedTypes(rs)
	if len(permitted) != 1 || permitted[0].Code != eligibility.StandardRecall {
		t.Fatalf("expected only standard recall permitted, got %+v", permitted)
	}
}

func TestClassifyStandardDeterminate(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{{ID: "s1", Recallable: true, SentenceType: "SDS"}}},
	}
	rs := eligibility.Classify(cases)
	if len(rs) != 1 || rs[0].Code != eligibility.ReasonStandardDeterminate {
		t.Fatalf("expected standard determinate reason, got %+v", rs)
	}
	if !eligibility.IsTypePermitted(rs, eligibility.TwentyEightDayFTR) {
		t.Fatalf("expected 28-day FTR permitted for standard determinate")
	}
	if eligibility.IsTypePermitted(rs, eligibility.CurfewConditionHDC) {
		t.Fatalf("HDC curfew recall must not be permitted without an HDC release")
	}
}

func TestInformationalReasonDoesNotNarrowEnvelope(t *testing.T) {
	cases := []domain.CourtCase{
		{ID: "c1", Sentences: []domain.Sentence{
			{ID: "s1", Recallable: true},
			{ID: "s2", Recallable: true},
		}},
	}
	rs := eligibility.Classify(cases)
	foundInfo := false
	for _, r := range rs {
		if r.Code == eligibility.ReasonMultipleSentences {
			foundInfo = true
			if r.AffectsEnvelope {
				t.Fatalf("multiple-sentences reason must be informational")
			}
		}
	}
	if !foundInfo {
		t.Fatalf("expected multiple-sentences reason for two recallable sentences")
	}
	permitted := eligibility.PermittedTypes(rs)
	if len(permitted) != 3 {
		t.Fatalf("informational reason must not narrow the envelope, got %+v", permitted)
	}
}
