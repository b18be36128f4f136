// Package eligibility holds the static recall-type universe and the rule
// table mapping sentence-population classifications to permitted recall
// types and a routing verdict. Both tables are immutable and defined once
// at start-up; derived sets are computed by pure functions so no rule can
// mutate the universe.
package eligibility

import (
	"fmt"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

// Recall type codes.
const (
	StandardRecall     = "LR"
	FourteenDayFTR     = "FTR_14"
	TwentyEightDayFTR  = "FTR_28"
	FourteenDayHDCFTR  = "FTR_HDC_14"
	TwentyEightDayHDC  = "FTR_HDC_28"
	CurfewConditionHDC = "CUR_HDC"
	InabilityHDC       = "IN_HDC"
)

// RecallType is one kind of recall.
type RecallType struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	FixedTerm   bool   `json:"fixed_term"`
}

// recallTypes is the full universe. Adding a type here automatically makes
// it ineligible under every existing reason until the reason's eligible set
// is updated.
var recallTypes = []RecallType{
	{Code: StandardRecall, Description: "Standard recall", FixedTerm: false},
	{Code: FourteenDayFTR, Description: "14-day fixed-term recall", FixedTerm: true},
	{Code: TwentyEightDayFTR, Description: "28-day fixed-term recall", FixedTerm: true},
	{Code: FourteenDayHDCFTR, Description: "14-day fixed-term recall from HDC", FixedTerm: true},
	{Code: TwentyEightDayHDC, Description: "28-day fixed-term recall from HDC", FixedTerm: true},
	{Code: CurfewConditionHDC, Description: "HDC recall from curfew conditions", FixedTerm: false},
	{Code: InabilityHDC, Description: "HDC recall from inability to monitor", FixedTerm: false},
}

// RecallTypes returns the full universe in display order.
func RecallTypes() []RecallType {
	out := make([]RecallType, len(recallTypes))
	copy(out, recallTypes)
	return out
}

// RecallTypeByCode looks a type up in the universe.
func RecallTypeByCode(code string) (RecallType, bool) {
	for _, rt := range recallTypes {
		if rt.Code == code {
			return rt, true
		}
	}
	return RecallType{}, false
}

// IneligibleTypesFor returns the complement of the given eligible codes
// within the universe, in universe order. Every type not explicitly listed
// as eligible is ineligible.
func IneligibleTypesFor(eligible ...string) []RecallType {
	set := make(map[string]bool, len(eligible))
	for _, code := range eligible {
		set[code] = true
	}
	var out []RecallType
	for _, rt := range recallTypes {
		if !set[rt.Code] {
			out = append(out, rt)
		}
	}
	return out
}

// Route decides whether the overall journey may proceed normally, must go
// manual, or is blocked outright.
type Route string

const (
	RouteNormal      Route = "normal"
	RouteManual      Route = "manual"
	RouteNotPossible Route = "notPossible"
)

var routeSeverity = map[Route]int{
	RouteNormal:      0,
	RouteManual:      1,
	RouteNotPossible: 2,
}

// CombineRoutes folds multiple routes into the worst case,
// notPossible > manual > normal.
func CombineRoutes(routes ...Route) Route {
	combined := RouteNormal
	for _, r := range routes {
		if routeSeverity[r] > routeSeverity[combined] {
			combined = r
		}
	}
	return combined
}

// Reason codes.
const (
	ReasonStandardDeterminate  = "STANDARD_DETERMINATE"
	ReasonHDCRelease           = "HDC_RELEASE"
	ReasonIndeterminate        = "INDETERMINATE_SENTENCE"
	ReasonUnsupportedType      = "UNSUPPORTED_SENTENCE_TYPE"
	ReasonNoSentencesForRecall = "NO_SENTENCES_FOR_RECALL"
	ReasonMultipleSentences    = "MULTIPLE_ACTIVE_SENTENCES"
)

// Reason describes one reason a sentence population falls into a given
// eligibility category. The eligible set is the source of truth; the
// ineligible set is always derived as its complement.
type Reason struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Route       Route  `json:"route"`
	// AffectsEnvelope marks reasons that change the recall-possibility
	// envelope, as opposed to being informational.
	AffectsEnvelope bool     `json:"affects_envelope"`
	EligibleTypes   []string `json:"eligible_types"`
}

// IneligibleRecallTypes derives the types this reason excludes.
func (r Reason) IneligibleRecallTypes() []RecallType {
	return IneligibleTypesFor(r.EligibleTypes...)
}

var reasons = map[string]Reason{
	ReasonStandardDeterminate: {
		Code:            ReasonStandardDeterminate,
		Description:     "Standard determinate sentences released on licence",
		Route:           RouteNormal,
		AffectsEnvelope: true,
		EligibleTypes:   []string{StandardRecall, FourteenDayFTR, TwentyEightDayFTR},
	},
	ReasonHDCRelease: {
		Code:            ReasonHDCRelease,
		Description:     "Released on home detention curfew",
		Route:           RouteNormal,
		AffectsEnvelope: true,
		EligibleTypes: []string{
			StandardRecall, FourteenDayHDCFTR, TwentyEightDayHDC, CurfewConditionHDC, InabilityHDC,
		},
	},
	ReasonIndeterminate: {
		Code:            ReasonIndeterminate,
		Description:     "Population includes an indeterminate sentence",
		Route:           RouteManual,
		AffectsEnvelope: true,
		EligibleTypes:   []string{StandardRecall},
	},
	ReasonUnsupportedType: {
		Code:            ReasonUnsupportedType,
		Description:     "Population includes a sentence type the calculation engine does not support",
		Route:           RouteManual,
		AffectsEnvelope: true,
		EligibleTypes:   []string{StandardRecall},
	},
	ReasonNoSentencesForRecall: {
		Code:            ReasonNoSentencesForRecall,
		Description:     "No sentence in the population can be recalled",
		Route:           RouteNotPossible,
		AffectsEnvelope: true,
		EligibleTypes:   nil,
	},
	ReasonMultipleSentences: {
		Code:            ReasonMultipleSentences,
		Description:     "Multiple active recallable sentences",
		Route:           RouteNormal,
		AffectsEnvelope: false,
		EligibleTypes: []string{
			StandardRecall, FourteenDayFTR, TwentyEightDayFTR,
			FourteenDayHDCFTR, TwentyEightDayHDC, CurfewConditionHDC, InabilityHDC,
		},
	},
}

// ReasonByCode looks up the static table.
func ReasonByCode(code string) (Reason, bool) {
	r, ok := reasons[code]
	return r, ok
}

// RouteFor returns the route for a reason code. Unknown codes indicate a
// classification bug and are returned as errors rather than defaulted.
func RouteFor(code string) (Route, error) {
	r, ok := reasons[code]
	if !ok {
		return "", fmt.Errorf("unknown eligibility reason code %q", code)
	}
	return r.Route, nil
}

// sentence types the calculation engine can handle automatically.
var supportedSentenceTypes = map[string]bool{
	"":     true, // legacy records with no type recorded are treated as SDS
	"SDS":  true,
	"EDS":  true,
	"SOPC": true,
	"DTO":  true,
}

// Classify derives the eligibility reasons that apply to a sentence
// population. Several reasons can apply at once; the caller combines their
// routes with CombineRoutes.
func Classify(cases []domain.CourtCase) []Reason {
	var (
		recallable    int
		indeterminate bool
		hdc           bool
		unsupported   bool
	)
	for _, c := range cases {
		for _, s := range c.Sentences {
			if s.Recallable {
				recallable++
			}
			if s.Indeterminate {
				indeterminate = true
			}
			if s.HDCApproved {
				hdc = true
			}
			if !supportedSentenceTypes[s.SentenceType] {
				unsupported = true
			}
		}
	}

	if recallable == 0 {
		return []Reason{reasons[ReasonNoSentencesForRecall]}
	}
	var out []Reason
	if indeterminate {
		out = append(out, reasons[ReasonIndeterminate])
	}
	if unsupported {
		out = append(out, reasons[ReasonUnsupportedType])
	}
	if hdc {
		out = append(out, reasons[ReasonHDCRelease])
	}
	if len(out) == 0 {
		out = append(out, reasons[ReasonStandardDeterminate])
	}
	if recallable > 1 {
		out = append(out, reasons[ReasonMultipleSentences])
	}
	return out
}

// RouteForPopulation classifies the population and combines the resulting
// routes into the worst case.
func RouteForPopulation(cases []domain.CourtCase) Route {
	rs := Classify(cases)
	routes := make([]Route, 0, len(rs))
	for _, r := range rs {
		routes = append(routes, r.Route)
	}
	return CombineRoutes(routes...)
}

// PermittedTypes intersects the eligible sets of every envelope-affecting
// reason. Informational reasons do not narrow the envelope.
func PermittedTypes(rs []Reason) []RecallType {
	permitted := make(map[string]bool, len(recallTypes))
	for _, rt := range recallTypes {
		permitted[rt.Code] = true
	}
	for _, r := range rs {
		if !r.AffectsEnvelope {
			continue
		}
		eligible := make(map[string]bool, len(r.EligibleTypes))
		for _, code := range r.EligibleTypes {
			eligible[code] = true
		}
		for code := range permitted {
			if !eligible[code] {
				delete(permitted, code)
			}
		}
	}
	var out []RecallType
	for _, rt := range recallTypes {
		if permitted[rt.Code] {
			out = append(out, rt)
		}
	}
	return out
}

// IsTypePermitted reports whether a recall type survives every
// envelope-affecting reason for the population.
func IsTypePermitted(rs []Reason, code string) bool {
	for _, rt := range PermittedTypes(rs) {
		if rt.Code == code {
			return true
		}
	}
	return false
}
