// Package ports defines how the engine talks to its external
// collaborators. The full contracts are owned elsewhere; these interfaces
// cover only what the core depends on.
package ports

import (
	"context"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

// CalculationClient is the release-dates calculation collaborator, the
// source of truth for legal eligibility on a given revocation date.
type CalculationClient interface {
	// Validate runs the advisory pre-flight checks. Callers treat a
	// failure as fail-open: the caseworker is not blocked by an
	// unavailable advisory check.
	Validate(ctx context.Context, subjectID string) (domain.ValidationSummary, error)
	// Decide computes the recall decision for a revocation date. A
	// failure here fails closed: without a verdict the recall must not
	// proceed.
	Decide(ctx context.Context, subjectID string, revocationDate time.Time) (domain.Decision, error)
}

// CaseManagementClient is the remand-and-sentencing collaborator, the
// source of truth for which sentences exist and which case they belong to.
// It also owns persistence of finished recalls.
type CaseManagementClient interface {
	GetRecallableCourtCases(ctx context.Context, subjectID string) ([]domain.CourtCase, error)
	GetExistingRecall(ctx context.Context, recallID string) (domain.RecallRecord, error)
	SubmitRecall(ctx context.Context, record domain.RecallRecord) (string, error)
	UpdateRecall(ctx context.Context, recallID string, record domain.RecallRecord) error
}

// AdjustmentsClient lists existing administrative adjustments overlapping
// a window, for the conflicting-adjustments interrupt screen.
type AdjustmentsClient interface {
	GetAdjustmentsOverlapping(ctx context.Context, subjectID string, from time.Time, to *time.Time) ([]domain.Adjustment, error)
}
