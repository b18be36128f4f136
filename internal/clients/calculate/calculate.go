// Package calculate is the client for the release-dates calculation API.
package calculate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/rest"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

type Client struct {
	rest *rest.Client
}

func New(baseURL string, tokens rest.TokenSource) *Client {
	return &Client{rest: rest.New(baseURL, tokens)}
}

type messageDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationDTO struct {
	CriticalMessages     []messageDTO `json:"criticalValidationMessages"`
	OtherMessages        []messageDTO `json:"otherValidationMessages"`
	EarliestSentenceDate *string      `json:"earliestSentenceDate"`
}

// Validate runs the collaborator's advisory pre-flight checks.
func (c *Client) Validate(ctx context.Context, subjectID string) (domain.ValidationSummary, error) {
	var dto validationDTO
	endpoint := fmt.Sprintf("validation/%s", url.PathEscape(subjectID))
	if err := c.rest.Do(ctx, http.MethodGet, endpoint, nil, &dto); err != nil {
		return domain.ValidationSummary{}, err
	}
	summary := domain.ValidationSummary{
		CriticalMessages: messages(dto.CriticalMessages),
		OtherMessages:    messages(dto.OtherMessages),
	}
	if dto.EarliestSentenceDate != nil {
		d, err := time.Parse(time.DateOnly, *dto.EarliestSentenceDate)
		if err != nil {
			return domain.ValidationSummary{}, fmt.Errorf("parse earliest sentence date: %w", err)
		}
		summary.EarliestSentenceDate = &d
	}
	return summary, nil
}

func messages(in []messageDTO) []string {
	var out []string
	for _, m := range in {
		out = append(out, m.Message)
	}
	return out
}

// Wire verdict kinds returned by the calculation API.
const (
	verdictAutomated              = "AUTOMATED"
	verdictCriticalErrors         = "CRITICAL_ERRORS"
	verdictConflictingAdjustments = "CONFLICTING_ADJUSTMENTS"
	verdictNoSentencesForRecall   = "NO_SENTENCES_FOR_RECALL"
	verdictManualReviewRequired   = "MANUAL_REVIEW_REQUIRED"
)

type decisionDTO struct {
	DecisionType                     string       `json:"decisionType"`
	CalculationRequestID             string       `json:"calculationRequestId"`
	RecallableSentenceIDs            []string     `json:"recallableSentenceIds"`
	IneligibleSentenceIDs            []string     `json:"ineligibleSentenceIds"`
	SentencesBeforeInitialReleaseIDs []string     `json:"sentencesBeforeInitialReleaseIds"`
	ExpiredSentenceIDs               []string     `json:"expiredSentenceIds"`
	UnexpectedRecallTypeIDs          []string     `json:"unexpectedRecallTypeSentenceIds"`
	Messages                         []messageDTO `json:"messages"`
	WindowFrom                       *string      `json:"conflictWindowFrom"`
	WindowTo                         *string      `json:"conflictWindowTo"`
}

// Decide asks the collaborator for its verdict on a revocation date and
// maps it onto the sealed decision variant. A verdict kind this client does
// not recognise is an error, never a default: it means a new kind was
// introduced upstream without a branch here.
func (c *Client) Decide(ctx context.Context, subjectID string, revocationDate time.Time) (domain.Decision, error) {
	var dto decisionDTO
	endpoint := fmt.Sprintf("record-a-recall/%s", url.PathEscape(subjectID))
	body := map[string]string{"revocationDate": revocationDate.Format(time.DateOnly)}
	if err := c.rest.Do(ctx, http.MethodPost, endpoint, body, &dto); err != nil {
		return nil, err
	}
	switch dto.DecisionType {
	case verdictCriticalErrors:
		return domain.CriticalErrors{Messages: messages(dto.Messages)}, nil
	case verdictConflictingAdjustments:
		conflict := domain.ConflictingAdjustments{WindowFrom: revocationDate}
		if dto.WindowFrom != nil {
			if from, err := time.Parse(time.DateOnly, *dto.WindowFrom); err == nil {
				conflict.WindowFrom = from
			}
		}
		if dto.WindowTo != nil {
			if to, err := time.Parse(time.DateOnly, *dto.WindowTo); err == nil {
				conflict.WindowTo = &to
			}
		}
		return conflict, nil
	case verdictNoSentencesForRecall:
		return domain.NoRecallableSentences{}, nil
	case verdictManualReviewRequired:
		return domain.ManualSelectionRequired{Messages: messages(dto.Messages)}, nil
	case verdictAutomated:
		return domain.AutomatedCalculation{
			RequestID:               dto.CalculationRequestID,
			RecallableIDs:           dto.RecallableSentenceIDs,
			IneligibleIDs:           dto.IneligibleSentenceIDs,
			BeforeInitialReleaseIDs: dto.SentencesBeforeInitialReleaseIDs,
			ExpiredIDs:              dto.ExpiredSentenceIDs,
			UnexpectedRecallTypeIDs: dto.UnexpectedRecallTypeIDs,
		}, nil
	default:
		return nil, fmt.Errorf("unrecognised decision type %q from calculation api", dto.DecisionType)
	}
}
