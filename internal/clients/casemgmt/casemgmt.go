// Package casemgmt is the client for the remand-and-sentencing API.
package casemgmt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/rest"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
)

type Client struct {
	rest *rest.Client
}

func New(baseURL string, tokens rest.TokenSource) *Client {
	return &Client{rest: rest.New(baseURL, tokens)}
}

// GetRecallableCourtCases lists the subject's court cases with their
// sentences, each flagged recallable at the case-management level.
func (c *Client) GetRecallableCourtCases(ctx context.Context, subjectID string) ([]domain.CourtCase, error) {
	var resp struct {
		Cases []domain.CourtCase `json:"cases"`
	}
	endpoint := fmt.Sprintf("subjects/%s/recallable-court-cases", url.PathEscape(subjectID))
	if err := c.rest.Do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cases, nil
}

// GetExistingRecall fetches a recorded recall, used to pre-populate an
// edit journey.
func (c *Client) GetExistingRecall(ctx context.Context, recallID string) (domain.RecallRecord, error) {
	var record domain.RecallRecord
	endpoint := fmt.Sprintf("recalls/%s", url.PathEscape(recallID))
	err := c.rest.Do(ctx, http.MethodGet, endpoint, nil, &record)
	return record, err
}

// SubmitRecall persists a finished recall and returns its id. This core
// never stores finished recalls itself.
func (c *Client) SubmitRecall(ctx context.Context, record domain.RecallRecord) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("subjects/%s/recalls", url.PathEscape(record.SubjectID))
	if err := c.rest.Do(ctx, http.MethodPost, endpoint, record, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// UpdateRecall replaces a recorded recall at the end of an edit journey.
func (c *Client) UpdateRecall(ctx context.Context, recallID string, record domain.RecallRecord) error {
	endpoint := fmt.Sprintf("recalls/%s", url.PathEscape(recallID))
	return c.rest.Do(ctx, http.MethodPut, endpoint, record, nil)
}
