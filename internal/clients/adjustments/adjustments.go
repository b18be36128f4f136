// Package adjustments is the client for the adjustments API.
package adjustments

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

// GetAdjustmentsOverlapping lists adjustments overlapping the window, for
// the conflicting-adjustments review screen. A nil "to" means an open
// window (no return to custody yet).
func (c *Client) GetAdjustmentsOverlapping(ctx context.Context, subjectID string, from time.Time, to *time.Time) ([]domain.Adjustment, error) {
	var resp struct {
		Adjustments []domain.Adjustment `json:"adjustments"`
	}
	q := url.Values{"from": {from.Format(time.DateOnly)}}
	if to != nil {
		q.Set("to", to.Format(time.DateOnly))
	}
	endpoint := fmt.Sprintf("subjects/%s/adjustments?%s", url.PathEscape(subjectID), q.Encode())
	if err := c.rest.Do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Adjustments, nil
}
