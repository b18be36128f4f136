package recallsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal recall HTTP API client.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Journey represents an in-progress recall journey (partial).
type Journey struct {
	ID                  string   `json:"id"`
	SubjectID           string   `json:"subject_id"`
	Mode                string   `json:"mode,omitempty"`
	RevocationDate      *string  `json:"revocation_date,omitempty"`
	ReturnToCustodyDate *string  `json:"return_to_custody_date,omitempty"`
	InPrisonAtRecall    *bool    `json:"in_prison_at_recall,omitempty"`
	RecallTypeCode      string   `json:"recall_type_code,omitempty"`
	SentenceIDs         []string `json:"sentence_ids"`
	EditingRecallID     string   `json:"editing_recall_id,omitempty"`
}

// Outcome is a decision computation result.
type Outcome struct {
	Kind     string   `json:"kind"`
	Messages []string `json:"messages,omitempty"`
	Journey  Journey  `json:"journey"`
}

// RecallRecord is a submitted recall.
type RecallRecord struct {
	ID             string   `json:"id"`
	SubjectID      string   `json:"subject_id"`
	RevocationDate string   `json:"revocation_date"`
	RecallTypeCode string   `json:"recall_type_code"`
	SentenceIDs    []string `json:"sentence_ids"`
	UALDays        *int     `json:"ual_days,omitempty"`
}

// RecallType is one entry of the recall type universe.
type RecallType struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	FixedTerm   bool   `json:"fixed_term"`
}

// Event represents an audit log entry.
type Event struct {
	ID        int64          `json:"id"`
	TS        string         `json:"ts"`
	Type      string         `json:"type"`
	SubjectID string         `json:"subject_id,omitempty"`
	JourneyID string         `json:"journey_id,omitempty"`
	ActorID   string         `json:"actor_id"`
	Payload   map[string]any `json:"payload"`
}

// PaginatedEvents wraps list responses with cursors.
type PaginatedEvents struct {
	Items      []Event `json:"items"`
	NextCursor string  `json:"next_cursor"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// StartJourney begins a fresh recall journey for the subject.
func (c *Client) StartJourney(ctx context.Context, subjectID string) (Journey, error) {
	var resp Journey
	err := c.do(ctx, http.MethodPost, c.subjectPath(subjectID, ""), map[string]any{}, &resp)
	return resp, err
}

// StartEditJourney begins a journey editing a recorded recall.
func (c *Client) StartEditJourney(ctx context.Context, subjectID, recallID string) (Journey, error) {
	var resp Journey
	err := c.do(ctx, http.MethodPost, c.subjectPath(subjectID, ""), map[string]any{"edit_recall_id": recallID}, &resp)
	return resp, err
}

// GetJourney fetches a journey, refreshing its expiry. A 404 means the
// journey expired and the flow should restart.
func (c *Client) GetJourney(ctx context.Context, subjectID, journeyID string) (Journey, error) {
	var resp Journey
	err := c.do(ctx, http.MethodGet, c.subjectPath(subjectID, journeyID), nil, &resp)
	return resp, err
}

// CancelJourney discards a journey.
func (c *Client) CancelJourney(ctx context.Context, subjectID, journeyID string) error {
	return c.do(ctx, http.MethodDelete, c.subjectPath(subjectID, journeyID), nil, nil)
}

// SetRevocation records the revocation date and custody answer, returning
// the recomputed decision outcome.
func (c *Client) SetRevocation(ctx context.Context, subjectID, journeyID, revocationDate string, inPrison bool) (Outcome, error) {
	body := map[string]any{
		"revocation_date":     revocationDate,
		"in_prison_at_recall": inPrison,
	}
	var resp Outcome
	err := c.do(ctx, http.MethodPost, c.subjectPath(subjectID, journeyID)+"/revocation", body, &resp)
	return resp, err
}

// SetReturnToCustody records the return to custody date; pass nil while
// the offender is still unlawfully at large.
func (c *Client) SetReturnToCustody(ctx context.Context, subjectID, journeyID string, date *string) (Journey, error) {
	var resp Journey
	err := c.do(ctx, http.MethodPut, c.subjectPath(subjectID, journeyID)+"/return-to-custody", map[string]any{"return_to_custody_date": date}, &resp)
	return resp, err
}

// SetRecallType records the selected recall type.
func (c *Client) SetRecallType(ctx context.Context, subjectID, journeyID, code string) (Journey, error) {
	var resp Journey
	err := c.do(ctx, http.MethodPut, c.subjectPath(subjectID, journeyID)+"/recall-type", map[string]any{"code": code}, &resp)
	return resp, err
}

// Submit assembles and submits the recall, destroying the journey.
func (c *Client) Submit(ctx context.Context, subjectID, journeyID string) (RecallRecord, error) {
	var resp RecallRecord
	err := c.do(ctx, http.MethodPost, c.subjectPath(subjectID, journeyID)+"/submit", nil, &resp)
	return resp, err
}

// RecallTypes lists the recall type universe.
func (c *Client) RecallTypes(ctx context.Context) ([]RecallType, error) {
	var resp []RecallType
	err := c.do(ctx, http.MethodGet, "recall-types", nil, &resp)
	return resp, err
}

// Events lists audit events, newest first.
func (c *Client) Events(ctx context.Context, subjectID, cursor string, limit int) (PaginatedEvents, error) {
	endpoint := fmt.Sprintf("events?limit=%d", limit)
	if subjectID != "" {
		endpoint += "&subject_id=" + subjectID
	}
	if cursor != "" {
		endpoint += "&cursor=" + cursor
	}
	var resp PaginatedEvents
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) subjectPath(subjectID, journeyID string) string {
	p := "subjects/" + subjectID + "/journeys"
	if journeyID != "" {
		p += "/" + journeyID
	}
	return p
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
