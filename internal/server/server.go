// Package server exposes the recall journey engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/rest"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/domain"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/engine"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/journey"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"journey_expired"`
	Message string         `json:"message" example:"journey not found or expired"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the recall API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newRequestIDMiddleware())
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("Record a Recall API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerRecallTypes(group)
	registerJourneys(group, cfg.Engine)
	registerJourneySteps(group, cfg.Engine)
	registerJourneyViews(group, cfg.Engine)
	registerSubmission(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, journey.ErrNotFound) {
		// an expired journey is a restart signal, not a fault
		return newAPIError(http.StatusNotFound, "journey_expired", "journey not found or expired; restart the flow", nil)
	}
	var fe engine.FormError
	if errors.As(err, &fe) {
		return newAPIError(http.StatusBadRequest, "bad_request", fe.Message, nil)
	}
	var be engine.BlockedError
	if errors.As(err, &be) {
		return newAPIError(http.StatusConflict, be.Code, be.Message, nil)
	}
	var ue *rest.APIError
	if errors.As(err, &ue) {
		return newAPIError(http.StatusBadGateway, "upstream_error", "a collaborating service failed", map[string]any{"status": ue.StatusCode})
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusBadGateway:
		return "upstream_error"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func parseDate(value, field string) (time.Time, huma.StatusError) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, newAPIError(http.StatusBadRequest, "bad_request", fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field), map[string]any{"field": field})
	}
	return t, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerRecallTypes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-recall-types",
		Method:      http.MethodGet,
		Path:        "/recall-types",
		Summary:     "List the recall type universe",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []RecallTypeResponse `json:"body"`
	}, error) {
		var out []RecallTypeResponse
		for _, rt := range eligibility.RecallTypes() {
			out = append(out, recallTypeResponse(rt))
		}
		return &struct {
			Body []RecallTypeResponse `json:"body"`
		}{Body: out}, nil
	})
}

func registerJourneys(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "start-journey",
		Method:        http.MethodPost,
		Path:          "/subjects/{subject_id}/journeys",
		Summary:       "Start a recall journey",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string              `path:"subject_id"`
		Body      StartJourneyRequest `json:"body"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		var (
			j   domain.Journey
			err error
		)
		if input.Body.EditRecallID != nil && *input.Body.EditRecallID != "" {
			j, err = e.StartEditJourney(ctx, input.SubjectID, *input.Body.EditRecallID, actorID)
		} else {
			j, err = e.StartJourney(ctx, input.SubjectID, actorID)
		}
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-journeys",
		Method:      http.MethodGet,
		Path:        "/subjects/{subject_id}/journeys",
		Summary:     "List the subject's in-progress journeys",
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
	}) (*struct {
		Body []JourneyResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		out := []JourneyResponse{}
		for _, j := range e.Journeys.ListBySubject(input.SubjectID) {
			out = append(out, journeyResponse(j))
		}
		return &struct {
			Body []JourneyResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-journey",
		Method:      http.MethodGet,
		Path:        "/subjects/{subject_id}/journeys/{id}",
		Summary:     "Get a journey",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		j, err := e.GetJourney(ctx, input.SubjectID, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-journey",
		Method:      http.MethodDelete,
		Path:        "/subjects/{subject_id}/journeys/{id}",
		Summary:     "Cancel a journey",
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct{}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		e.CancelJourney(ctx, input.SubjectID, input.ID, actorID)
		return &struct{}{}, nil
	})
}

func registerJourneySteps(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "set-revocation",
		Method:      http.MethodPost,
		Path:        "/subjects/{subject_id}/journeys/{id}/revocation",
		Summary:     "Record the revocation date and recompute the decision",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string               `path:"subject_id"`
		ID        string               `path:"id"`
		Body      SetRevocationRequest `json:"body"`
	}) (*struct {
		Body OutcomeResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if input.Body.RevocationDate == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "revocation_date is required", nil)
		}
		revocation, perr := parseDate(input.Body.RevocationDate, "revocation_date")
		if perr != nil {
			return nil, perr
		}
		out, err := e.SetRevocationDate(ctx, input.SubjectID, input.ID, revocation, input.Body.InPrisonAtRecall, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body OutcomeResponse `json:"body"`
		}{Body: outcomeResponse(out)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recompute-decision",
		Method:      http.MethodPost,
		Path:        "/subjects/{subject_id}/journeys/{id}/decision",
		Summary:     "Recompute the journey decision",
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body OutcomeResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		out, err := e.ComputeDecision(ctx, input.SubjectID, input.ID, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body OutcomeResponse `json:"body"`
		}{Body: outcomeResponse(out)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-return-to-custody",
		Method:      http.MethodPut,
		Path:        "/subjects/{subject_id}/journeys/{id}/return-to-custody",
		Summary:     "Record the return to custody date",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string                    `path:"subject_id"`
		ID        string                    `path:"id"`
		Body      SetReturnToCustodyRequest `json:"body"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		var rtc *time.Time
		if input.Body.ReturnToCustodyDate != nil {
			parsed, perr := parseDate(*input.Body.ReturnToCustodyDate, "return_to_custody_date")
			if perr != nil {
				return nil, perr
			}
			rtc = &parsed
		}
		j, err := e.SetReturnToCustody(ctx, input.SubjectID, input.ID, rtc, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-recall-type",
		Method:      http.MethodPut,
		Path:        "/subjects/{subject_id}/journeys/{id}/recall-type",
		Summary:     "Record the selected recall type",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string               `path:"subject_id"`
		ID        string               `path:"id"`
		Body      SetRecallTypeRequest `json:"body"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if input.Body.Code == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "code is required", nil)
		}
		j, err := e.SetRecallType(ctx, input.SubjectID, input.ID, input.Body.Code, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-reviewing-summary",
		Method:      http.MethodPost,
		Path:        "/subjects/{subject_id}/journeys/{id}/reviewing-summary",
		Summary:     "Mark the journey as reviewing its summary",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		j, err := e.MarkReviewingSummary(ctx, input.SubjectID, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})

	registerCaseSelection(api, e, "select-case", "select", "Select a court case for the recall")
	registerCaseSelection(api, e, "exclude-case", "exclude", "Exclude a court case from the recall")
}

func registerCaseSelection(api huma.API, e engine.Engine, opID, action, summary string) {
	huma.Register(api, huma.Operation{
		OperationID: opID,
		Method:      http.MethodPost,
		Path:        "/subjects/{subject_id}/journeys/{id}/cases/{case_id}/" + action,
		Summary:     summary,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
		CaseID    string `path:"case_id"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		var (
			j   domain.Journey
			err error
		)
		if action == "select" {
			j, err = e.SelectCase(ctx, input.SubjectID, input.ID, input.CaseID)
		} else {
			j, err = e.ExcludeCase(ctx, input.SubjectID, input.ID, input.CaseID)
		}
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})
}

func registerJourneyViews(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "journey-sentences",
		Method:      http.MethodGet,
		Path:        "/subjects/{subject_id}/journeys/{id}/sentences",
		Summary:     "Reconciled sentence view for the automated review screen",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body []ReconciledCaseResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		cases, err := e.SentenceView(ctx, input.SubjectID, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		out := []ReconciledCaseResponse{}
		for _, c := range cases {
			out = append(out, reconciledCaseResponse(c))
		}
		return &struct {
			Body []ReconciledCaseResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "journey-court-cases",
		Method:      http.MethodGet,
		Path:        "/subjects/{subject_id}/journeys/{id}/court-cases",
		Summary:     "Court case view for manual selection",
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body []CourtCaseResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		cases, err := e.CourtCaseView(ctx, input.SubjectID, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		out := []CourtCaseResponse{}
		for _, c := range cases {
			out = append(out, courtCaseResponse(c))
		}
		return &struct {
			Body []CourtCaseResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-validation",
		Method:      http.MethodPost,
		Path:        "/subjects/{subject_id}/journeys/{id}/validation",
		Summary:     "Refresh the advisory validation summary",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body JourneyResponse `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		j, err := e.RefreshValidation(ctx, input.SubjectID, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body JourneyResponse `json:"body"`
		}{Body: journeyResponse(j)}, nil
	})
}

func registerSubmission(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "submit-recall",
		Method:        http.MethodPost,
		Path:          "/subjects/{subject_id}/journeys/{id}/submit",
		Summary:       "Submit the recall",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusBadGateway,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		SubjectID string `path:"subject_id"`
		ID        string `path:"id"`
	}) (*struct {
		Body RecallRecordResponse `json:"body"`
	}, error) {
		actorID, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		record, err := e.Submit(ctx, input.SubjectID, input.ID, actorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body RecallRecordResponse `json:"body"`
		}{Body: recordResponse(record)}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List audit events, newest first",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		SubjectID string `query:"subject_id"`
		JourneyID string `query:"journey_id"`
		Type      string `query:"type"`
		Limit     int    `query:"limit" default:"50"`
		Cursor    string `query:"cursor"`
	}) (*struct {
		Body paginatedEvents `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		var cursor int64
		if input.Cursor != "" {
			parsed, err := strconv.ParseInt(input.Cursor, 10, 64)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid cursor", map[string]any{"cursor": input.Cursor})
			}
			cursor = parsed
		}
		limit := input.Limit
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		r := repo.Repo{DB: e.DB}
		items, err := r.LatestEventsFrom(ctx, limit+1, cursor, input.SubjectID, input.JourneyID, input.Type)
		if err != nil {
			return nil, handleError(err)
		}
		resp := paginatedEvents{Items: []EventResponse{}}
		if len(items) > limit {
			resp.NextCursor = strconv.FormatInt(items[limit-1].ID, 10)
			items = items[:limit]
		}
		for _, ev := range items {
			resp.Items = append(resp.Items, eventResponse(ev))
		}
		return &struct {
			Body paginatedEvents `json:"body"`
		}{Body: resp}, nil
	})
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var (
		once sync.Once
		spec []byte
	)
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			oas := api.OpenAPI()
			applyAuthSecurity(oas, basePath)
			spec, _ = json.Marshal(oas)
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func applyAuthSecurity(oas *huma.OpenAPI, basePath string) {
	if oas == nil {
		return
	}
	if oas.Components == nil {
		oas.Components = &huma.Components{}
	}
	if oas.Components.SecuritySchemes == nil {
		oas.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	oas.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
	security := []map[string][]string{{"bearerAuth": {}}}
	oas.Security = security
	healthPath := path.Join(basePath, "health")
	if !strings.HasPrefix(healthPath, "/") {
		healthPath = "/" + healthPath
	}
	for route, item := range oas.Paths {
		for _, op := range []*huma.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Options, item.Head, item.Patch, item.Trace,
		} {
			if op == nil {
				continue
			}
			if route == healthPath {
				op.Security = []map[string][]string{}
				continue
			}
			op.Security = security
		}
	}
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Record a Recall API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt;.
    </p>
  </body>
</html>`, specURL)
}
