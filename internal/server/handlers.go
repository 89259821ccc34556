package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/comerian/gmaildrafter/internal/auth"
	"github.com/comerian/gmaildrafter/internal/drafter"
	"github.com/comerian/gmaildrafter/internal/gmail"
	"github.com/comerian/gmaildrafter/internal/instrumentation"
	"github.com/comerian/gmaildrafter/internal/logging"
	"github.com/comerian/gmaildrafter/internal/sheets"
)

// loadSheetRequest is the body of POST /api/load-sheet.
type loadSheetRequest struct {
	SheetURL string `json:"sheetUrl"`
}

// draftsRequest is the body of POST /api/drafts.
type draftsRequest struct {
	SheetURL    string `json:"sheetUrl"`
	Template    string `json:"template"`
	AccessToken string `json:"accessToken"`
	Email       string `json:"email,omitempty"`
}

// errorResponse is the JSON body for all error results.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HandleLoadSheet loads the first worksheet of the requested spreadsheet
// and returns its headers and rows.
func (sc *ServerContext) HandleLoadSheet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req loadSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sheetID, err := sheets.ExtractSheetID(req.SheetURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := instrumentation.StartSpan(ctx, "sheets.load",
		attribute.String(instrumentation.SpanAttrSheetID, sheetID))
	defer span.End()

	client, err := sc.SheetsClient()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		sc.recordSheetLoad(ctx, instrumentation.StatusError, start)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fetchStart := time.Now()
	table, err := client.FetchTable(ctx, sheetID)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		sc.recordGoogleAPI(ctx, "sheets", "fetch_table", instrumentation.StatusError, fetchStart)
		sc.recordSheetLoad(ctx, instrumentation.StatusError, start)
		writeError(w, sheetErrorStatus(err), err.Error())
		return
	}
	sc.recordGoogleAPI(ctx, "sheets", "fetch_table", instrumentation.StatusSuccess, fetchStart)

	instrumentation.SetSpanSuccess(span)
	sc.recordSheetLoad(ctx, instrumentation.StatusSuccess, start)
	writeJSON(w, http.StatusOK, table)
}

// HandleDrafts loads the requested sheet and runs one draft batch over it
// using the caller's Google access token.
func (sc *ServerContext) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req draftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccessToken == "" {
		if sc.provider != nil {
			sc.provider.Metrics().RecordOAuthAuth(ctx, instrumentation.StatusError)
		}
		writeError(w, http.StatusUnauthorized, "authentication required; please sign in again")
		return
	}

	sheetID, err := sheets.ExtractSheetID(req.SheetURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := sc.SheetsClient()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fetchStart := time.Now()
	table, err := client.FetchTable(ctx, sheetID)
	if err != nil {
		sc.recordGoogleAPI(ctx, "sheets", "fetch_table", instrumentation.StatusError, fetchStart)
		writeError(w, sheetErrorStatus(err), err.Error())
		return
	}
	sc.recordGoogleAPI(ctx, "sheets", "fetch_table", instrumentation.StatusSuccess, fetchStart)

	handle := sc.registry.HandleForToken(req.AccessToken, req.Email)
	handle.Runner.LoadTable(table)

	runID := uuid.NewString()
	ctx, span := instrumentation.StartBatchSpan(ctx, runID,
		attribute.String(instrumentation.SpanAttrSheetID, sheetID))
	defer span.End()

	run := instrumentation.NewBatchRun(runID).
		WithUser(req.Email).
		WithSheet(sheetID).
		WithSpanContext(ctx)

	result, err := handle.Runner.Run(ctx, req.Template)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		run.Complete(0, 0, err)
		sc.finishBatch(ctx, run)

		status := batchErrorStatus(err)
		slog.Warn("draft batch failed",
			logging.Operation("drafts_endpoint"),
			logging.SheetID(sheetID),
			logging.Err(err))
		writeError(w, status, err.Error())
		return
	}

	instrumentation.SetSpanSuccess(span)
	run.Complete(result.Created, result.Skipped, nil)
	sc.finishBatch(ctx, run)

	writeJSON(w, http.StatusOK, result)
}

// HandleHealth reports the service status for the front end.
func (sc *ServerContext) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// sheetErrorStatus maps a sheet ingestion error to its HTTP status.
func sheetErrorStatus(err error) int {
	var upstream *sheets.UpstreamError

	switch {
	case errors.Is(err, sheets.ErrInvalidURL), errors.Is(err, sheets.ErrInvalidHeader):
		return http.StatusBadRequest
	case errors.Is(err, sheets.ErrEmptySheet):
		return http.StatusNotFound
	case errors.Is(err, sheets.ErrMissingCredentials):
		return http.StatusInternalServerError
	case errors.As(err, &upstream):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// batchErrorStatus maps a batch run error to its HTTP status.
func batchErrorStatus(err error) int {
	var validation *drafter.ValidationError
	var creation *gmail.DraftCreationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.As(err, &creation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (sc *ServerContext) recordSheetLoad(ctx context.Context, status string, start time.Time) {
	if sc.provider == nil {
		return
	}
	sc.provider.Metrics().RecordSheetLoad(ctx, status, time.Since(start))
}

func (sc *ServerContext) recordGoogleAPI(ctx context.Context, service, operation, status string, start time.Time) {
	if sc.provider == nil {
		return
	}
	sc.provider.Metrics().RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))
}

func (sc *ServerContext) finishBatch(ctx context.Context, run *instrumentation.BatchRun) {
	if sc.provider == nil {
		return
	}
	sc.provider.Metrics().RecordBatchRun(ctx, run.Status(), run.Created, run.Skipped, run.Duration)
	sc.provider.AuditLogger().LogBatchRun(run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
