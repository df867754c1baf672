package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const maxJobPayloadBytes = 1 << 16

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// FixtureIngestor runs one fixture ingestion over a fetch window.
type FixtureIngestor interface {
	Ingest(ctx context.Context, window usecase.FetchWindow) (usecase.RunSummary, error)
}

type Handler struct {
	ingestion FixtureIngestor
	validate  *validator.Validate
	logger    *logging.Logger
}

func NewHandler(ingestion FixtureIngestor, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		ingestion: ingestion,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ingestFixturesRequest struct {
	DateFrom string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) RunIngestFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunIngestFixturesJob")
	defer span.End()

	if h.ingestion == nil {
		writeError(ctx, w, fmt.Errorf("%w: fixture ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeIngestFixturesRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	window, err := req.window()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.ingestion.Ingest(ctx, window)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest fixtures job failed",
			"run_id", summary.RunID,
			"window", summary.Window,
			"processed", summary.Processed,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, summary)
}

func (h *Handler) decodeIngestFixturesRequest(r *http.Request) (ingestFixturesRequest, error) {
	var req ingestFixturesRequest
	if r.Body == nil {
		return req, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJobPayloadBytes))
	if err != nil {
		return ingestFixturesRequest{}, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := strictJSON.Unmarshal(raw, &req); err != nil {
			return ingestFixturesRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}
	req.DateFrom = strings.TrimSpace(req.DateFrom)
	req.DateTo = strings.TrimSpace(req.DateTo)

	if err := h.validate.Struct(req); err != nil {
		return ingestFixturesRequest{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}

// window returns the zero window when no dates were given.
func (r ingestFixturesRequest) window() (usecase.FetchWindow, error) {
	if r.DateFrom == "" && r.DateTo == "" {
		return usecase.FetchWindow{}, nil
	}
	from, err := time.Parse(time.DateOnly, r.DateFrom)
	if err != nil {
		return usecase.FetchWindow{}, fmt.Errorf("%w: date_from: %v", usecase.ErrInvalidInput, err)
	}
	to, err := time.Parse(time.DateOnly, r.DateTo)
	if err != nil {
		return usecase.FetchWindow{}, fmt.Errorf("%w: date_to: %v", usecase.ErrInvalidInput, err)
	}
	if to.Before(from) {
		return usecase.FetchWindow{}, fmt.Errorf("%w: date_to is before date_from", usecase.ErrInvalidInput)
	}
	return usecase.FetchWindow{From: from, To: to}, nil
}
