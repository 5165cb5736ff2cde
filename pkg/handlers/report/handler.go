package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/newpennine/report-engine/pkg/adapters"
	"github.com/newpennine/report-engine/pkg/models/api"
	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/services/report"
)

type Handler struct {
	registry report.Registry
	engine   *report.Engine
}

func NewHandler(registry report.Registry, engine *report.Engine) *Handler {
	return &Handler{
		registry: registry,
		engine:   engine,
	}
}

// ListReports returns the catalogue of registered reports, optionally
// narrowed by a category query parameter.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var regs []*report.Registration
	if category := r.URL.Query().Get("category"); category != "" {
		regs = h.registry.ByCategory(category)
	} else {
		regs = h.registry.All()
	}

	response := make([]api.ReportSummary, 0, len(regs))
	for _, reg := range regs {
		response = append(response, adapters.MapReportConfigDomainToApiSummary(reg.Config))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode report list")
	}
}

// GetReport returns the full descriptor of one report: its filters,
// sections and columns, as a client needs to build a request form.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	reportID := chi.URLParam(r, "reportID")

	reg, err := h.registry.Get(reportID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapReportConfigDomainToApiDetail(reg.Config)); err != nil {
		logger.Error().
			Err(err).
			Str("report", reportID).
			Msg("failed to encode report detail")
	}
}

// GenerateReport runs a report and streams the rendered payload back as a
// file download.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	reportID := chi.URLParam(r, "reportID")

	var request api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	payload, err := h.engine.Generate(ctx, reportID, domain.Format(request.Format), request.Filters)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", payload.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	if _, err := w.Write(payload.Data); err != nil {
		logger.Error().
			Err(err).
			Str("report", reportID).
			Msg("failed to write report payload")
	}
}

// statusFor maps the generation error taxonomy onto HTTP statuses. The
// engine wraps everything in a GenerationError, so match on the causes.
func statusFor(err error) int {
	var (
		configErr     *report.ConfigurationError
		formatErr     *report.FormatError
		validationErr *report.ValidationError
		sourceErr     *report.DataSourceError
	)
	switch {
	case errors.As(err, &configErr):
		return http.StatusNotFound
	case errors.As(err, &formatErr):
		return http.StatusBadRequest
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &sourceErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: err.Error()})
}
