package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"optiqc/internal/dataprocessing"
	apierrors "optiqc/internal/errors"
	"optiqc/internal/infrastructure"
	custommw "optiqc/internal/middleware"
	"optiqc/internal/report"
	"optiqc/internal/services"
	"optiqc/internal/validation"
)

// ReportHandler handles report generation and download requests
// with RFC 7807 compliant error responses.
type ReportHandler struct {
	service        ReportServiceInterface
	store          *services.ReportStore
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *custommw.ValidationMiddleware
	query          *custommw.QueryParamValidator
	validator      *validation.WorkbookValidator
	maxUploadBytes int64
}

// uploadRequest is the validated shape of a generate call: the batch of
// workbook names extracted from the multipart form.
type uploadRequest struct {
	Filenames []string `json:"files" validate:"required,min=1,dive,workbook"`
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service ReportServiceInterface, store *services.ReportStore, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validate *custommw.ValidationMiddleware, maxUploadBytes int64) *ReportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 128 << 20
	}
	if validate == nil {
		validate = custommw.NewValidationMiddleware(logger, errorHandler)
	}
	return &ReportHandler{
		service:        service,
		store:          store,
		logger:         infrastructure.WithComponent(logger, "report_handler"),
		errorHandler:   errorHandler,
		validate:       validate,
		query:          custommw.NewQueryParamValidator(logger, errorHandler),
		validator:      validation.NewWorkbookValidator(logger),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the report routes with proper Chi patterns.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.GenerateReport)
	r.Get("/", h.ListReports)

	r.Route("/{reportID}", func(r chi.Router) {
		r.Use(h.ReportCtx)
		r.Get("/", h.GetReport)
		r.Get("/download", h.DownloadReport)
	})

	return r
}

// ReportCtx middleware validates the reportID parameter.
func (h *ReportHandler) ReportCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "reportID")
		if _, err := uuid.Parse(id); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("report_id", "Report ID must be a valid UUID"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateReport handles POST /api/reports. It accepts a multipart
// upload of one or more xlsx workbooks, runs the full pipeline, and
// returns the generation summary with a download link.
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrUploadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoUploadFiles)
		return
	}

	req := uploadRequest{Filenames: make([]string, 0, len(files))}
	for _, fh := range files {
		req.Filenames = append(req.Filenames, fh.Filename)
	}
	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	inputs := make([]dataprocessing.Input, 0, len(files))
	var closers []func() error
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		closers = append(closers, f.Close)
		if err := h.validator.ValidateContent(f); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("files", fmt.Sprintf("%s: %v", fh.Filename, err)))
			return
		}
		inputs = append(inputs, dataprocessing.Input{Name: fh.Filename, Reader: f})
	}

	h.logger.InfoContext(r.Context(), "generating report",
		slog.String("request_id", reqID),
		slog.Int("files", len(inputs)),
	)

	deck, summary, err := h.service.Generate(r.Context(), inputs)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "report generation failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		if errors.Is(err, services.ErrNoData) {
			h.errorHandler.HandleError(w, r, apierrors.NoUsableDataError(err))
			return
		}

		h.errorHandler.HandleError(w, r, apierrors.ReportGenerationError(err))
		return
	}

	h.store.Put(*summary, deck)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"data":         summary,
		"download_url": fmt.Sprintf("/api/reports/%s/download", summary.ReportID),
	})
}

// ListReports handles GET /api/reports. An optional limit query
// parameter caps the number of summaries returned, newest first.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, 500, 0)
	if !ok {
		return
	}

	list := h.store.List()
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   list,
		"count":  len(list),
	})
}

// GetReport handles GET /api/reports/{reportID}.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")

	rep, err := h.store.Get(id)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"data":         rep.Summary,
		"download_url": fmt.Sprintf("/api/reports/%s/download", id),
	})
}

// DownloadReport handles GET /api/reports/{reportID}/download and
// serves the finished PowerPoint deck.
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	reqID := custommw.GetReqID(r.Context())

	rep, err := h.store.Get(id)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}

	h.logger.InfoContext(r.Context(), "serving report download",
		slog.String("request_id", reqID),
		slog.String("report_id", id),
		slog.Int("bytes", len(rep.Deck)),
	)

	disposition, ok := h.query.ValidateEnum(w, r, "disposition", []string{"attachment", "inline"}, "attachment")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, report.ReportFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Deck)))
	w.WriteHeader(http.StatusOK)
	w.Write(rep.Deck)
}
