package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a11ylens/api/internal/app"
	"github.com/a11ylens/api/pkg/apierror"
	"github.com/a11ylens/api/pkg/logger"
	"github.com/a11ylens/api/pkg/validator"
)

// ScanHandler handles HTTP requests for scans.
type ScanHandler struct {
	service   *app.ScanService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(service *app.ScanService, v *validator.Validator, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "scan"),
	}
}

// CreateScanRequest represents the request body for running a scan.
type CreateScanRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// Create runs a scan against the requested URL.
// POST /api/v1/scans
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, apierror.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := h.service.Scan(r.Context(), app.ScanInput{URL: req.URL})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// Get retrieves a scan record by id.
// GET /api/v1/scans/{id}
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetScan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// List returns retained scans, newest first.
// GET /api/v1/scans?target=&page=&per_page=
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	page := parseQueryInt(r.URL.Query().Get("page"), 1)
	perPage := parseQueryInt(r.URL.Query().Get("per_page"), 50)

	result, err := h.service.History(r.Context(), target, page, perPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Trend returns the score history and trend for a URL's host.
// GET /api/v1/trend?url=
func (h *ScanHandler) Trend(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, r, apierror.BadRequest("url query parameter is required"))
		return
	}

	report, err := h.service.Trend(r.Context(), rawURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
