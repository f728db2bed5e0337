package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a11ylens/api/internal/app"
	"github.com/a11ylens/api/pkg/apierror"
	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/logger"
	"github.com/a11ylens/api/pkg/validator"
)

// MonitorHandler handles HTTP requests for monitors.
type MonitorHandler struct {
	service   *app.MonitorService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(service *app.MonitorService, v *validator.Validator, log *logger.Logger) *MonitorHandler {
	return &MonitorHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "monitor"),
	}
}

// RegisterMonitorRequest represents the request body for registering
// a monitor.
type RegisterMonitorRequest struct {
	URL          string `json:"url" validate:"required,max=2048"`
	Contact      string `json:"contact" validate:"required,email,max=254"`
	Frequency    string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	ScheduleCron string `json:"schedule_cron" validate:"omitempty,max=128"`
}

// Register creates or revives a monitor for the URL's host.
// POST /api/v1/monitors
func (h *MonitorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterMonitorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, apierror.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.service.Register(r.Context(), app.RegisterMonitorInput{
		URL:          req.URL,
		Contact:      req.Contact,
		Frequency:    req.Frequency,
		ScheduleCron: req.ScheduleCron,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

// MonitorListResponse represents the monitor list response.
type MonitorListResponse struct {
	Data  []*monitor.Monitor `json:"data"`
	Total int                `json:"total"`
}

// List returns all registered monitors.
// GET /api/v1/monitors
func (h *MonitorHandler) List(w http.ResponseWriter, r *http.Request) {
	monitors, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if monitors == nil {
		monitors = []*monitor.Monitor{}
	}
	respondJSON(w, http.StatusOK, MonitorListResponse{Data: monitors, Total: len(monitors)})
}

// Get retrieves a monitor by id.
// GET /api/v1/monitors/{id}
func (h *MonitorHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMonitor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Deactivate stops a monitor's scheduled scans.
// DELETE /api/v1/monitors/{id}
func (h *MonitorHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}
