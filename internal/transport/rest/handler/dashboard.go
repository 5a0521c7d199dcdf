package handler

import (
	"net/http"

	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/middleware"
)

// DashboardHandler handles the owner dashboard endpoints
type DashboardHandler struct {
	surveySvc *service.SurveyService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(surveySvc *service.SurveyService) *DashboardHandler {
	return &DashboardHandler{surveySvc: surveySvc}
}

// Stats handles GET /v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.surveySvc.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Timeline handles GET /v1/dashboard/timeline
func (h *DashboardHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	points, err := h.surveySvc.Timeline(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"timeline": points})
}
