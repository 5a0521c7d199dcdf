package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveyhub/internal/model"
	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/middleware"
)

// PublicHandler handles the respondent-facing endpoints. No login is
// required; a valid token on submit attributes the response.
type PublicHandler struct {
	collectorSvc *service.CollectorService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(collectorSvc *service.CollectorService) *PublicHandler {
	return &PublicHandler{collectorSvc: collectorSvc}
}

// Get handles GET /v1/public/surveys/{slug}
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	bundle, err := h.collectorSvc.GetPublished(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// SubmitRequest is the submission body: one answer per question ID
type SubmitRequest struct {
	Answers map[string]model.AnswerInput `json:"answers"`
}

// Submit handles POST /v1/public/surveys/{slug}/responses
func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, count, err := h.collectorSvc.Submit(r.Context(), slug, middleware.GetUserID(r.Context()), req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"responseId":  response.ID,
		"submittedAt": response.SubmittedAt,
		"count":       count,
	})
}
