package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveyhub/internal/model"
	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/middleware"
)

// SurveyHandler handles the authoring endpoints
type SurveyHandler struct {
	surveySvc  *service.SurveyService
	resultsSvc *service.ResultsService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, resultsSvc *service.ResultsService) *SurveyHandler {
	return &SurveyHandler{
		surveySvc:  surveySvc,
		resultsSvc: resultsSvc,
	}
}

// SurveyResponse is the survey detail payload with its question set
type SurveyResponse struct {
	Survey    *model.Survey               `json:"survey"`
	Questions []model.QuestionWithOptions `json:"questions"`
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft service.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveySvc.Save(r.Context(), middleware.GetUserID(r.Context()), "", &draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, survey)
}

// Update handles PUT /v1/surveys/{surveyId}
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	var draft service.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveySvc.Save(r.Context(), middleware.GetUserID(r.Context()), surveyID, &draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.surveySvc.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	survey, questions, err := h.surveySvc.Get(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SurveyResponse{Survey: survey, Questions: questions})
}

// GetForEdit handles GET /v1/surveys/{surveyId}/edit. Draft surveys only;
// published and closed surveys answer 409.
func (h *SurveyHandler) GetForEdit(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	survey, questions, err := h.surveySvc.GetForEdit(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SurveyResponse{Survey: survey, Questions: questions})
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	if err := h.surveySvc.Delete(r.Context(), middleware.GetUserID(r.Context()), surveyID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Publish handles POST /v1/surveys/{surveyId}/publish
func (h *SurveyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.surveySvc.Publish)
}

// Close handles POST /v1/surveys/{surveyId}/close
func (h *SurveyHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.surveySvc.Close)
}

func (h *SurveyHandler) transition(w http.ResponseWriter, r *http.Request, do func(ctx context.Context, ownerID, surveyID string) (*model.Survey, error)) {
	surveyID := mux.Vars(r)["surveyId"]

	survey, err := do(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// Results handles GET /v1/surveys/{surveyId}/results
func (h *SurveyHandler) Results(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]

	results, err := h.resultsSvc.Aggregate(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
