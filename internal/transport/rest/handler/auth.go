package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"surveyhub/internal/model"
	"surveyhub/internal/repository"
	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/middleware"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.authSvc.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// ProfileRequest is the request body for profile updates; absent fields
// are left untouched.
type ProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Phone       *string `json:"phone"`
	Gender      *string `json:"gender"`
	BirthDate   *string `json:"birthDate"`
}

func (req *ProfileRequest) patch() repository.ProfilePatch {
	return repository.ProfilePatch{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Gender:      req.Gender,
		BirthDate:   req.BirthDate,
	}
}

// UpdateProfile handles PUT /v1/me/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.UpdateProfile(r.Context(), userID, req.patch()); err != nil {
		writeServiceError(w, err)
		return
	}

	account, err := h.authSvc.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotEditable):
		writeError(w, http.StatusConflict, "survey is no longer editable")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid status transition")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		// The wrapped detail stays in the log, never in the response
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
