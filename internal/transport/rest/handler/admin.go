package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveyhub/internal/model"
	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/middleware"
)

// AdminHandler handles account, role, and audit administration endpoints
type AdminHandler struct {
	adminSvc *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.adminSvc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": accounts})
}

// UpdateUserRequest is the admin user update body. Role is the full new
// role value; an empty role revokes it.
type UpdateUserRequest struct {
	ProfileRequest
	Role model.Role `json:"role"`
}

// UpdateUser handles PUT /v1/admin/users/{userId}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.adminSvc.UpdateUser(r.Context(), actorID, userID, req.patch(), req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ListRoles handles GET /v1/admin/roles
func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	records, err := h.adminSvc.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"roles": records})
}

// AssignRoleRequest is the role assignment body
type AssignRoleRequest struct {
	Role model.Role `json:"role"`
}

// AssignRole handles PUT /v1/admin/roles/{userId}
func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.adminSvc.AssignRole(r.Context(), actorID, userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// RevokeRole handles DELETE /v1/admin/roles/{userId}
func (h *AdminHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	actorID := middleware.GetUserID(r.Context())
	if err := h.adminSvc.RevokeRole(r.Context(), actorID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// Audit handles GET /v1/admin/audit. Optional query params "actor" and
// "table" filter the trail; without them the latest entries are returned.
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	var (
		entries []*model.AuditEntry
		err     error
	)
	switch {
	case r.URL.Query().Get("actor") != "":
		entries, err = h.adminSvc.AuditByActor(r.Context(), r.URL.Query().Get("actor"))
	case r.URL.Query().Get("table") != "":
		entries, err = h.adminSvc.AuditByTable(r.Context(), r.URL.Query().Get("table"))
	default:
		entries, err = h.adminSvc.AuditLatest(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
