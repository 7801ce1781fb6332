package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	pkghttp "github.com/entradahq/entrada/pkg/http"
	"github.com/go-chi/chi/v5"
)

// Listing pagination bounds.
const (
	defaultUserListLimit = 50
	maxUserListLimit     = 200
)

// AdminServiceInterface defines the interface for admin business logic
type AdminServiceInterface interface {
	ListUsers(ctx context.Context, filter models.UserFilter, lockedOnly bool, limit, offset int) ([]*services.AdminUserResponse, error)
	SetStatus(ctx context.Context, actorID, userID, status string) (*services.UserResponse, error)
	SetRole(ctx context.Context, actorID, userID, role string) (*services.UserResponse, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
}

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// SetStatusRequest represents the request body for status changes
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled"`
}

// SetRoleRequest represents the request body for role changes
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ListUsers handles the admin user listing with optional q, role,
// status, and locked query parameters.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := models.UserFilter{
		Query:  r.URL.Query().Get("q"),
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
	}
	lockedOnly := r.URL.Query().Get("locked") == "true"

	limit := defaultUserListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			pkghttp.WriteBadRequest(w, "Invalid limit")
			return
		}
		if parsed > maxUserListLimit {
			parsed = maxUserListLimit
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			pkghttp.WriteBadRequest(w, "Invalid offset")
			return
		}
		offset = parsed
	}

	users, err := h.service.ListUsers(r.Context(), filter, lockedOnly, limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// SetStatus switches a user between active and disabled
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.SetStatus(r.Context(), claims.UserID, userID, req.Status)
	if err != nil {
		writeAdminError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// SetRole changes a user's role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.SetRole(r.Context(), claims.UserID, userID, req.Role)
	if err != nil {
		writeAdminError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "id")

	if err := h.service.DeleteUser(r.Context(), claims.UserID, userID); err != nil {
		writeAdminError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Admins cannot modify their own account")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid value")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
