package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	"github.com/entradahq/entrada/internal/validation"
	pkghttp "github.com/entradahq/entrada/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserServiceInterface defines the interface for profile business logic
type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*services.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, form services.ProfileUpdateForm) (*services.UserResponse, map[string]string, error)
}

// OrderServiceInterface defines the order operations the handlers need
type OrderServiceInterface interface {
	Checkout(ctx context.Context, userEmail string, eventID int64, qty int, form validation.PaymentForm) (*models.Order, map[string]string, error)
	ListOrders(ctx context.Context, userEmail string) ([]*models.Order, error)
	GetOrder(ctx context.Context, userEmail, orderID string) (*models.Order, error)
}

// UserHandler handles profile HTTP requests
type UserHandler struct {
	users  UserServiceInterface
	orders OrderServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserServiceInterface, orders OrderServiceInterface) *UserHandler {
	return &UserHandler{users: users, orders: orders}
}

// UpdateProfileRequest represents the request body for profile updates.
// Password fields are optional; both must be supplied to change it.
type UpdateProfileRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// OrderResponse represents an order in the HTTP response
type OrderResponse struct {
	ID         string  `json:"id"`
	EventID    int64   `json:"event_id"`
	EventTitle string  `json:"event_title"`
	Qty        int     `json:"qty"`
	UnitPrice  float64 `json:"unit_price"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UpdateMe applies profile edits for the authenticated user
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	form := services.ProfileUpdateForm{
		FullName:        req.FullName,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}

	profile, fieldErrors, err := h.users.UpdateProfile(r.Context(), claims.UserID, form)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if len(fieldErrors) > 0 {
		pkghttp.WriteFieldErrors(w, fieldErrors)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// MyOrders returns the authenticated user's order history
func (h *UserHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), claims.Email)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, orderModelToResponse(order))
	}

	pkghttp.WriteJSON(w, http.StatusOK, responses)
}

// MyOrder returns a single order receipt for the authenticated user
func (h *UserHandler) MyOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), claims.Email, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Order not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, orderModelToResponse(order))
}
