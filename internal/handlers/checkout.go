package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/validation"
	pkghttp "github.com/entradahq/entrada/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CheckoutHandler handles ticket purchase HTTP requests
type CheckoutHandler struct {
	service OrderServiceInterface
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service OrderServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CheckoutRequest represents the request body for checkout. Payment
// field content rules are enforced by the payment validators; the tags
// only catch missing fields early.
type CheckoutRequest struct {
	Qty          int    `json:"qty"`
	CardNumber   string `json:"card_number" validate:"required"`
	ExpDate      string `json:"exp_date" validate:"required"`
	CVV          string `json:"cvv" validate:"required"`
	NameOnCard   string `json:"name_on_card" validate:"required"`
	BillingEmail string `json:"billing_email" validate:"required"`
}

// Checkout places an order for the authenticated user
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid event id")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	form := validation.PaymentForm{
		CardNumber:   req.CardNumber,
		ExpDate:      req.ExpDate,
		CVV:          req.CVV,
		NameOnCard:   req.NameOnCard,
		BillingEmail: req.BillingEmail,
	}

	order, fieldErrors, err := h.service.Checkout(r.Context(), claims.Email, eventID, req.Qty, form)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Event not found")
		case errors.Is(err, models.ErrNotEnoughTickets):
			pkghttp.WriteConflict(w, "Not enough tickets available")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}
	if len(fieldErrors) > 0 {
		pkghttp.WriteFieldErrors(w, fieldErrors)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, orderModelToResponse(order))
}

func orderModelToResponse(order *models.Order) *OrderResponse {
	return &OrderResponse{
		ID:         order.ID,
		EventID:    order.EventID,
		EventTitle: order.EventTitle,
		Qty:        order.Qty,
		UnitPrice:  order.UnitPrice,
		ServiceFee: order.ServiceFee,
		Total:      order.Total,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}
