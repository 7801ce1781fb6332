package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/validation"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// Ticket quantity bounds per order.
const (
	minTicketQty = 1
	maxTicketQty = 8
)

// OrderRepository defines the order storage operations the services need
type OrderRepository interface {
	Place(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUser(ctx context.Context, userEmail string) ([]*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
}

// OrderService handles checkout business logic
type OrderService struct {
	orders      OrderRepository
	events      EventRepository
	email       EmailService
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
}

// NewOrderService creates a new OrderService. email may be nil when
// receipt sending is disabled.
func NewOrderService(orders OrderRepository, events EventRepository, email EmailService, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *OrderService {
	return &OrderService{
		orders:      orders,
		events:      events,
		email:       email,
		logger:      logger,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// Checkout validates the payment form and places the order. Field-level
// problems come back in the map keyed by field name, with the error
// return nil. The stored payment snapshot holds only cleaned values and
// never the CVV.
func (s *OrderService) Checkout(ctx context.Context, userEmail string, eventID int64, qty int, form validation.PaymentForm) (*models.Order, map[string]string, error) {
	if qty < minTicketQty {
		qty = minTicketQty
	}
	if qty > maxTicketQty {
		qty = maxTicketQty
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.ErrNotFound
		}
		s.logger.Error("failed to get event for checkout", slog.Int64("event_id", eventID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	if event.AvailableTickets < qty {
		return nil, nil, models.ErrNotEnoughTickets
	}

	result := validation.ValidatePaymentForm(form, s.now())
	if !result.Valid() {
		s.logger.Info("checkout rejected by validation",
			slog.Int64("event_id", eventID),
			slog.Int("field_errors", len(result.Errors)))
		return nil, result.Errors, nil
	}

	order := &models.Order{
		UserEmail:  userEmail,
		EventID:    event.ID,
		EventTitle: event.Title,
		Qty:        qty,
		UnitPrice:  event.PriceUSD,
		ServiceFee: models.ServiceFeeUSD,
		Total:      event.PriceUSD*float64(qty) + models.ServiceFeeUSD,
		Status:     models.OrderStatusPaid,
		Payment: models.PaymentSnapshot{
			Card:         result.Clean["card"],
			ExpDate:      result.Clean["exp_date"],
			NameOnCard:   result.Clean["name_on_card"],
			BillingEmail: result.Clean["billing_email"],
		},
	}

	placed, err := s.orders.Place(ctx, order)
	if err != nil {
		if errors.Is(err, models.ErrNotEnoughTickets) {
			s.auditLogger.LogCheckout(userEmail, "", eventID, order.Total, false)
			return nil, nil, models.ErrNotEnoughTickets
		}
		s.logger.Error("failed to place order", slog.Int64("event_id", eventID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	s.logger.Info("order placed",
		slog.String("order_id", placed.ID),
		slog.Int64("event_id", placed.EventID),
		slog.Int("qty", placed.Qty))
	s.auditLogger.LogCheckout(userEmail, placed.ID, placed.EventID, placed.Total, true)

	if s.email != nil {
		if err := s.email.SendOrderReceipt(ctx, placed); err != nil {
			// Receipt failure never fails a paid order
			s.logger.Warn("failed to send order receipt", slog.String("order_id", placed.ID), slog.Any("error", err))
		}
	}

	return placed, nil, nil
}

// ListOrders returns the user's order history, newest first
func (s *OrderService) ListOrders(ctx context.Context, userEmail string) ([]*models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userEmail)
	if err != nil {
		s.logger.Error("failed to list orders", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return orders, nil
}

// GetOrder returns a single order for the receipt view. Orders belonging
// to other users are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, userEmail, orderID string) (*models.Order, error) {
	// Order ids are UUIDs; anything else can skip the round trip
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, models.ErrNotFound
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get order", slog.String("order_id", orderID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if order.UserEmail != userEmail {
		return nil, models.ErrNotFound
	}

	return order, nil
}
