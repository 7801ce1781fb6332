package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	svc := &MockUserService{
		GetProfileFunc: func(ctx context.Context, userID string) (*services.UserResponse, error) {
			assert.Equal(t, "user-1", userID)
			return &services.UserResponse{ID: "user-1", Email: "ana@example.com", FullName: "Ana Gomez"}, nil
		},
	}
	handler := NewUserHandler(svc, &MockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	var resp services.UserResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	assert.Equal(t, "Ana Gomez", resp.FullName)
}

func TestMe_Unauthenticated(t *testing.T) {
	handler := NewUserHandler(&MockUserService{}, &MockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe_Success(t *testing.T) {
	var gotForm services.ProfileUpdateForm
	svc := &MockUserService{
		UpdateProfileFunc: func(ctx context.Context, userID string, form services.ProfileUpdateForm) (*services.UserResponse, map[string]string, error) {
			gotForm = form
			return &services.UserResponse{ID: userID, FullName: form.FullName}, nil, nil
		},
	}
	handler := NewUserHandler(svc, &MockOrderService{})

	body := UpdateProfileRequest{FullName: "Ana Maria Gomez", Phone: "5559876543"}
	req := NewTestRequest(t, http.MethodPut, "/users/me", body)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	rec := httptest.NewRecorder()

	handler.UpdateMe(rec, req)

	var resp services.UserResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	assert.Equal(t, "Ana Maria Gomez", gotForm.FullName)
	assert.Empty(t, gotForm.Password)
}

func TestUpdateMe_FieldErrors(t *testing.T) {
	svc := &MockUserService{
		UpdateProfileFunc: func(ctx context.Context, userID string, form services.ProfileUpdateForm) (*services.UserResponse, map[string]string, error) {
			return nil, map[string]string{"phone": "Enter a valid phone number"}, nil
		},
	}
	handler := NewUserHandler(svc, &MockOrderService{})

	body := UpdateProfileRequest{FullName: "Ana Gomez", Phone: "12"}
	req := NewTestRequest(t, http.MethodPut, "/users/me", body)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	rec := httptest.NewRecorder()

	handler.UpdateMe(rec, req)

	AssertFieldErrorResponse(t, rec, "phone")
}

func TestMyOrders(t *testing.T) {
	svc := &MockOrderService{
		ListOrdersFunc: func(ctx context.Context, userEmail string) ([]*models.Order, error) {
			assert.Equal(t, "ana@example.com", userEmail)
			return []*models.Order{
				{ID: "order-2", EventTitle: "Jazz Night", Status: models.OrderStatusPaid, CreatedAt: time.Now()},
				{ID: "order-1", EventTitle: "Tech Expo", Status: models.OrderStatusPaid, CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}
	handler := NewUserHandler(&MockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/users/me/orders", nil)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	rec := httptest.NewRecorder()

	handler.MyOrders(rec, req)

	var resp []*OrderResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "order-2", resp[0].ID)
}

func TestMyOrder(t *testing.T) {
	svc := &MockOrderService{
		GetOrderFunc: func(ctx context.Context, userEmail, orderID string) (*models.Order, error) {
			assert.Equal(t, "ana@example.com", userEmail)
			if orderID != "order-1" {
				return nil, models.ErrNotFound
			}
			return &models.Order{
				ID:         "order-1",
				UserEmail:  userEmail,
				EventID:    42,
				EventTitle: "Jazz Night",
				Qty:        2,
				Total:      105.00,
				Status:     models.OrderStatusPaid,
				CreatedAt:  time.Now(),
			}, nil
		},
	}
	handler := NewUserHandler(&MockUserService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/users/me/orders/order-1", nil)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	req = WithChiRouteContext(req, map[string]string{"id": "order-1"})
	rec := httptest.NewRecorder()

	handler.MyOrder(rec, req)

	var resp OrderResponse
	AssertJSONResponse(t, rec, http.StatusOK, &resp)
	assert.Equal(t, "order-1", resp.ID)
	assert.Equal(t, "Jazz Night", resp.EventTitle)
}

func TestMyOrder_NotFound(t *testing.T) {
	handler := NewUserHandler(&MockUserService{}, &MockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me/orders/ghost", nil)
	req = WithAuthContext(req, "user-1", "ana@example.com")
	req = WithChiRouteContext(req, map[string]string{"id": "ghost"})
	rec := httptest.NewRecorder()

	handler.MyOrder(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
