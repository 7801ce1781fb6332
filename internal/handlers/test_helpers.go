package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entradahq/entrada/internal/auth"
	"github.com/entradahq/entrada/internal/models"
	"github.com/entradahq/entrada/internal/services"
	"github.com/entradahq/entrada/internal/validation"
	pkghttp "github.com/entradahq/entrada/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   "access",
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertFieldErrorResponse checks that response is a 400 carrying the given field errors
func AssertFieldErrorResponse(t *testing.T, w *httptest.ResponseRecorder, fields ...string) {
	assert.Equal(t, http.StatusBadRequest, w.Code, "Response status mismatch")

	var resp pkghttp.FieldErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode field error response")
	for _, field := range fields {
		assert.Contains(t, resp.FieldErrors, field)
	}
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc        func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	RegisterFunc     func(ctx context.Context, form validation.RegistrationForm) (*services.AuthResponse, map[string]string, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) Register(ctx context.Context, form validation.RegistrationForm) (*services.AuthResponse, map[string]string, error) {
	if m.RegisterFunc == nil {
		return nil, nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, form)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshTokenFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshTokenFunc(ctx, refreshToken)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*services.UserResponse, error)
	UpdateProfileFunc func(ctx context.Context, userID string, form services.ProfileUpdateForm) (*services.UserResponse, map[string]string, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*services.UserResponse, error) {
	if m.GetProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProfileFunc(ctx, userID)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, form services.ProfileUpdateForm) (*services.UserResponse, map[string]string, error) {
	if m.UpdateProfileFunc == nil {
		return nil, nil, models.ErrNotFound
	}
	return m.UpdateProfileFunc(ctx, userID, form)
}

// MockOrderService implements OrderServiceInterface for testing
type MockOrderService struct {
	CheckoutFunc   func(ctx context.Context, userEmail string, eventID int64, qty int, form validation.PaymentForm) (*models.Order, map[string]string, error)
	ListOrdersFunc func(ctx context.Context, userEmail string) ([]*models.Order, error)
	GetOrderFunc   func(ctx context.Context, userEmail, orderID string) (*models.Order, error)
}

func (m *MockOrderService) Checkout(ctx context.Context, userEmail string, eventID int64, qty int, form validation.PaymentForm) (*models.Order, map[string]string, error) {
	if m.CheckoutFunc == nil {
		return nil, nil, models.ErrInternalServer
	}
	return m.CheckoutFunc(ctx, userEmail, eventID, qty, form)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userEmail string) ([]*models.Order, error) {
	if m.ListOrdersFunc == nil {
		return []*models.Order{}, nil
	}
	return m.ListOrdersFunc(ctx, userEmail)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userEmail, orderID string) (*models.Order, error) {
	if m.GetOrderFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetOrderFunc(ctx, userEmail, orderID)
}

// MockEventService implements EventServiceInterface for testing
type MockEventService struct {
	ListFunc func(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	GetFunc  func(ctx context.Context, id int64) (*services.EventDetail, error)
}

func (m *MockEventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	if m.ListFunc == nil {
		return []*models.Event{}, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *MockEventService) Get(ctx context.Context, id int64) (*services.EventDetail, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListUsersFunc  func(ctx context.Context, filter models.UserFilter, lockedOnly bool, limit, offset int) ([]*services.AdminUserResponse, error)
	SetStatusFunc  func(ctx context.Context, actorID, userID, status string) (*services.UserResponse, error)
	SetRoleFunc    func(ctx context.Context, actorID, userID, role string) (*services.UserResponse, error)
	DeleteUserFunc func(ctx context.Context, actorID, userID string) error
}

func (m *MockAdminService) ListUsers(ctx context.Context, filter models.UserFilter, lockedOnly bool, limit, offset int) ([]*services.AdminUserResponse, error) {
	if m.ListUsersFunc == nil {
		return []*services.AdminUserResponse{}, nil
	}
	return m.ListUsersFunc(ctx, filter, lockedOnly, limit, offset)
}

func (m *MockAdminService) SetStatus(ctx context.Context, actorID, userID, status string) (*services.UserResponse, error) {
	if m.SetStatusFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetStatusFunc(ctx, actorID, userID, status)
}

func (m *MockAdminService) SetRole(ctx context.Context, actorID, userID, role string) (*services.UserResponse, error) {
	if m.SetRoleFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetRoleFunc(ctx, actorID, userID, role)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if m.DeleteUserFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteUserFunc(ctx, actorID, userID)
}
