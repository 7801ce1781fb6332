package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/entradahq/entrada/internal/models"
	pkglogger "github.com/entradahq/entrada/pkg/logger"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	ListEmailsFunc func(ctx context.Context) ([]string, error)
	ListFunc       func(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc     func(ctx context.Context, id string, user *models.User) (*models.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) ListEmails(ctx context.Context) ([]string, error) {
	if m.ListEmailsFunc != nil {
		return m.ListEmailsFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockUserRepository) List(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockEventRepository implements EventRepository for testing
type MockEventRepository struct {
	ListFunc        func(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*models.Event, error)
	ListSimilarFunc func(ctx context.Context, category string, excludeID int64, limit int) ([]*models.Event, error)
}

func (m *MockEventRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Event{}, nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockEventRepository) ListSimilar(ctx context.Context, category string, excludeID int64, limit int) ([]*models.Event, error) {
	if m.ListSimilarFunc != nil {
		return m.ListSimilarFunc(ctx, category, excludeID, limit)
	}
	return []*models.Event{}, nil
}

// MockOrderRepository implements OrderRepository for testing
type MockOrderRepository struct {
	PlaceFunc      func(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUserFunc func(ctx context.Context, userEmail string) ([]*models.Order, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.Order, error)
}

func (m *MockOrderRepository) Place(ctx context.Context, order *models.Order) (*models.Order, error) {
	if m.PlaceFunc != nil {
		return m.PlaceFunc(ctx, order)
	}
	return nil, models.ErrInternalServer
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userEmail string) ([]*models.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userEmail)
	}
	return []*models.Order{}, nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockTokenManager is a minimal mock for TokenManager
type MockTokenManager struct {
	GenerateAccessTokenFunc  func(userID, email string) (string, error)
	GenerateRefreshTokenFunc func(userID, email string) (string, error)
	ValidateTokenFunc        func(tokenString string) (*models.TokenClaims, error)
}

func (m *MockTokenManager) GenerateAccessToken(userID, email string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, email)
	}
	return "access_token_" + userID, nil
}

func (m *MockTokenManager) GenerateRefreshToken(userID, email string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID, email)
	}
	return "refresh_token_" + userID, nil
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	return nil, models.ErrUnauthorized
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendOrderReceiptFunc func(ctx context.Context, order *models.Order) error
}

func (m *MockEmailService) SendOrderReceipt(ctx context.Context, order *models.Order) error {
	if m.SendOrderReceiptFunc != nil {
		return m.SendOrderReceiptFunc(ctx, order)
	}
	return nil
}

// MockTimingDelay implements TimingDelayer without sleeping
type MockTimingDelay struct {
	WaitFromFunc func(startTime time.Time, success bool)
}

func (m *MockTimingDelay) WaitFrom(startTime time.Time, success bool) {
	if m.WaitFromFunc != nil {
		m.WaitFromFunc(startTime, success)
	}
}

// newTestLogger returns a logger that discards output
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuditLogger returns an audit logger that discards output
func newTestAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(newTestLogger())
}

// NewTestUser constructs an active user for tests
func NewTestUser(id, email, fullName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     email,
		FullName:  fullName,
		Role:      models.RoleUser,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestUserWithPassword constructs a user with the given password hash
func NewTestUserWithPassword(id, email, fullName, passwordHash string) *models.User {
	user := NewTestUser(id, email, fullName)
	user.PasswordHash = passwordHash
	return user
}

// NewTestEvent constructs an upcoming event for tests
func NewTestEvent(id int64, title, category string, price float64, available int) *models.Event {
	start := time.Now().Add(30 * 24 * time.Hour)
	return &models.Event{
		ID:               id,
		Title:            title,
		Category:         category,
		City:             "New York",
		Venue:            "Test Hall",
		Start:            start,
		End:              start.Add(3 * time.Hour),
		PriceUSD:         price,
		AvailableTickets: available,
	}
}
